// Package outbound defines repository interfaces for the application layer.
package outbound

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/user"
)

// Sentinel errors repositories translate storage failures into. The
// application layer maps them onto the API error taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// RecipeFilter narrows recipe listings. Viewer-relative filters
// (Favorited, InCart) are ignored when Viewer is nil, matching the
// anonymous passthrough behavior of the API.
type RecipeFilter struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited *bool
	InCart    *bool
	Viewer    *uuid.UUID
	Offset    int
	Limit     int
}

// RecipeRepository provides recipe persistence. Create and Update run the
// multi-table write (recipe row, tag links, ingredient amounts) in one
// transaction; a partial failure leaves nothing behind.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter RecipeFilter) ([]*recipe.Recipe, int, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*recipe.Recipe, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}

// UserRepository provides account reads and the follow graph.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*user.User, int, error)
	Followees(ctx context.Context, followerID uuid.UUID, offset, limit int) ([]*user.User, int, error)
}

// TagRepository provides tag reference data.
type TagRepository interface {
	Create(ctx context.Context, t *recipe.Tag) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Tag, error)
	List(ctx context.Context) ([]*recipe.Tag, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

// IngredientRepository provides ingredient reference data. Search matches
// names case-insensitively by substring.
type IngredientRepository interface {
	Create(ctx context.Context, i *recipe.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Ingredient, error)
	Search(ctx context.Context, name string) ([]*recipe.Ingredient, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

// PairStore is the storage side of the relation toggle: one
// uniqueness-constrained (owner, target) row per relation. Add returns
// ErrDuplicate when the pair already exists, including the case where a
// concurrent add won the race.
type PairStore interface {
	Exists(ctx context.Context, ownerID, targetID uuid.UUID) (bool, error)
	Add(ctx context.Context, ownerID, targetID uuid.UUID) error
	Remove(ctx context.Context, ownerID, targetID uuid.UUID) error
	Targets(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
}

// ShoppingListItem is one aggregated line of a user's shopping list.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListRepository aggregates ingredient amounts across every recipe
// in a user's shopping cart, grouped by (name, unit), sorted by name.
type ShoppingListRepository interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error)
}
