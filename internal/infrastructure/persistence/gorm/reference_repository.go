package gorm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/ports/outbound"
)

// TagRepository implements tag reference data access using GORM.
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) outbound.TagRepository {
	return &TagRepository{db: db}
}

// Create persists a tag.
func (r *TagRepository) Create(ctx context.Context, t *recipe.Tag) error {
	err := r.db.WithContext(ctx).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return outbound.ErrDuplicate
	}
	return err
}

// FindByID loads a tag by id.
func (r *TagRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Tag, error) {
	var t recipe.Tag
	result := r.db.WithContext(ctx).First(&t, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]*recipe.Tag, error) {
	var tags []*recipe.Tag
	err := r.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

// ExistingIDs reports which of the given tag ids exist.
func (r *TagRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return existingIDs(ctx, r.db, &recipe.Tag{}, ids)
}

// IngredientRepository implements ingredient reference data access.
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository.
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create persists an ingredient.
func (r *IngredientRepository) Create(ctx context.Context, i *recipe.Ingredient) error {
	err := r.db.WithContext(ctx).Create(i).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return outbound.ErrDuplicate
	}
	return err
}

// FindByID loads an ingredient by id.
func (r *IngredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Ingredient, error) {
	var ing recipe.Ingredient
	result := r.db.WithContext(ctx).First(&ing, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}
	return &ing, nil
}

// Search returns ingredients whose name contains the given substring,
// case-insensitively, ordered by name. An empty query returns everything.
func (r *IngredientRepository) Search(ctx context.Context, name string) ([]*recipe.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name")
	if name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	var ingredients []*recipe.Ingredient
	err := query.Find(&ingredients).Error
	return ingredients, err
}

// ExistingIDs reports which of the given ingredient ids exist.
func (r *IngredientRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	return existingIDs(ctx, r.db, &recipe.Ingredient{}, ids)
}

func existingIDs(ctx context.Context, db *gorm.DB, model any, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	existing := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	var found []uuid.UUID
	if err := db.WithContext(ctx).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}
