// Package recipe implements the recipe use cases: authoring, listing
// with viewer-relative flags, favorites, the shopping cart and the
// downloadable shopping list.
package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodgram/backend/internal/application/access"
	"github.com/foodgram/backend/internal/application/relation"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/user"
	"github.com/foodgram/backend/internal/ports/outbound"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

// ListQuery narrows and pages a recipe listing.
type ListQuery struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited *bool
	InCart    *bool
	Offset    int
	Limit     int
}

// Page is one page of recipes with the total match count.
type Page struct {
	Count   int   `json:"count"`
	Results []DTO `json:"results"`
}

// Service coordinates recipe persistence, validation and the relation
// toggles built on top of recipes.
type Service struct {
	recipes   outbound.RecipeRepository
	users     outbound.UserRepository
	follows   outbound.PairStore
	favorites outbound.PairStore
	carts     outbound.PairStore
	shopping  outbound.ShoppingListRepository
	validator *CompositionValidator
	log       *zap.Logger

	favoriteToggle *relation.Toggle
	cartToggle     *relation.Toggle
}

// NewService creates the recipe service.
func NewService(
	recipes outbound.RecipeRepository,
	users outbound.UserRepository,
	follows outbound.PairStore,
	favorites outbound.PairStore,
	carts outbound.PairStore,
	shopping outbound.ShoppingListRepository,
	validator *CompositionValidator,
	log *zap.Logger,
) *Service {
	s := &Service{
		recipes:   recipes,
		users:     users,
		follows:   follows,
		favorites: favorites,
		carts:     carts,
		shopping:  shopping,
		validator: validator,
		log:       log,
	}
	s.favoriteToggle = &relation.Toggle{
		Name:         "favorites",
		TargetKind:   "recipe",
		Store:        favorites,
		TargetExists: recipes.Exists,
	}
	s.cartToggle = &relation.Toggle{
		Name:         "shopping cart",
		TargetKind:   "recipe",
		Store:        carts,
		TargetExists: recipes.Exists,
	}
	return s
}

// Create validates and stores a new recipe owned by the actor.
func (s *Service) Create(ctx context.Context, actor *user.Identity, in Input) (DTO, error) {
	if err := access.RequireActive(actor); err != nil {
		return DTO{}, err
	}
	if err := s.validator.Validate(ctx, in); err != nil {
		return DTO{}, err
	}

	rec := buildRecipe(in)
	rec.AuthorID = actor.ID
	if err := s.recipes.Create(ctx, rec); err != nil {
		return DTO{}, apperrors.NewDatabase("create recipe", err)
	}

	s.log.Info("recipe created",
		zap.String("recipe_id", rec.ID.String()),
		zap.String("author_id", actor.ID.String()))

	return s.Get(ctx, actor, rec.ID)
}

// Update replaces the recipe's fields and its full tag and ingredient
// sets. Only the author or staff may update.
func (s *Service) Update(ctx context.Context, actor *user.Identity, id uuid.UUID, in Input) (DTO, error) {
	existing, err := s.findRecipe(ctx, id)
	if err != nil {
		return DTO{}, err
	}
	if err := access.RequireOwnerOrStaff(actor, existing.AuthorID); err != nil {
		return DTO{}, err
	}
	if err := s.validator.Validate(ctx, in); err != nil {
		return DTO{}, err
	}

	rec := buildRecipe(in)
	rec.ID = id
	rec.AuthorID = existing.AuthorID
	if err := s.recipes.Update(ctx, rec); err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return DTO{}, apperrors.NewNotFound("recipe")
		}
		return DTO{}, apperrors.NewDatabase("update recipe", err)
	}

	s.log.Info("recipe updated", zap.String("recipe_id", id.String()))

	return s.Get(ctx, actor, id)
}

// Delete removes the recipe. Favorites, cart entries, tag links and
// ingredient amounts go with it through the storage cascades.
func (s *Service) Delete(ctx context.Context, actor *user.Identity, id uuid.UUID) error {
	existing, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwnerOrStaff(actor, existing.AuthorID); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return apperrors.NewDatabase("delete recipe", err)
	}

	s.log.Info("recipe deleted", zap.String("recipe_id", id.String()))
	return nil
}

// Get returns one recipe with flags relative to the viewer.
func (s *Service) Get(ctx context.Context, viewer *user.Identity, id uuid.UUID) (DTO, error) {
	rec, err := s.findRecipe(ctx, id)
	if err != nil {
		return DTO{}, err
	}
	vc, err := s.viewerContext(ctx, viewer)
	if err != nil {
		return DTO{}, err
	}
	return toDTO(rec, vc), nil
}

// List returns a page of recipes, newest first. Viewer-relative filters
// are dropped for anonymous viewers rather than matching nothing.
func (s *Service) List(ctx context.Context, viewer *user.Identity, q ListQuery) (Page, error) {
	filter := outbound.RecipeFilter{
		Author:    q.Author,
		TagSlugs:  q.TagSlugs,
		Favorited: q.Favorited,
		InCart:    q.InCart,
		Offset:    q.Offset,
		Limit:     q.Limit,
	}
	if viewer != nil {
		filter.Viewer = &viewer.ID
	}

	recs, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return Page{}, apperrors.NewDatabase("list recipes", err)
	}

	vc, err := s.viewerContext(ctx, viewer)
	if err != nil {
		return Page{}, err
	}

	results := make([]DTO, 0, len(recs))
	for _, rec := range recs {
		results = append(results, toDTO(rec, vc))
	}
	return Page{Count: total, Results: results}, nil
}

// Favorite adds the recipe to the actor's favorites and returns its
// compact form.
func (s *Service) Favorite(ctx context.Context, actor *user.Identity, recipeID uuid.UUID) (ShortDTO, error) {
	return s.addRelation(ctx, actor, recipeID, s.favoriteToggle)
}

// Unfavorite removes the recipe from the actor's favorites.
func (s *Service) Unfavorite(ctx context.Context, actor *user.Identity, recipeID uuid.UUID) error {
	return s.removeRelation(ctx, actor, recipeID, s.favoriteToggle)
}

// AddToCart adds the recipe to the actor's shopping cart and returns
// its compact form.
func (s *Service) AddToCart(ctx context.Context, actor *user.Identity, recipeID uuid.UUID) (ShortDTO, error) {
	return s.addRelation(ctx, actor, recipeID, s.cartToggle)
}

// RemoveFromCart removes the recipe from the actor's shopping cart.
func (s *Service) RemoveFromCart(ctx context.Context, actor *user.Identity, recipeID uuid.UUID) error {
	return s.removeRelation(ctx, actor, recipeID, s.cartToggle)
}

// ShoppingList aggregates the actor's cart into the downloadable report
// and names the file after the account.
func (s *Service) ShoppingList(ctx context.Context, actor *user.Identity) (filename, content string, err error) {
	if err := access.RequireActive(actor); err != nil {
		return "", "", err
	}

	items, err := s.shopping.Aggregate(ctx, actor.ID)
	if err != nil {
		return "", "", apperrors.NewDatabase("aggregate shopping list", err)
	}
	if len(items) == 0 {
		return "", "", apperrors.NewValidation("shopping list is empty")
	}

	u, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return "", "", apperrors.NewDatabase("load user", err)
	}

	return fmt.Sprintf("%s_shopping_cart.txt", u.Username), RenderShoppingList(items), nil
}

func (s *Service) addRelation(ctx context.Context, actor *user.Identity, recipeID uuid.UUID, t *relation.Toggle) (ShortDTO, error) {
	if err := access.RequireActive(actor); err != nil {
		return ShortDTO{}, err
	}
	if err := t.Add(ctx, actor.ID, recipeID); err != nil {
		return ShortDTO{}, err
	}
	rec, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return ShortDTO{}, err
	}
	return toShortDTO(rec), nil
}

func (s *Service) removeRelation(ctx context.Context, actor *user.Identity, recipeID uuid.UUID, t *relation.Toggle) error {
	if err := access.RequireActive(actor); err != nil {
		return err
	}
	return t.Remove(ctx, actor.ID, recipeID)
}

func (s *Service) findRecipe(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	rec, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return nil, apperrors.NewNotFound("recipe")
		}
		return nil, apperrors.NewDatabase("find recipe", err)
	}
	return rec, nil
}

// viewerContext loads the viewer's favorite, cart and subscription id
// sets for one projection pass. Anonymous viewers get empty sets.
func (s *Service) viewerContext(ctx context.Context, viewer *user.Identity) (viewerContext, error) {
	if viewer == nil {
		return viewerContext{}, nil
	}

	fav, err := targetSet(ctx, s.favorites, viewer.ID)
	if err != nil {
		return viewerContext{}, apperrors.NewDatabase("load favorites", err)
	}
	cart, err := targetSet(ctx, s.carts, viewer.ID)
	if err != nil {
		return viewerContext{}, apperrors.NewDatabase("load shopping cart", err)
	}
	subs, err := targetSet(ctx, s.follows, viewer.ID)
	if err != nil {
		return viewerContext{}, apperrors.NewDatabase("load subscriptions", err)
	}
	return viewerContext{favorited: fav, inCart: cart, subscribed: subs}, nil
}

func targetSet(ctx context.Context, store outbound.PairStore, ownerID uuid.UUID) (map[uuid.UUID]bool, error) {
	ids, err := store.Targets(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func buildRecipe(in Input) *recipe.Recipe {
	tags := make([]recipe.Tag, 0, len(in.Tags))
	for _, id := range in.Tags {
		tags = append(tags, recipe.Tag{ID: id})
	}
	ingredients := make([]recipe.RecipeIngredient, 0, len(in.Ingredients))
	for _, entry := range in.Ingredients {
		ingredients = append(ingredients, recipe.RecipeIngredient{
			IngredientID: entry.ID,
			Amount:       entry.Amount,
		})
	}
	return &recipe.Recipe{
		Name:        in.Name,
		Image:       in.Image,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Tags:        tags,
		Ingredients: ingredients,
	}
}
