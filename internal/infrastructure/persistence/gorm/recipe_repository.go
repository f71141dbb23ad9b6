package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/ports/outbound"
)

// RecipeRepository implements the recipe repository interface using GORM.
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create persists the recipe row, its tag links and its ingredient amounts
// in a single transaction.
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	tags := rec.Tags
	ingredients := rec.Ingredients

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec.Tags = nil
		rec.Ingredients = nil
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		if err := tx.Model(rec).Association("Tags").Replace(tags); err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].RecipeID = rec.ID
		}
		if len(ingredients) > 0 {
			if err := tx.Omit("Ingredient").Create(&ingredients).Error; err != nil {
				return err
			}
		}
		rec.Tags = tags
		rec.Ingredients = ingredients
		return nil
	})
}

// Update saves the recipe fields and replaces the full tag and ingredient
// sets. The old sets are cleared inside the same transaction, so a failure
// partway leaves the previous state intact.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	tags := rec.Tags
	ingredients := rec.Ingredients

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&recipe.Recipe{ID: rec.ID}).
			Select("Name", "Image", "Text", "CookingTime").
			Updates(rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return outbound.ErrNotFound
		}
		if err := tx.Model(&recipe.Recipe{ID: rec.ID}).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", rec.ID).Delete(&recipe.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].RecipeID = rec.ID
		}
		if len(ingredients) > 0 {
			if err := tx.Omit("Ingredient").Create(&ingredients).Error; err != nil {
				return err
			}
		}
		rec.Tags = tags
		rec.Ingredients = ingredients
		return nil
	})
}

// Delete removes a recipe; join rows follow through FK cascades.
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&recipe.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// FindByID loads a recipe with author, tags and ingredient amounts.
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var rec recipe.Recipe

	result := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	return &rec, nil
}

// Exists reports whether a recipe row exists.
func (r *RecipeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&recipe.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns recipes matching the filter, newest first, plus the total
// match count before pagination.
func (r *RecipeRepository) List(ctx context.Context, filter outbound.RecipeFilter) ([]*recipe.Recipe, int, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&recipe.Recipe{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []*recipe.Recipe
	query := r.applyFilter(r.db.WithContext(ctx).Model(&recipe.Recipe{}), filter).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&recs).Error; err != nil {
		return nil, 0, err
	}

	return recs, int(total), nil
}

// ListByAuthor returns an author's recipes, newest first, capped by limit
// when positive.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*recipe.Recipe, error) {
	var recs []*recipe.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// CountByAuthor counts an author's recipes.
func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&recipe.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return int(count), err
}

func (r *RecipeRepository) applyFilter(query *gorm.DB, filter outbound.RecipeFilter) *gorm.DB {
	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}

	// Viewer-relative filters are a no-op for anonymous callers.
	if filter.Viewer == nil {
		return query
	}
	if filter.Favorited != nil {
		favorited := r.db.Table("favorites").
			Select("recipe_id").
			Where("user_id = ?", *filter.Viewer)
		if *filter.Favorited {
			query = query.Where("recipes.id IN (?)", favorited)
		} else {
			query = query.Where("recipes.id NOT IN (?)", favorited)
		}
	}
	if filter.InCart != nil {
		inCart := r.db.Table("shopping_carts").
			Select("recipe_id").
			Where("user_id = ?", *filter.Viewer)
		if *filter.InCart {
			query = query.Where("recipes.id IN (?)", inCart)
		} else {
			query = query.Where("recipes.id NOT IN (?)", inCart)
		}
	}
	return query
}
