package testutils

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/user"
)

// CreateUser inserts an active account with unique credentials.
func CreateUser(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	u := &user.User{
		Username:  "user_" + suffix,
		Email:     fmt.Sprintf("user_%s@example.com", suffix),
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateStaff inserts an active staff account.
func CreateStaff(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()

	u := CreateUser(t, db)
	u.IsStaff = true
	require.NoError(t, db.Model(u).Update("is_staff", true).Error)
	return u
}

// Identity converts an account row into the authenticated-caller form.
func Identity(u *user.User) *user.Identity {
	return &user.Identity{ID: u.ID, IsActive: u.IsActive, IsStaff: u.IsStaff}
}

// CreateTag inserts a tag with unique name, color and slug.
func CreateTag(t *testing.T, db *gorm.DB) *recipe.Tag {
	t.Helper()

	suffix := uuid.NewString()[:6]
	tag := &recipe.Tag{
		Name:  "tag_" + suffix,
		Color: "#" + suffix,
		Slug:  "tag-" + suffix,
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// CreateIngredient inserts an ingredient with a unique name.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *recipe.Ingredient {
	t.Helper()

	ingredient := &recipe.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateRecipe inserts a recipe with one tag and one ingredient amount.
func CreateRecipe(t *testing.T, db *gorm.DB, author *user.User) *recipe.Recipe {
	t.Helper()

	suffix := uuid.NewString()[:8]
	tag := CreateTag(t, db)
	ingredient := CreateIngredient(t, db, "ingredient_"+suffix, "g")

	rec := &recipe.Recipe{
		AuthorID:    author.ID,
		Name:        "recipe_" + suffix,
		Image:       "data:image/png;base64,aW1n",
		Text:        "Cook it.",
		CookingTime: 10,
	}
	require.NoError(t, db.Create(rec).Error)
	require.NoError(t, db.Model(rec).Association("Tags").Replace([]recipe.Tag{*tag}))
	require.NoError(t, db.Omit("Ingredient").Create(&recipe.RecipeIngredient{
		RecipeID:     rec.ID,
		IngredientID: ingredient.ID,
		Amount:       100,
	}).Error)
	return rec
}
