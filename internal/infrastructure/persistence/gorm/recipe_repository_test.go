package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain/recipe"
	gormrepo "github.com/foodgram/backend/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/backend/internal/ports/outbound"
	"github.com/foodgram/backend/test/testutils"
)

func buildRecipe(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string) *recipe.Recipe {
	t.Helper()

	tag := testutils.CreateTag(t, db)
	ingredient := testutils.CreateIngredient(t, db, "ing_"+uuid.NewString()[:8], "g")
	return &recipe.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Image:       "data:image/png;base64,aW1n",
		Text:        "Cook.",
		CookingTime: 15,
		Tags:        []recipe.Tag{*tag},
		Ingredients: []recipe.RecipeIngredient{{IngredientID: ingredient.ID, Amount: 50}},
	}
}

func TestRecipeCreateAndFind(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)
	author := testutils.CreateUser(t, db)
	ctx := context.Background()

	rec := buildRecipe(t, db, author.ID, "Bread")
	require.NoError(t, repo.Create(ctx, rec))

	found, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", found.Name)
	assert.Equal(t, author.Username, found.Author.Username)
	require.Len(t, found.Tags, 1)
	require.Len(t, found.Ingredients, 1)
	assert.Equal(t, 50, found.Ingredients[0].Amount)
	assert.NotEmpty(t, found.Ingredients[0].Ingredient.Name)
}

func TestRecipeFindMissing(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, outbound.ErrNotFound)
}

func TestRecipeUpdateReplacesSets(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)
	author := testutils.CreateUser(t, db)
	ctx := context.Background()

	rec := buildRecipe(t, db, author.ID, "Bread")
	require.NoError(t, repo.Create(ctx, rec))

	replacement := buildRecipe(t, db, author.ID, "Cake")
	replacement.ID = rec.ID
	require.NoError(t, repo.Update(ctx, replacement))

	found, err := repo.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cake", found.Name)
	require.Len(t, found.Tags, 1)
	assert.NotEqual(t, rec.Tags[0].ID, found.Tags[0].ID)
	require.Len(t, found.Ingredients, 1)
	assert.NotEqual(t, rec.Ingredients[0].IngredientID, found.Ingredients[0].IngredientID)

	// No orphaned join rows remain from the old sets.
	var joinRows int64
	require.NoError(t, db.Table("recipe_ingredients").Where("recipe_id = ?", rec.ID).Count(&joinRows).Error)
	assert.EqualValues(t, 1, joinRows)
}

func TestRecipeUpdateMissing(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)
	author := testutils.CreateUser(t, db)

	rec := buildRecipe(t, db, author.ID, "Ghost")
	rec.ID = uuid.New()
	err := repo.Update(context.Background(), rec)
	assert.ErrorIs(t, err, outbound.ErrNotFound)
}

func TestRecipeDeleteCascades(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)
	author := testutils.CreateUser(t, db)
	ctx := context.Background()

	rec := buildRecipe(t, db, author.ID, "Bread")
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, gormrepo.NewFavoriteStore(db).Add(ctx, author.ID, rec.ID))

	require.NoError(t, repo.Delete(ctx, rec.ID))

	var favorites, joins int64
	require.NoError(t, db.Table("favorites").Where("recipe_id = ?", rec.ID).Count(&favorites).Error)
	require.NoError(t, db.Table("recipe_ingredients").Where("recipe_id = ?", rec.ID).Count(&joins).Error)
	assert.Zero(t, favorites)
	assert.Zero(t, joins)

	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), outbound.ErrNotFound)
}

func TestRecipeListNewestFirst(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)
	author := testutils.CreateUser(t, db)
	ctx := context.Background()

	older := buildRecipe(t, db, author.ID, "Older")
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer := buildRecipe(t, db, author.ID, "Newer")
	require.NoError(t, repo.Create(ctx, newer))

	recs, total, err := repo.List(ctx, outbound.RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, recs, 2)
	assert.Equal(t, "Newer", recs[0].Name)
	assert.Equal(t, "Older", recs[1].Name)
}

func TestRecipeListFilters(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)
	alice := testutils.CreateUser(t, db)
	bob := testutils.CreateUser(t, db)
	ctx := context.Background()

	aliceRec := buildRecipe(t, db, alice.ID, "Alice bread")
	require.NoError(t, repo.Create(ctx, aliceRec))
	bobRec := buildRecipe(t, db, bob.ID, "Bob cake")
	require.NoError(t, repo.Create(ctx, bobRec))

	recs, total, err := repo.List(ctx, outbound.RecipeFilter{Author: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, aliceRec.ID, recs[0].ID)

	recs, total, err = repo.List(ctx, outbound.RecipeFilter{TagSlugs: []string{bobRec.Tags[0].Slug}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, bobRec.ID, recs[0].ID)

	// Viewer-relative filter without a viewer matches everything.
	truthy := true
	_, total, err = repo.List(ctx, outbound.RecipeFilter{Favorited: &truthy})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.NoError(t, gormrepo.NewShoppingCartStore(db).Add(ctx, alice.ID, bobRec.ID))
	recs, total, err = repo.List(ctx, outbound.RecipeFilter{InCart: &truthy, Viewer: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, bobRec.ID, recs[0].ID)
}

func TestRecipeListPagination(t *testing.T) {
	db := testutils.OpenTestDB(t)
	repo := gormrepo.NewRecipeRepository(db)
	author := testutils.CreateUser(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, buildRecipe(t, db, author.ID, uuid.NewString())))
	}

	recs, total, err := repo.List(ctx, outbound.RecipeFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, recs, 1)
}
