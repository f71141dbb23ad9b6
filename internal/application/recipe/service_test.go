package recipe

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	gormrepo "github.com/foodgram/backend/internal/infrastructure/persistence/gorm"
	apperrors "github.com/foodgram/backend/pkg/errors"
	"github.com/foodgram/backend/test/testutils"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutils.OpenTestDB(t)
	validator := NewCompositionValidator(
		gormrepo.NewTagRepository(db),
		gormrepo.NewIngredientRepository(db),
		limitsConfig(),
	)
	svc := NewService(
		gormrepo.NewRecipeRepository(db),
		gormrepo.NewUserRepository(db),
		gormrepo.NewFollowStore(db),
		gormrepo.NewFavoriteStore(db),
		gormrepo.NewShoppingCartStore(db),
		gormrepo.NewShoppingListRepository(db),
		validator,
		zap.NewNop(),
	)
	return svc, db
}

func validInput(t *testing.T, db *gorm.DB, name string, ingredients ...IngredientAmountInput) Input {
	t.Helper()

	tag := testutils.CreateTag(t, db)
	return Input{
		Name:        name,
		Image:       "data:image/png;base64,aW1n",
		Text:        "Cook it well.",
		CookingTime: 25,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: ingredients,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	flour := testutils.CreateIngredient(t, db, "flour", "g")

	dto, err := svc.Create(context.Background(), testutils.Identity(author),
		validInput(t, db, "Bread", IngredientAmountInput{ID: flour.ID, Amount: 500}))
	require.NoError(t, err)

	assert.Equal(t, "Bread", dto.Name)
	assert.Equal(t, author.Username, dto.Author.Username)
	require.Len(t, dto.Ingredients, 1)
	assert.Equal(t, "flour", dto.Ingredients[0].Name)
	assert.Equal(t, "g", dto.Ingredients[0].MeasurementUnit)
	assert.Equal(t, 500, dto.Ingredients[0].Amount)
	require.Len(t, dto.Tags, 1)
	assert.False(t, dto.IsFavorited)
	assert.False(t, dto.IsInShoppingCart)
}

func TestCreateRequiresActiveAccount(t *testing.T) {
	svc, db := newTestService(t)
	flour := testutils.CreateIngredient(t, db, "flour", "g")
	in := validInput(t, db, "Bread", IngredientAmountInput{ID: flour.ID, Amount: 500})

	_, err := svc.Create(context.Background(), nil, in)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.GetCode(err))

	banned := testutils.CreateUser(t, db)
	identity := testutils.Identity(banned)
	identity.IsActive = false
	_, err = svc.Create(context.Background(), identity, in)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.GetCode(err))
}

func TestViewerRelativeFlags(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	viewer := testutils.CreateUser(t, db)
	flour := testutils.CreateIngredient(t, db, "flour", "g")

	dto, err := svc.Create(context.Background(), testutils.Identity(author),
		validInput(t, db, "Bread", IngredientAmountInput{ID: flour.ID, Amount: 500}))
	require.NoError(t, err)

	_, err = svc.Favorite(context.Background(), testutils.Identity(viewer), dto.ID)
	require.NoError(t, err)

	seen, err := svc.Get(context.Background(), testutils.Identity(viewer), dto.ID)
	require.NoError(t, err)
	assert.True(t, seen.IsFavorited)
	assert.False(t, seen.IsInShoppingCart)

	// Anonymous viewers always get false flags.
	anon, err := svc.Get(context.Background(), nil, dto.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	other := testutils.CreateUser(t, db)
	flour := testutils.CreateIngredient(t, db, "flour", "g")

	in := validInput(t, db, "Bread", IngredientAmountInput{ID: flour.ID, Amount: 500})
	dto, err := svc.Create(context.Background(), testutils.Identity(author), in)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), testutils.Identity(other), dto.ID, in)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.GetCode(err))

	err = svc.Delete(context.Background(), testutils.Identity(other), dto.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.GetCode(err))
}

func TestStaffMayEditAnyRecipe(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	staff := testutils.CreateStaff(t, db)
	flour := testutils.CreateIngredient(t, db, "flour", "g")

	dto, err := svc.Create(context.Background(), testutils.Identity(author),
		validInput(t, db, "Bread", IngredientAmountInput{ID: flour.ID, Amount: 500}))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), testutils.Identity(staff), dto.ID,
		validInput(t, db, "Better bread", IngredientAmountInput{ID: flour.ID, Amount: 600}))
	require.NoError(t, err)
	assert.Equal(t, "Better bread", updated.Name)
	// Ownership does not transfer on a staff edit.
	assert.Equal(t, author.ID, updated.Author.ID)
}

func TestUpdateReplacesTagAndIngredientSets(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	flour := testutils.CreateIngredient(t, db, "flour", "g")
	sugar := testutils.CreateIngredient(t, db, "sugar", "g")

	dto, err := svc.Create(context.Background(), testutils.Identity(author),
		validInput(t, db, "Bread", IngredientAmountInput{ID: flour.ID, Amount: 500}))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), testutils.Identity(author), dto.ID,
		validInput(t, db, "Cake", IngredientAmountInput{ID: sugar.ID, Amount: 150}))
	require.NoError(t, err)

	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "sugar", updated.Ingredients[0].Name)
	require.Len(t, updated.Tags, 1)
	assert.NotEqual(t, dto.Tags[0].ID, updated.Tags[0].ID)
}

func TestFavoriteTwiceFails(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	rec := testutils.CreateRecipe(t, db, author)
	viewer := testutils.Identity(testutils.CreateUser(t, db))

	short, err := svc.Favorite(context.Background(), viewer, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, short.Name)

	_, err = svc.Favorite(context.Background(), viewer, rec.ID)
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.GetCode(err))
}

func TestUnfavoriteAbsentFails(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	rec := testutils.CreateRecipe(t, db, author)
	viewer := testutils.Identity(testutils.CreateUser(t, db))

	err := svc.Unfavorite(context.Background(), viewer, rec.ID)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func TestListFavoritedFilter(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	liked := testutils.CreateRecipe(t, db, author)
	other := testutils.CreateRecipe(t, db, author)
	viewer := testutils.Identity(testutils.CreateUser(t, db))

	_, err := svc.Favorite(context.Background(), viewer, liked.ID)
	require.NoError(t, err)

	truthy, falsy := true, false

	page, err := svc.List(context.Background(), viewer, ListQuery{Favorited: &truthy})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, liked.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsFavorited)

	// A false filter excludes favorited recipes instead of being ignored.
	page, err = svc.List(context.Background(), viewer, ListQuery{Favorited: &falsy})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, other.ID, page.Results[0].ID)

	// Anonymous viewers get the unfiltered listing.
	page, err = svc.List(context.Background(), nil, ListQuery{Favorited: &truthy})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
}

func TestShoppingListAggregates(t *testing.T) {
	svc, db := newTestService(t)
	author := testutils.CreateUser(t, db)
	buyer := testutils.CreateUser(t, db)
	flour := testutils.CreateIngredient(t, db, "flour", "g")
	sugar := testutils.CreateIngredient(t, db, "sugar", "g")

	bread, err := svc.Create(context.Background(), testutils.Identity(author),
		validInput(t, db, "Bread", IngredientAmountInput{ID: flour.ID, Amount: 500}))
	require.NoError(t, err)
	cake, err := svc.Create(context.Background(), testutils.Identity(author),
		validInput(t, db, "Cake",
			IngredientAmountInput{ID: flour.ID, Amount: 200},
			IngredientAmountInput{ID: sugar.ID, Amount: 150}))
	require.NoError(t, err)

	identity := testutils.Identity(buyer)
	_, err = svc.AddToCart(context.Background(), identity, bread.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(context.Background(), identity, cake.ID)
	require.NoError(t, err)

	filename, content, err := svc.ShoppingList(context.Background(), identity)
	require.NoError(t, err)

	assert.Equal(t, buyer.Username+"_shopping_cart.txt", filename)
	assert.Equal(t,
		"SHOPPING LIST:\n\n"+
			"• flour (g) -- 700\n"+
			"• sugar (g) -- 150\n\n"+
			"FOODGRAM",
		content)
}

func TestShoppingListEmptyCart(t *testing.T) {
	svc, db := newTestService(t)
	buyer := testutils.Identity(testutils.CreateUser(t, db))

	_, _, err := svc.ShoppingList(context.Background(), buyer)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func TestGetMissingRecipe(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), nil, uuid.New())
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}
