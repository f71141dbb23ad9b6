package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/infrastructure/config"
	gormrepo "github.com/foodgram/backend/internal/infrastructure/persistence/gorm"
	apperrors "github.com/foodgram/backend/pkg/errors"
	"github.com/foodgram/backend/test/testutils"
)

func limitsConfig() *config.Config {
	return &config.Config{
		Limits: config.LimitsConfig{MinIngredientAmount: 1, MinCookingTime: 1},
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	return appErr.Fields
}

func TestCompositionValidatorAccepts(t *testing.T) {
	db := testutils.OpenTestDB(t)
	tag := testutils.CreateTag(t, db)
	ingredient := testutils.CreateIngredient(t, db, "flour", "g")

	v := NewCompositionValidator(gormrepo.NewTagRepository(db), gormrepo.NewIngredientRepository(db), limitsConfig())

	err := v.Validate(context.Background(), Input{
		Name:        "Bread",
		Image:       "data:image/png;base64,aW1n",
		Text:        "Bake it.",
		CookingTime: 90,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []IngredientAmountInput{{ID: ingredient.ID, Amount: 500}},
	})
	require.NoError(t, err)
}

func TestCompositionValidatorCollectsAllErrors(t *testing.T) {
	db := testutils.OpenTestDB(t)
	v := NewCompositionValidator(gormrepo.NewTagRepository(db), gormrepo.NewIngredientRepository(db), limitsConfig())

	fields := validationFields(t, v.Validate(context.Background(), Input{}))

	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "image")
	assert.Contains(t, fields, "text")
	assert.Contains(t, fields, "tags")
	assert.Contains(t, fields, "ingredients")
	assert.Contains(t, fields, "cooking_time")
}

func TestCompositionValidatorRejectsDuplicatesAndUnknowns(t *testing.T) {
	db := testutils.OpenTestDB(t)
	tag := testutils.CreateTag(t, db)
	ingredient := testutils.CreateIngredient(t, db, "sugar", "g")

	v := NewCompositionValidator(gormrepo.NewTagRepository(db), gormrepo.NewIngredientRepository(db), limitsConfig())

	missing := uuid.New()
	fields := validationFields(t, v.Validate(context.Background(), Input{
		Name:        "Cake",
		Image:       "data:image/png;base64,aW1n",
		Text:        "Mix.",
		CookingTime: 30,
		Tags:        []uuid.UUID{tag.ID, tag.ID},
		Ingredients: []IngredientAmountInput{
			{ID: ingredient.ID, Amount: 10},
			{ID: ingredient.ID, Amount: 20},
			{ID: missing, Amount: 0},
		},
	}))

	assert.Len(t, fields["tags"], 1)
	// Duplicate, below-minimum amount and unknown id each get a message.
	assert.Len(t, fields["ingredients"], 3)
}
