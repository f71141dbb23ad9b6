package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/application/validate"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/ports/outbound"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

// IngredientAmountInput is one (ingredient, amount) entry of a submission.
type IngredientAmountInput struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// Input is a recipe create/update payload. Tag and ingredient sets always
// replace the previous ones in full.
type Input struct {
	Name        string                  `json:"name" validate:"required,max=200"`
	Image       string                  `json:"image" validate:"required"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time"`
	Tags        []uuid.UUID             `json:"tags"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
}

// CompositionValidator checks a recipe submission before the multi-table
// write. All field violations are collected; the caller gets every error
// in one response rather than the first.
type CompositionValidator struct {
	validate       *validator.Validate
	tags           outbound.TagRepository
	ingredients    outbound.IngredientRepository
	minAmount      int
	minCookingTime int
}

// NewCompositionValidator creates a validator with the configured minimums.
func NewCompositionValidator(
	tags outbound.TagRepository,
	ingredients outbound.IngredientRepository,
	cfg *config.Config,
) *CompositionValidator {
	return &CompositionValidator{
		validate:       validate.New(),
		tags:           tags,
		ingredients:    ingredients,
		minAmount:      cfg.Limits.MinIngredientAmount,
		minCookingTime: cfg.Limits.MinCookingTime,
	}
}

// Validate collects every field error in the submission.
func (v *CompositionValidator) Validate(ctx context.Context, in Input) error {
	fields := map[string][]string{}

	if err := v.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = append(fields[fe.Field()], validate.Message(fe))
			}
		}
	}

	v.checkIngredients(ctx, in.Ingredients, fields)
	v.checkTags(ctx, in.Tags, fields)

	if in.CookingTime < v.minCookingTime {
		fields["cooking_time"] = append(fields["cooking_time"],
			fmt.Sprintf("cooking time must be at least %d", v.minCookingTime))
	}

	if len(fields) > 0 {
		return apperrors.NewFieldValidation(fields)
	}
	return nil
}

func (v *CompositionValidator) checkIngredients(ctx context.Context, entries []IngredientAmountInput, fields map[string][]string) {
	if len(entries) == 0 {
		fields["ingredients"] = append(fields["ingredients"], "at least one ingredient is required")
		return
	}

	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.ID] {
			fields["ingredients"] = append(fields["ingredients"],
				fmt.Sprintf("ingredient %s is listed more than once", entry.ID))
		}
		seen[entry.ID] = true
		ids = append(ids, entry.ID)

		if entry.Amount < v.minAmount {
			fields["ingredients"] = append(fields["ingredients"],
				fmt.Sprintf("amount for ingredient %s must be at least %d", entry.ID, v.minAmount))
		}
	}

	existing, err := v.ingredients.ExistingIDs(ctx, ids)
	if err != nil {
		fields["ingredients"] = append(fields["ingredients"], "could not verify ingredients")
		return
	}
	for _, id := range ids {
		if !existing[id] {
			fields["ingredients"] = append(fields["ingredients"],
				fmt.Sprintf("ingredient %s does not exist", id))
		}
	}
}

func (v *CompositionValidator) checkTags(ctx context.Context, ids []uuid.UUID, fields map[string][]string) {
	if len(ids) == 0 {
		fields["tags"] = append(fields["tags"], "at least one tag is required")
		return
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			fields["tags"] = append(fields["tags"],
				fmt.Sprintf("tag %s is listed more than once", id))
		}
		seen[id] = true
	}

	existing, err := v.tags.ExistingIDs(ctx, ids)
	if err != nil {
		fields["tags"] = append(fields["tags"], "could not verify tags")
		return
	}
	for _, id := range ids {
		if !existing[id] {
			fields["tags"] = append(fields["tags"], fmt.Sprintf("tag %s does not exist", id))
		}
	}
}
