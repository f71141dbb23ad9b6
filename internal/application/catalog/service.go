// Package catalog serves the recipe reference data: tags and
// ingredients. Reads are public; writes are restricted to staff.
package catalog

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodgram/backend/internal/application/access"
	"github.com/foodgram/backend/internal/application/validate"
	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/user"
	"github.com/foodgram/backend/internal/ports/outbound"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

// TagInput is a tag creation payload.
type TagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor"`
	Slug  string `json:"slug" validate:"required,max=200"`
}

// IngredientInput is an ingredient creation payload.
type IngredientInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// TagDTO is a tag as returned by the API.
type TagDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// IngredientDTO is an ingredient as returned by the API.
type IngredientDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// Service reads and maintains the reference data.
type Service struct {
	tags        outbound.TagRepository
	ingredients outbound.IngredientRepository
	validate    *validator.Validate
	log         *zap.Logger
}

// NewService creates the catalog service.
func NewService(tags outbound.TagRepository, ingredients outbound.IngredientRepository, log *zap.Logger) *Service {
	return &Service{
		tags:        tags,
		ingredients: ingredients,
		validate:    validate.New(),
		log:         log,
	}
}

// ListTags returns every tag. Tags are a small fixed set, so the
// listing is not paginated.
func (s *Service) ListTags(ctx context.Context) ([]TagDTO, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabase("list tags", err)
	}
	out := make([]TagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagDTO(t))
	}
	return out, nil
}

// GetTag returns one tag.
func (s *Service) GetTag(ctx context.Context, id uuid.UUID) (TagDTO, error) {
	t, err := s.tags.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return TagDTO{}, apperrors.NewNotFound("tag")
		}
		return TagDTO{}, apperrors.NewDatabase("find tag", err)
	}
	return toTagDTO(t), nil
}

// CreateTag adds a tag. Staff only.
func (s *Service) CreateTag(ctx context.Context, actor *user.Identity, in TagInput) (TagDTO, error) {
	if err := access.RequireStaff(actor); err != nil {
		return TagDTO{}, err
	}
	if err := s.validate.Struct(in); err != nil {
		return TagDTO{}, apperrors.NewFieldValidation(validate.Fields(err))
	}

	t := &recipe.Tag{Name: in.Name, Color: in.Color, Slug: in.Slug}
	if err := s.tags.Create(ctx, t); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return TagDTO{}, apperrors.NewAlreadyExists("tag with the same name, color or slug already exists")
		}
		return TagDTO{}, apperrors.NewDatabase("create tag", err)
	}

	s.log.Info("tag created", zap.String("tag_id", t.ID.String()), zap.String("slug", t.Slug))
	return toTagDTO(t), nil
}

// SearchIngredients returns ingredients whose name contains the query,
// case-insensitively. An empty query returns everything.
func (s *Service) SearchIngredients(ctx context.Context, name string) ([]IngredientDTO, error) {
	ingredients, err := s.ingredients.Search(ctx, name)
	if err != nil {
		return nil, apperrors.NewDatabase("search ingredients", err)
	}
	out := make([]IngredientDTO, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, toIngredientDTO(i))
	}
	return out, nil
}

// GetIngredient returns one ingredient.
func (s *Service) GetIngredient(ctx context.Context, id uuid.UUID) (IngredientDTO, error) {
	i, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return IngredientDTO{}, apperrors.NewNotFound("ingredient")
		}
		return IngredientDTO{}, apperrors.NewDatabase("find ingredient", err)
	}
	return toIngredientDTO(i), nil
}

// CreateIngredient adds an ingredient. Staff only.
func (s *Service) CreateIngredient(ctx context.Context, actor *user.Identity, in IngredientInput) (IngredientDTO, error) {
	if err := access.RequireStaff(actor); err != nil {
		return IngredientDTO{}, err
	}
	if err := s.validate.Struct(in); err != nil {
		return IngredientDTO{}, apperrors.NewFieldValidation(validate.Fields(err))
	}

	i := &recipe.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit}
	if err := s.ingredients.Create(ctx, i); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return IngredientDTO{}, apperrors.NewAlreadyExists("ingredient with the same name already exists")
		}
		return IngredientDTO{}, apperrors.NewDatabase("create ingredient", err)
	}

	s.log.Info("ingredient created", zap.String("ingredient_id", i.ID.String()))
	return toIngredientDTO(i), nil
}

func toTagDTO(t *recipe.Tag) TagDTO {
	return TagDTO{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func toIngredientDTO(i *recipe.Ingredient) IngredientDTO {
	return IngredientDTO{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}
