package recipe

import (
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/domain/user"
)

// TagDTO is a tag as returned by the API.
type TagDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// AuthorDTO is the recipe author with the viewer-relative subscription
// flag.
type AuthorDTO struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// IngredientAmountDTO is one ingredient line of a recipe, reference data
// joined with the amount.
type IngredientAmountDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// DTO is the full recipe representation. IsFavorited and
// IsInShoppingCart are relative to the viewer and always false for
// anonymous requests.
type DTO struct {
	ID               uuid.UUID             `json:"id"`
	Tags             []TagDTO              `json:"tags"`
	Author           AuthorDTO             `json:"author"`
	Ingredients      []IngredientAmountDTO `json:"ingredients"`
	IsFavorited      bool                  `json:"is_favorited"`
	IsInShoppingCart bool                  `json:"is_in_shopping_cart"`
	Name             string                `json:"name"`
	Image            string                `json:"image"`
	Text             string                `json:"text"`
	CookingTime      int                   `json:"cooking_time"`
}

// ShortDTO is the compact recipe form returned by favorite and
// shopping-cart adds.
type ShortDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// viewerContext carries the viewer-relative id sets one projection pass
// needs. The zero value projects every flag as false.
type viewerContext struct {
	favorited  map[uuid.UUID]bool
	inCart     map[uuid.UUID]bool
	subscribed map[uuid.UUID]bool
}

func toTagDTOs(tags []recipe.Tag) []TagDTO {
	out := make([]TagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagDTO{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}
	return out
}

func toIngredientDTOs(entries []recipe.RecipeIngredient) []IngredientAmountDTO {
	out := make([]IngredientAmountDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, IngredientAmountDTO{
			ID:              e.IngredientID,
			Name:            e.Ingredient.Name,
			MeasurementUnit: e.Ingredient.MeasurementUnit,
			Amount:          e.Amount,
		})
	}
	return out
}

func toAuthorDTO(u user.User, subscribed bool) AuthorDTO {
	return AuthorDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func toDTO(r *recipe.Recipe, vc viewerContext) DTO {
	return DTO{
		ID:               r.ID,
		Tags:             toTagDTOs(r.Tags),
		Author:           toAuthorDTO(r.Author, vc.subscribed[r.AuthorID]),
		Ingredients:      toIngredientDTOs(r.Ingredients),
		IsFavorited:      vc.favorited[r.ID],
		IsInShoppingCart: vc.inCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func toShortDTO(r *recipe.Recipe) ShortDTO {
	return ShortDTO{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}
