package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodgram/backend/internal/application/recipe"
	"github.com/foodgram/backend/internal/domain/user"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/infrastructure/http/middleware"
)

// RecipeHandlers serves the recipe endpoints, including favorites, the
// shopping cart and the shopping list download.
type RecipeHandlers struct {
	recipes    *recipe.Service
	pagination config.PaginationConfig
	logger     *zap.Logger
}

// NewRecipeHandlers creates the recipe handlers.
func NewRecipeHandlers(recipes *recipe.Service, cfg *config.Config, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{recipes: recipes, pagination: cfg.Pagination, logger: logger}
}

// List handles GET /api/recipes.
func (h *RecipeHandlers) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, h.pagination)
	q := recipe.ListQuery{
		TagSlugs:  r.URL.Query()["tags"],
		Favorited: boolParam(r, "is_favorited"),
		InCart:    boolParam(r, "is_in_shopping_cart"),
		Offset:    offset,
		Limit:     limit,
	}
	if raw := r.URL.Query().Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err == nil {
			q.Author = &id
		}
	}

	page, err := h.recipes.List(r.Context(), middleware.IdentityFrom(r.Context()), q)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/recipes/{id}.
func (h *RecipeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dto, err := h.recipes.Get(r.Context(), middleware.IdentityFrom(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Create handles POST /api/recipes.
func (h *RecipeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var in recipe.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	dto, err := h.recipes.Create(r.Context(), middleware.IdentityFrom(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// Update handles PATCH /api/recipes/{id}.
func (h *RecipeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in recipe.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	dto, err := h.recipes.Update(r.Context(), middleware.IdentityFrom(r.Context()), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Delete handles DELETE /api/recipes/{id}.
func (h *RecipeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.recipes.Delete(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Favorite handles POST /api/recipes/{id}/favorite.
func (h *RecipeHandlers) Favorite(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, h.recipes.Favorite)
}

// Unfavorite handles DELETE /api/recipes/{id}/favorite.
func (h *RecipeHandlers) Unfavorite(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, h.recipes.Unfavorite)
}

// AddToCart handles POST /api/recipes/{id}/shopping_cart.
func (h *RecipeHandlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.addRelation(w, r, h.recipes.AddToCart)
}

// RemoveFromCart handles DELETE /api/recipes/{id}/shopping_cart.
func (h *RecipeHandlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.removeRelation(w, r, h.recipes.RemoveFromCart)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart,
// serving the aggregated list as a plain-text attachment.
func (h *RecipeHandlers) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	filename, content, err := h.recipes.ShoppingList(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

func (h *RecipeHandlers) addRelation(w http.ResponseWriter, r *http.Request, add func(context.Context, *user.Identity, uuid.UUID) (recipe.ShortDTO, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dto, err := add(r.Context(), middleware.IdentityFrom(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

func (h *RecipeHandlers) removeRelation(w http.ResponseWriter, r *http.Request, remove func(context.Context, *user.Identity, uuid.UUID) error) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := remove(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
