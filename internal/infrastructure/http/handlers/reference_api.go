package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/foodgram/backend/internal/application/catalog"
	"github.com/foodgram/backend/internal/infrastructure/http/middleware"
)

// CatalogHandlers serves the tag and ingredient reference endpoints.
type CatalogHandlers struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewCatalogHandlers creates the catalog handlers.
func NewCatalogHandlers(c *catalog.Service, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{catalog: c, logger: logger}
}

// ListTags handles GET /api/tags.
func (h *CatalogHandlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.ListTags(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// GetTag handles GET /api/tags/{id}.
func (h *CatalogHandlers) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	tag, err := h.catalog.GetTag(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// CreateTag handles POST /api/tags.
func (h *CatalogHandlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in catalog.TagInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	tag, err := h.catalog.CreateTag(r.Context(), middleware.IdentityFrom(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// ListIngredients handles GET /api/ingredients with optional ?name=
// substring search.
func (h *CatalogHandlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.catalog.SearchIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// GetIngredient handles GET /api/ingredients/{id}.
func (h *CatalogHandlers) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	ingredient, err := h.catalog.GetIngredient(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

// CreateIngredient handles POST /api/ingredients.
func (h *CatalogHandlers) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var in catalog.IngredientInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	ingredient, err := h.catalog.CreateIngredient(r.Context(), middleware.IdentityFrom(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, ingredient)
}
