package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/foodgram/backend/internal/application/user"
	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/foodgram/backend/internal/infrastructure/http/middleware"
)

// UserHandlers serves the user directory and subscription endpoints.
type UserHandlers struct {
	users      *user.Service
	pagination config.PaginationConfig
	logger     *zap.Logger
}

// NewUserHandlers creates the user handlers.
func NewUserHandlers(users *user.Service, cfg *config.Config, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{users: users, pagination: cfg.Pagination, logger: logger}
}

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, h.pagination)
	page, err := h.users.List(r.Context(), middleware.IdentityFrom(r.Context()), offset, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	dto, err := h.users.Get(r.Context(), middleware.IdentityFrom(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Me handles GET /api/users/me.
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	dto, err := h.users.Me(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// Subscriptions handles GET /api/users/subscriptions.
func (h *UserHandlers) Subscriptions(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, h.pagination)
	recipesLimit := intParam(r, "recipes_limit", 0)

	page, err := h.users.Subscriptions(r.Context(), middleware.IdentityFrom(r.Context()), offset, limit, recipesLimit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Subscribe handles POST /api/users/{id}/subscribe.
func (h *UserHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	recipesLimit := intParam(r, "recipes_limit", 0)

	dto, err := h.users.Subscribe(r.Context(), middleware.IdentityFrom(r.Context()), id, recipesLimit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// Unsubscribe handles DELETE /api/users/{id}/subscribe.
func (h *UserHandlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.users.Unsubscribe(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
