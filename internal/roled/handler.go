// Package roled resolves and assigns per-user access levels.
package roled

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegsv/finkurs/internal/domain"
	"github.com/olegsv/finkurs/internal/httpapi"
)

// Repo is the slice of the role repository the handlers need.
type Repo interface {
	Get(ctx context.Context, userID int64) (domain.Role, error)
	Set(ctx context.Context, userID int64, role domain.Role) error
}

// Handler serves the role endpoints.
type Handler struct {
	repo Repo
}

// NewHandler builds the service handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

// Routes mounts the service endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/check_role", h.check)
	r.Post("/set_role", h.set)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("user_id")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		httpapi.Error(w, http.StatusBadRequest, "user_id must be a positive integer")
		return
	}
	role, err := h.repo.Get(r.Context(), userID)
	if err != nil {
		httpapi.DomainError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"role": string(role)})
}

type setRolePayload struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	var payload setRolePayload
	if err := httpapi.Decode(r, &payload); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	if payload.UserID <= 0 {
		httpapi.Error(w, http.StatusBadRequest, "user_id must be a positive integer")
		return
	}
	role, ok := domain.ParseRole(payload.Role)
	if !ok {
		httpapi.Error(w, http.StatusBadRequest, "role must be admin or user")
		return
	}
	if err := h.repo.Set(r.Context(), payload.UserID, role); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{
		"role": string(role),
	})
}
