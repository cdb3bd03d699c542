// Package handler exposes user profile endpoints over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/server/middleware"
	"crowdguard/backend/internal/user/domain"
)

// UserRepository is the persistence surface the handler needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateName(ctx context.Context, id string, name *string) (*domain.User, error)
}

type Handler struct {
	users UserRepository
}

func New(users UserRepository) *Handler {
	return &Handler{users: users}
}

type userView struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt *string `json:"createdAt,omitempty"`
}

func viewOf(u *domain.User) userView {
	created := u.CreatedAt.UTC().Format(time.RFC3339)
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: &created}
}

// ListAll handles GET /api/users/all.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch users")
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewOf(u))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"users": views})
}

// GetMe handles GET /api/users/me.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch profile")
		return
	}
	if u == nil {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": viewOf(u)})
}

// UpdateMe handles PUT /api/users/me. The "name" key must be present in the
// body; an explicit null clears the stored name.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var body map[string]json.RawMessage
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	raw, present := body["name"]
	if !present {
		httpx.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	var name *string
	if err := json.Unmarshal(raw, &name); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	if name != nil && *name == "" {
		name = nil
	}
	u, err := h.users.UpdateName(r.Context(), userID, name)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not update profile")
		return
	}
	if u == nil {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": userView{ID: u.ID, Email: u.Email, Name: u.Name},
	})
}
