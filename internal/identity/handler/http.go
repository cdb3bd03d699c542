// Package handler exposes signup and login over HTTP. These are the only
// unauthenticated API endpoints besides the health check.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	identityservice "crowdguard/backend/internal/identity/service"
	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/user/domain"
)

// AuthService is the behavior surface the handler needs.
type AuthService interface {
	Register(ctx context.Context, email, password string, name *string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type Handler struct {
	auth AuthService
}

func New(auth AuthService) *Handler {
	return &Handler{auth: auth}
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Name     *string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Email == "" || body.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, err := h.auth.Register(r.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		if errors.Is(err, identityservice.ErrEmailTaken) {
			httpx.Error(w, http.StatusConflict, "Email already in use")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Could not create user")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Email == "" || body.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, u, err := h.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, identityservice.ErrInvalidCredentials) {
			httpx.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":        u.ID,
			"email":     u.Email,
			"name":      u.Name,
			"createdAt": u.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}
