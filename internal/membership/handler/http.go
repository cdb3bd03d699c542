// Package handler exposes org member management endpoints over HTTP.
// All three operations are gated on the caller holding ADMIN in the org;
// SUB_ADMIN may invite through the invitation service but never mutate
// membership directly.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crowdguard/backend/internal/membership/domain"
	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/platform/rbac"
	"crowdguard/backend/internal/server/middleware"
	userdomain "crowdguard/backend/internal/user/domain"
)

// MembershipRepository is the persistence surface the handler needs.
type MembershipRepository interface {
	rbac.OrgMembershipGetter
	CreateMembership(ctx context.Context, m *domain.Membership) error
	UpdateRole(ctx context.Context, membershipID string, role domain.Role) error
	DeleteByUserAndOrg(ctx context.Context, orgID, userID string) error
}

// UserGetter resolves users by email for direct member addition.
type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

type Handler struct {
	memberships MembershipRepository
	users       UserGetter
	now         func() time.Time
}

func New(memberships MembershipRepository, users UserGetter) *Handler {
	return &Handler{memberships: memberships, users: users, now: time.Now}
}

type membershipView struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	UserID         string `json:"userId"`
	Role           string `json:"role"`
	JoinedAt       string `json:"joinedAt"`
}

// AddMember handles POST /api/orgs/{orgId}/members.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Email == "" {
		httpx.Error(w, http.StatusBadRequest, "Email is required")
		return
	}

	if _, err := rbac.RequireOrgAdmin(r.Context(), h.memberships, userID, orgID); err != nil {
		writeAdminGateError(w, err)
		return
	}

	target, err := h.users.GetByEmail(r.Context(), body.Email)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not add member")
		return
	}
	if target == nil {
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	}

	existing, err := h.memberships.GetMembershipByUserAndOrg(r.Context(), target.ID, orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not add member")
		return
	}
	if existing != nil {
		httpx.Error(w, http.StatusConflict, "User is already a member")
		return
	}

	// Unknown roles are coerced, not rejected. Role updates are stricter.
	role, ok := domain.ParseRole(body.Role)
	if !ok {
		role = domain.RoleMember
	}

	m := &domain.Membership{
		ID:       uuid.NewString(),
		OrgID:    orgID,
		UserID:   target.ID,
		Role:     role,
		JoinedAt: h.now().UTC(),
	}
	if err := h.memberships.CreateMembership(r.Context(), m); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not add member")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"membership": membershipView{
		ID:             m.ID,
		OrganizationID: m.OrgID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		JoinedAt:       m.JoinedAt.Format(time.RFC3339),
	}})
}

// UpdateRole handles PUT /api/orgs/{orgId}/members/{userId}.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	targetUserID := chi.URLParam(r, "userId")
	userID, _ := middleware.GetUserID(r.Context())

	var body struct {
		Role string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}

	if _, err := rbac.RequireOrgAdmin(r.Context(), h.memberships, userID, orgID); err != nil {
		writeAdminGateError(w, err)
		return
	}

	role, ok := domain.ParseRole(body.Role)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "Invalid role")
		return
	}

	m, err := h.memberships.GetMembershipByUserAndOrg(r.Context(), targetUserID, orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not update role")
		return
	}
	if m == nil {
		httpx.Error(w, http.StatusNotFound, "Membership not found")
		return
	}

	if err := h.memberships.UpdateRole(r.Context(), m.ID, role); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not update role")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Role updated"})
}

// RemoveMember handles DELETE /api/orgs/{orgId}/members/{userId}. The delete is
// idempotent; removing an absent membership still returns 204. Admins can never
// remove themselves, even as the last member.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	targetUserID := chi.URLParam(r, "userId")
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := rbac.RequireOrgAdmin(r.Context(), h.memberships, userID, orgID); err != nil {
		writeAdminGateError(w, err)
		return
	}

	if userID == targetUserID {
		httpx.Error(w, http.StatusBadRequest, "Admin cannot remove themselves")
		return
	}

	if err := h.memberships.DeleteByUserAndOrg(r.Context(), orgID, targetUserID); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeAdminGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rbac.ErrNotMember), errors.Is(err, rbac.ErrForbidden):
		httpx.Error(w, http.StatusForbidden, "Access denied: Requires ADMIN role")
	default:
		httpx.Error(w, http.StatusInternalServerError, "Could not resolve membership")
	}
}
