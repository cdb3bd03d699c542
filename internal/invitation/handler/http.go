// Package handler exposes the org invitation endpoint over HTTP.
//
// The invite flow is a compensating sequence, not a transaction: the PENDING
// invitation row is inserted first, the email is dispatched synchronously, and
// a dispatch failure deletes the row again so no orphaned invitation survives.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crowdguard/backend/internal/invitation/domain"
	"crowdguard/backend/internal/mailer"
	memdomain "crowdguard/backend/internal/membership/domain"
	orgdomain "crowdguard/backend/internal/organization/domain"
	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/platform/rbac"
	"crowdguard/backend/internal/server/middleware"
	userdomain "crowdguard/backend/internal/user/domain"
)

// OrgGetter resolves the target org.
type OrgGetter interface {
	GetOrganizationByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// MemberLister resolves the inviter's role and the existing members' emails.
type MemberLister interface {
	rbac.OrgMembershipGetter
	ListMembersByOrg(ctx context.Context, orgID string) ([]*memdomain.Member, error)
}

// UserGetter resolves the inviter for the email's display name.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// InvitationRepository persists and compensates invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	orgs        OrgGetter
	memberships MemberLister
	users       UserGetter
	invitations InvitationRepository
	dispatcher  mailer.Dispatcher
	now         func() time.Time
}

func New(orgs OrgGetter, memberships MemberLister, users UserGetter, invitations InvitationRepository, dispatcher mailer.Dispatcher) *Handler {
	return &Handler{
		orgs:        orgs,
		memberships: memberships,
		users:       users,
		invitations: invitations,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

type invitationView struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	InviterID      string `json:"inviterId"`
	Status         string `json:"status"`
	ExpiresAt      string `json:"expiresAt"`
	CreatedAt      string `json:"createdAt"`
}

// Invite handles POST /api/orgs/{orgId}/invite.
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Email == "" || body.Role == "" {
		httpx.Error(w, http.StatusBadRequest, "Email and role are required")
		return
	}

	org, err := h.orgs.GetOrganizationByID(r.Context(), orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}
	if org == nil {
		httpx.Error(w, http.StatusNotFound, "Organization not found")
		return
	}

	if _, err := rbac.RequireOrgInviter(r.Context(), h.memberships, userID, orgID); err != nil {
		if errors.Is(err, rbac.ErrNotMember) || errors.Is(err, rbac.ErrForbidden) {
			httpx.Error(w, http.StatusForbidden, "You do not have permission to invite members")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	members, err := h.memberships.ListMembersByOrg(r.Context(), orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}
	for _, m := range members {
		if m.User != nil && strings.ToLower(m.User.Email) == email {
			httpx.Error(w, http.StatusConflict, "User is already a member of this organization")
			return
		}
	}

	now := h.now().UTC()
	inv := &domain.Invitation{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Email:     email,
		Role:      body.Role,
		InviterID: userID,
		Status:    domain.StatusPending,
		ExpiresAt: now.Add(domain.TTL),
		CreatedAt: now,
	}
	if err := h.invitations.Create(r.Context(), inv); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}

	inviterName := ""
	if inviter, err := h.users.GetByID(r.Context(), userID); err == nil && inviter != nil {
		inviterName = inviter.DisplayName()
		if inviterName == "" {
			inviterName = inviter.Email
		}
	}

	if err := h.dispatcher.SendInvitation(r.Context(), mailer.InvitationEmail{
		To:               inv.Email,
		OrganizationName: org.Name,
		InviterName:      inviterName,
		InvitationID:     inv.ID,
		Role:             inv.Role,
	}); err != nil {
		log.Printf("warn: invitation email to %s failed, rolling back invitation %s: %v", inv.Email, inv.ID, err)
		if delErr := h.invitations.Delete(r.Context(), inv.ID); delErr != nil {
			log.Printf("warn: delete invitation %s after failed email: %v", inv.ID, delErr)
		}
		httpx.Error(w, http.StatusInternalServerError, "Failed to send invitation email")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Invitation sent successfully",
		"invitation": invitationView{
			ID:             inv.ID,
			OrganizationID: inv.OrgID,
			Email:          inv.Email,
			Role:           inv.Role,
			InviterID:      inv.InviterID,
			Status:         string(inv.Status),
			ExpiresAt:      inv.ExpiresAt.Format(time.RFC3339),
			CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		},
	})
}
