// Package handler exposes organization lifecycle endpoints over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	memdomain "crowdguard/backend/internal/membership/domain"
	"crowdguard/backend/internal/organization/domain"
	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/platform/rbac"
	"crowdguard/backend/internal/server/middleware"
)

// OrgRepository is the persistence surface the handler needs.
type OrgRepository interface {
	GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error)
	CreateWithOwner(ctx context.Context, o *domain.Org, membershipID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.OrgWithRole, error)
}

// MemberLister returns org memberships joined with users, for the details view.
type MemberLister interface {
	rbac.OrgMembershipGetter
	ListMembersByOrg(ctx context.Context, orgID string) ([]*memdomain.Member, error)
}

type Handler struct {
	orgs        OrgRepository
	memberships MemberLister
	now         func() time.Time
}

func New(orgs OrgRepository, memberships MemberLister) *Handler {
	return &Handler{orgs: orgs, memberships: memberships, now: time.Now}
}

type orgView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	MyRole    string `json:"myRole,omitempty"`
}

// Create handles POST /api/orgs. The org row and the creator's ADMIN
// membership land in one transaction.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Organization name is required")
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		httpx.Error(w, http.StatusBadRequest, "Organization name is required")
		return
	}

	o := &domain.Org{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   userID,
		CreatedAt: h.now().UTC(),
	}
	if err := h.orgs.CreateWithOwner(r.Context(), o, uuid.NewString()); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not create organization")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"org": orgView{
		ID:        o.ID,
		Name:      o.Name,
		OwnerID:   o.OwnerID,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}})
}

// ListMine handles GET /api/orgs.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orgs, err := h.orgs.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch organizations")
		return
	}
	views := make([]orgView, 0, len(orgs))
	for _, o := range orgs {
		views = append(views, orgView{
			ID:        o.ID,
			Name:      o.Name,
			OwnerID:   o.OwnerID,
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
			MyRole:    o.MyRole,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"organizations": views})
}

type memberView struct {
	ID       string          `json:"id"`
	Role     string          `json:"role"`
	JoinedAt string          `json:"joinedAt"`
	User     *memberUserView `json:"user"`
}

type memberUserView struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// GetDetails handles GET /api/orgs/{orgId}. Membership is checked before
// existence, so non-members see 403 rather than learning whether the org exists.
func (h *Handler) GetDetails(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := rbac.RequireOrgMember(r.Context(), h.memberships, userID, orgID); err != nil {
		if errors.Is(err, rbac.ErrNotMember) {
			httpx.Error(w, http.StatusForbidden, "Access denied")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch organization details")
		return
	}

	o, err := h.orgs.GetOrganizationByID(r.Context(), orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch organization details")
		return
	}
	if o == nil {
		httpx.Error(w, http.StatusNotFound, "Organization not found")
		return
	}

	members, err := h.memberships.ListMembersByOrg(r.Context(), orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch organization details")
		return
	}
	memberViews := make([]memberView, 0, len(members))
	for _, m := range members {
		v := memberView{
			ID:       m.ID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		}
		if m.User != nil {
			v.User = &memberUserView{ID: m.User.ID, Email: m.User.Email, Name: m.User.Name}
		}
		memberViews = append(memberViews, v)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"organization": map[string]any{
		"id":        o.ID,
		"name":      o.Name,
		"ownerId":   o.OwnerID,
		"createdAt": o.CreatedAt.Format(time.RFC3339),
		"members":   memberViews,
	}})
}
