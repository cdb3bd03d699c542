// Package handler exposes org quick link endpoints over HTTP. Any member may
// read or add links; there is no admin gate here.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/platform/rbac"
	"crowdguard/backend/internal/quicklink/domain"
	"crowdguard/backend/internal/server/middleware"
)

// QuickLinkRepository is the persistence surface the handler needs.
type QuickLinkRepository interface {
	ListByOrg(ctx context.Context, orgID string) ([]*domain.QuickLink, error)
	Create(ctx context.Context, l *domain.QuickLink) error
}

type Handler struct {
	links       QuickLinkRepository
	memberships rbac.OrgMembershipGetter
	now         func() time.Time
}

func New(links QuickLinkRepository, memberships rbac.OrgMembershipGetter) *Handler {
	return &Handler{links: links, memberships: memberships, now: time.Now}
}

type linkView struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organizationId"`
	Label          string  `json:"label"`
	URL            string  `json:"url"`
	CreatedBy      *string `json:"createdBy"`
	CreatedAt      string  `json:"createdAt"`
}

func viewOf(l *domain.QuickLink) linkView {
	return linkView{
		ID:             l.ID,
		OrganizationID: l.OrgID,
		Label:          l.Label,
		URL:            l.URL,
		CreatedBy:      l.CreatedBy,
		CreatedAt:      l.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /api/orgs/{orgId}/quick-links.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := rbac.RequireOrgMember(r.Context(), h.memberships, userID, orgID); err != nil {
		writeMemberGateError(w, err, "Could not fetch quick links")
		return
	}

	links, err := h.links.ListByOrg(r.Context(), orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch quick links")
		return
	}
	views := make([]linkView, 0, len(links))
	for _, l := range links {
		views = append(views, viewOf(l))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"links": views})
}

// Add handles POST /api/orgs/{orgId}/quick-links.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	var body struct {
		Label string `json:"label"`
		URL   string `json:"url"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || body.Label == "" || body.URL == "" {
		httpx.Error(w, http.StatusBadRequest, "Label and URL are required")
		return
	}

	if _, err := rbac.RequireOrgMember(r.Context(), h.memberships, userID, orgID); err != nil {
		writeMemberGateError(w, err, "Could not add quick link")
		return
	}

	url := domain.NormalizeURL(body.URL)
	if url == "" {
		httpx.Error(w, http.StatusBadRequest, "Invalid URL")
		return
	}

	l := &domain.QuickLink{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Label:     strings.TrimSpace(body.Label),
		URL:       url,
		CreatedBy: &userID,
		CreatedAt: h.now().UTC(),
	}
	if err := h.links.Create(r.Context(), l); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not add quick link")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"link": viewOf(l)})
}

func writeMemberGateError(w http.ResponseWriter, err error, internalMsg string) {
	if errors.Is(err, rbac.ErrNotMember) {
		httpx.Error(w, http.StatusForbidden, "Access denied")
		return
	}
	httpx.Error(w, http.StatusInternalServerError, internalMsg)
}
