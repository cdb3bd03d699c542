// Package handler exposes the org audit trail over HTTP, gated on ADMIN.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"crowdguard/backend/internal/audit/domain"
	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/platform/rbac"
	"crowdguard/backend/internal/server/middleware"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// AuditLister reads the org's audit trail.
type AuditLister interface {
	ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*domain.AuditLog, error)
}

type Handler struct {
	logs        AuditLister
	memberships rbac.OrgMembershipGetter
}

func New(logs AuditLister, memberships rbac.OrgMembershipGetter) *Handler {
	return &Handler{logs: logs, memberships: memberships}
}

type entryView struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Action    string `json:"action"`
	Resource  string `json:"resource"`
	IP        string `json:"ip"`
	Metadata  string `json:"metadata,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// List handles GET /api/orgs/{orgId}/audit-logs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := rbac.RequireOrgAdmin(r.Context(), h.memberships, userID, orgID); err != nil {
		if errors.Is(err, rbac.ErrNotMember) || errors.Is(err, rbac.ErrForbidden) {
			httpx.Error(w, http.StatusForbidden, "Access denied: Requires ADMIN role")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch audit logs")
		return
	}

	limit := queryInt(r, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	entries, err := h.logs.ListByOrg(r.Context(), orgID, limit, offset)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch audit logs")
		return
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Resource:  e.Resource,
			IP:        e.IP,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"auditLogs": views})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
