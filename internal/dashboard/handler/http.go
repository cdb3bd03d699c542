// Package handler composes the org dashboard: an event status derived from the
// single most recent alert, plus the next few patrols.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	alertdomain "crowdguard/backend/internal/alert/domain"
	patroldomain "crowdguard/backend/internal/patrol/domain"
	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/platform/rbac"
	"crowdguard/backend/internal/server/middleware"
)

// The dashboard shows at most this many upcoming patrols.
const patrolLimit = 5

// LatestAlertGetter resolves the org's most recent alert, or nil.
type LatestAlertGetter interface {
	LatestByOrg(ctx context.Context, orgID string) (*alertdomain.Alert, error)
}

// UpcomingPatrolLister returns future patrols soonest first.
type UpcomingPatrolLister interface {
	ListUpcomingByOrg(ctx context.Context, orgID string, now time.Time, limit int) ([]*patroldomain.Patrol, error)
}

type Handler struct {
	alerts      LatestAlertGetter
	patrols     UpcomingPatrolLister
	memberships rbac.OrgMembershipGetter
	now         func() time.Time
}

func New(alerts LatestAlertGetter, patrols UpcomingPatrolLister, memberships rbac.OrgMembershipGetter) *Handler {
	return &Handler{alerts: alerts, patrols: patrols, memberships: memberships, now: time.Now}
}

type patrolView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// EventStatus maps the most recent alert's severity to the dashboard headline.
// Only the newest alert counts: a critical alert followed by a low one reads
// "All clear".
func EventStatus(latest *alertdomain.Alert) string {
	if latest == nil {
		return "All clear"
	}
	switch strings.ToLower(latest.Severity) {
	case "critical":
		return "Critical alert active"
	case "high":
		return "Elevated alert active"
	case "medium":
		return "Monitoring recent activity"
	default:
		return "All clear"
	}
}

// Overview handles GET /api/orgs/{orgId}/dashboard.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := rbac.RequireOrgMember(r.Context(), h.memberships, userID, orgID); err != nil {
		if errors.Is(err, rbac.ErrNotMember) {
			httpx.Error(w, http.StatusForbidden, "Access denied")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch dashboard overview")
		return
	}

	latest, err := h.alerts.LatestByOrg(r.Context(), orgID)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch dashboard overview")
		return
	}

	patrols, err := h.patrols.ListUpcomingByOrg(r.Context(), orgID, h.now().UTC(), patrolLimit)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch dashboard overview")
		return
	}
	upcoming := make([]patrolView, 0, len(patrols))
	for _, p := range patrols {
		upcoming = append(upcoming, patrolView{
			ID:   p.ID,
			Name: p.DisplayName(),
			Time: p.ScheduledAt.UTC().Format(time.RFC3339),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"eventStatus":     EventStatus(latest),
		"upcomingPatrols": upcoming,
	})
}
