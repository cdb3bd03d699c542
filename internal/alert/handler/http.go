// Package handler exposes org alert endpoints over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crowdguard/backend/internal/alert/domain"
	"crowdguard/backend/internal/platform/httpx"
	"crowdguard/backend/internal/platform/rbac"
	"crowdguard/backend/internal/server/middleware"
)

// Feeds are capped at the 50 most recent alerts.
const listLimit = 50

// AlertRepository is the persistence surface the handler needs.
type AlertRepository interface {
	ListByOrg(ctx context.Context, orgID string, limit int) ([]*domain.Alert, error)
	Create(ctx context.Context, a *domain.Alert) error
}

type Handler struct {
	alerts      AlertRepository
	memberships rbac.OrgMembershipGetter
	now         func() time.Time
}

func New(alerts AlertRepository, memberships rbac.OrgMembershipGetter) *Handler {
	return &Handler{alerts: alerts, memberships: memberships, now: time.Now}
}

type alertView struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
}

func viewOf(a *domain.Alert) alertView {
	return alertView{
		ID:             a.ID,
		OrganizationID: a.OrgID,
		Severity:       a.Severity,
		Message:        a.Message,
		Timestamp:      a.Timestamp.UTC().Format(time.RFC3339),
	}
}

// List handles GET /api/orgs/{orgId}/alerts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := rbac.RequireOrgMember(r.Context(), h.memberships, userID, orgID); err != nil {
		writeMemberGateError(w, err, "Could not fetch alerts")
		return
	}

	alerts, err := h.alerts.ListByOrg(r.Context(), orgID, listLimit)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not fetch alerts")
		return
	}
	views := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, viewOf(a))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"alerts": views})
}

// Create handles POST /api/orgs/{orgId}/alerts. Severity defaults to "low",
// matching the detection ingest worker.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgId")
	userID, _ := middleware.GetUserID(r.Context())

	if _, err := rbac.RequireOrgMember(r.Context(), h.memberships, userID, orgID); err != nil {
		writeMemberGateError(w, err, "Could not create alert")
		return
	}

	var body struct {
		Severity string `json:"severity"`
		Message  string `json:"message"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil || strings.TrimSpace(body.Message) == "" {
		httpx.Error(w, http.StatusBadRequest, "Message is required")
		return
	}
	severity := body.Severity
	if severity == "" {
		severity = "low"
	}

	a := &domain.Alert{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Severity:  severity,
		Message:   strings.TrimSpace(body.Message),
		Timestamp: h.now().UTC(),
	}
	if err := h.alerts.Create(r.Context(), a); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "Could not create alert")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"alert": viewOf(a)})
}

func writeMemberGateError(w http.ResponseWriter, err error, internalMsg string) {
	if errors.Is(err, rbac.ErrNotMember) {
		httpx.Error(w, http.StatusForbidden, "Access denied")
		return
	}
	httpx.Error(w, http.StatusInternalServerError, internalMsg)
}
