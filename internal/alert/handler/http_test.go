package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"crowdguard/backend/internal/alert/domain"
	memdomain "crowdguard/backend/internal/membership/domain"
	"crowdguard/backend/internal/server/middleware"
)

type memAlertRepo struct {
	alerts []*domain.Alert
}

func (m *memAlertRepo) ListByOrg(ctx context.Context, orgID string, limit int) ([]*domain.Alert, error) {
	var out []*domain.Alert
	for _, a := range m.alerts {
		if a.OrgID == orgID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAlertRepo) Create(ctx context.Context, a *domain.Alert) error {
	m.alerts = append(m.alerts, a)
	return nil
}

type memGetter struct {
	memberships map[string]*memdomain.Membership
}

func (m *memGetter) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*memdomain.Membership, error) {
	return m.memberships[userID+":"+orgID], nil
}

func fixture() (*memAlertRepo, *chi.Mux) {
	repo := &memAlertRepo{}
	getter := &memGetter{memberships: map[string]*memdomain.Membership{
		"u1:org-1": {ID: "m1", OrgID: "org-1", UserID: "u1", Role: memdomain.RoleMember},
	}}
	h := New(repo, getter)
	r := chi.NewRouter()
	r.Get("/api/orgs/{orgId}/alerts", h.List)
	r.Post("/api/orgs/{orgId}/alerts", h.Create)
	return repo, r
}

func do(t *testing.T, r http.Handler, method, path, body, asUser string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), asUser, asUser+"@example.com"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestList_NewestFirstCapped(t *testing.T) {
	repo, r := fixture()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 60; i++ {
		repo.alerts = append(repo.alerts, &domain.Alert{
			ID: "a" + string(rune('0'+i%10)), OrgID: "org-1", Severity: "low",
			Message: "m", Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}

	rec := do(t, r, http.MethodGet, "/api/orgs/org-1/alerts", "", "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Alerts []struct {
			Timestamp string `json:"timestamp"`
		} `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Alerts) != 50 {
		t.Fatalf("alerts = %d, want 50", len(body.Alerts))
	}
	for i := 1; i < len(body.Alerts); i++ {
		if body.Alerts[i-1].Timestamp < body.Alerts[i].Timestamp {
			t.Fatalf("alerts not newest first at %d", i)
		}
	}
}

func TestList_NonMemberForbidden(t *testing.T) {
	_, r := fixture()
	rec := do(t, r, http.MethodGet, "/api/orgs/org-1/alerts", "", "outsider")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, r := fixture()
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/alerts", `{"severity":"high","message":"gate crowding"}`, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(repo.alerts) != 1 || repo.alerts[0].Severity != "high" {
		t.Errorf("alerts = %+v", repo.alerts)
	}
}

func TestCreate_DefaultsSeverityLow(t *testing.T) {
	repo, r := fixture()
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/alerts", `{"message":"minor jam"}`, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if repo.alerts[0].Severity != "low" {
		t.Errorf("severity = %q, want low", repo.alerts[0].Severity)
	}
}

func TestCreate_MissingMessage(t *testing.T) {
	repo, r := fixture()
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/alerts", `{"severity":"high"}`, "u1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(repo.alerts) != 0 {
		t.Error("no alert should be created")
	}
}

func TestParseDetection(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, d *domain.Detection)
	}{
		{
			name: "complete event",
			data: `{"organizationId":"org-1","severity":"critical","message":"surge","timestamp":"2026-01-01T00:00:00Z"}`,
			check: func(t *testing.T, d *domain.Detection) {
				if d.Severity != "critical" || !d.Timestamp.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
					t.Errorf("detection = %+v", d)
				}
			},
		},
		{
			name: "defaults applied",
			data: `{"organizationId":"org-1","message":"minor"}`,
			check: func(t *testing.T, d *domain.Detection) {
				if d.Severity != "low" {
					t.Errorf("severity = %q, want low", d.Severity)
				}
				if !d.Timestamp.Equal(now) {
					t.Errorf("timestamp = %v, want %v", d.Timestamp, now)
				}
			},
		},
		{name: "missing org", data: `{"message":"x"}`, wantErr: true},
		{name: "missing message", data: `{"organizationId":"org-1"}`, wantErr: true},
		{name: "malformed json", data: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := domain.ParseDetection([]byte(tt.data), now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDetection: %v", err)
			}
			tt.check(t, d)
		})
	}
}
