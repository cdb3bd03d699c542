package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	memdomain "crowdguard/backend/internal/membership/domain"
	"crowdguard/backend/internal/quicklink/domain"
	"crowdguard/backend/internal/server/middleware"
)

type memLinkRepo struct {
	links []*domain.QuickLink
}

func (m *memLinkRepo) ListByOrg(ctx context.Context, orgID string) ([]*domain.QuickLink, error) {
	var out []*domain.QuickLink
	for _, l := range m.links {
		if l.OrgID == orgID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLinkRepo) Create(ctx context.Context, l *domain.QuickLink) error {
	m.links = append(m.links, l)
	return nil
}

type memGetter struct {
	memberships map[string]*memdomain.Membership
}

func (m *memGetter) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*memdomain.Membership, error) {
	return m.memberships[userID+":"+orgID], nil
}

func fixture() (*memLinkRepo, *chi.Mux) {
	repo := &memLinkRepo{}
	getter := &memGetter{memberships: map[string]*memdomain.Membership{
		"u1:org-1": {ID: "m1", OrgID: "org-1", UserID: "u1", Role: memdomain.RoleMember},
	}}
	h := New(repo, getter)
	r := chi.NewRouter()
	r.Get("/api/orgs/{orgId}/quick-links", h.List)
	r.Post("/api/orgs/{orgId}/quick-links", h.Add)
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

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"HTTP://example.com", "HTTP://example.com"},
		{"example.com/path", "https://example.com/path"},
		{"  example.com  ", "https://example.com"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := domain.NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAdd_NormalizesAndTrims(t *testing.T) {
	repo, r := fixture()
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/quick-links", `{"label":"  Venue Map ","url":"maps.example.com/venue"}`, "u1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	l := repo.links[0]
	if l.Label != "Venue Map" {
		t.Errorf("label = %q", l.Label)
	}
	if l.URL != "https://maps.example.com/venue" {
		t.Errorf("url = %q", l.URL)
	}
	if l.CreatedBy == nil || *l.CreatedBy != "u1" {
		t.Errorf("createdBy = %v", l.CreatedBy)
	}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing label", `{"url":"example.com"}`},
		{"missing url", `{"label":"X"}`},
		{"whitespace url", `{"label":"X","url":"   "}`},
		{"malformed", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, r := fixture()
			rec := do(t, r, http.MethodPost, "/api/orgs/org-1/quick-links", tt.body, "u1")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(repo.links) != 0 {
				t.Error("no link should be created")
			}
		})
	}
}

func TestAdd_NonMemberForbidden(t *testing.T) {
	_, r := fixture()
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/quick-links", `{"label":"X","url":"example.com"}`, "outsider")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestList_Success(t *testing.T) {
	repo, r := fixture()
	repo.links = append(repo.links, &domain.QuickLink{ID: "l1", OrgID: "org-1", Label: "A", URL: "https://a.example.com"})

	rec := do(t, r, http.MethodGet, "/api/orgs/org-1/quick-links", "", "u1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Links []struct {
			Label string `json:"label"`
		} `json:"links"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Links) != 1 || body.Links[0].Label != "A" {
		t.Errorf("links = %+v", body.Links)
	}
}

func TestList_NonMemberForbidden(t *testing.T) {
	_, r := fixture()
	rec := do(t, r, http.MethodGet, "/api/orgs/org-1/quick-links", "", "outsider")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
