package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crowdguard/backend/internal/health"
	"crowdguard/backend/internal/security"
	userdomain "crowdguard/backend/internal/user/domain"
	userhandler "crowdguard/backend/internal/user/handler"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

type staticResolver struct {
	user *userdomain.User
}

func (s *staticResolver) Resolve(ctx context.Context, userID, email string) (*userdomain.User, error) {
	return s.user, nil
}

type singleUserRepo struct {
	user *userdomain.User
}

func (s *singleUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *singleUserRepo) List(ctx context.Context) ([]*userdomain.User, error) {
	return []*userdomain.User{s.user}, nil
}

func (s *singleUserRepo) UpdateName(ctx context.Context, id string, name *string) (*userdomain.User, error) {
	s.user.Name = name
	return s.user, nil
}

func testRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatal(err)
	}
	user := &userdomain.User{ID: "u1", Email: "u1@example.com"}
	token, _, err := tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		t.Fatal(err)
	}
	h := NewRouter(Deps{
		Health:   health.New(okPinger{}),
		Users:    userhandler.New(&singleUserRepo{user: user}),
		Tokens:   tokens,
		Resolver: &staticResolver{user: user},
	})
	return h, token
}

func TestRouter_HealthIsPublic(t *testing.T) {
	h, _ := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_APIRequiresToken(t *testing.T) {
	h, _ := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Unauthorized: No Token Provided") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_AuthenticatedRequestReachesHandler(t *testing.T) {
	h, token := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"u1@example.com"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_UnknownRouteIsJSON404(t *testing.T) {
	h, _ := testRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
}
