package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"crowdguard/backend/internal/membership/domain"
	"crowdguard/backend/internal/server/middleware"
	userdomain "crowdguard/backend/internal/user/domain"
)

// mockMembershipRepo implements MembershipRepository for tests, keyed "userID:orgID".
type mockMembershipRepo struct {
	memberships map[string]*domain.Membership
	getErr      error
	createErr   error
}

func (m *mockMembershipRepo) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.memberships[userID+":"+orgID], nil
}

func (m *mockMembershipRepo) CreateMembership(ctx context.Context, mem *domain.Membership) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.memberships[mem.UserID+":"+mem.OrgID] = mem
	return nil
}

func (m *mockMembershipRepo) UpdateRole(ctx context.Context, membershipID string, role domain.Role) error {
	for _, mem := range m.memberships {
		if mem.ID == membershipID {
			mem.Role = role
			return nil
		}
	}
	return nil
}

func (m *mockMembershipRepo) DeleteByUserAndOrg(ctx context.Context, orgID, userID string) error {
	delete(m.memberships, userID+":"+orgID)
	return nil
}

type mockUserGetter struct {
	byEmail map[string]*userdomain.User
}

func (m *mockUserGetter) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	return m.byEmail[strings.ToLower(email)], nil
}

func newRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/orgs/{orgId}/members", h.AddMember)
	r.Put("/api/orgs/{orgId}/members/{userId}", h.UpdateRole)
	r.Delete("/api/orgs/{orgId}/members/{userId}", h.RemoveMember)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body, asUser string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req = req.WithContext(middleware.WithIdentity(req.Context(), asUser, asUser+"@example.com"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func fixtureRepo() *mockMembershipRepo {
	return &mockMembershipRepo{memberships: map[string]*domain.Membership{
		"admin:org-1":  {ID: "m-admin", OrgID: "org-1", UserID: "admin", Role: domain.RoleAdmin, JoinedAt: time.Now()},
		"sub:org-1":    {ID: "m-sub", OrgID: "org-1", UserID: "sub", Role: domain.RoleSubAdmin, JoinedAt: time.Now()},
		"member:org-1": {ID: "m-member", OrgID: "org-1", UserID: "member", Role: domain.RoleMember, JoinedAt: time.Now()},
	}}
}

func fixtureUsers() *mockUserGetter {
	return &mockUserGetter{byEmail: map[string]*userdomain.User{
		"new@example.com":    {ID: "new-user", Email: "new@example.com"},
		"member@example.com": {ID: "member", Email: "member@example.com"},
	}}
}

func TestAddMember_Success(t *testing.T) {
	repo := fixtureRepo()
	r := newRouter(New(repo, fixtureUsers()))

	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/members", `{"email":"new@example.com","role":"SUB_ADMIN"}`, "admin")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	m := repo.memberships["new-user:org-1"]
	if m == nil || m.Role != domain.RoleSubAdmin {
		t.Errorf("membership = %+v, want SUB_ADMIN", m)
	}
}

func TestAddMember_InvalidRoleCoercedToMember(t *testing.T) {
	repo := fixtureRepo()
	r := newRouter(New(repo, fixtureUsers()))

	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/members", `{"email":"new@example.com","role":"SUPERUSER"}`, "admin")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	m := repo.memberships["new-user:org-1"]
	if m == nil || m.Role != domain.RoleMember {
		t.Errorf("membership = %+v, want coerced MEMBER", m)
	}
}

func TestAddMember_SubAdminForbidden(t *testing.T) {
	repo := fixtureRepo()
	r := newRouter(New(repo, fixtureUsers()))

	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/members", `{"email":"new@example.com"}`, "sub")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if repo.memberships["new-user:org-1"] != nil {
		t.Error("membership should not be created")
	}
}

func TestAddMember_MissingEmail(t *testing.T) {
	r := newRouter(New(fixtureRepo(), fixtureUsers()))
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/members", `{"role":"MEMBER"}`, "admin")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAddMember_UnknownUser(t *testing.T) {
	r := newRouter(New(fixtureRepo(), fixtureUsers()))
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/members", `{"email":"ghost@example.com"}`, "admin")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAddMember_AlreadyMember(t *testing.T) {
	r := newRouter(New(fixtureRepo(), fixtureUsers()))
	rec := do(t, r, http.MethodPost, "/api/orgs/org-1/members", `{"email":"member@example.com"}`, "admin")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateRole_Success(t *testing.T) {
	repo := fixtureRepo()
	r := newRouter(New(repo, fixtureUsers()))

	rec := do(t, r, http.MethodPut, "/api/orgs/org-1/members/member", `{"role":"SUB_ADMIN"}`, "admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Message != "Role updated" {
		t.Errorf("message = %q", body.Message)
	}
	if repo.memberships["member:org-1"].Role != domain.RoleSubAdmin {
		t.Errorf("role = %s, want SUB_ADMIN", repo.memberships["member:org-1"].Role)
	}
}

func TestUpdateRole_InvalidRoleLeavesRowUnchanged(t *testing.T) {
	repo := fixtureRepo()
	r := newRouter(New(repo, fixtureUsers()))

	rec := do(t, r, http.MethodPut, "/api/orgs/org-1/members/member", `{"role":"SUPERUSER"}`, "admin")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if repo.memberships["member:org-1"].Role != domain.RoleMember {
		t.Errorf("role changed to %s, want MEMBER untouched", repo.memberships["member:org-1"].Role)
	}
}

func TestUpdateRole_MembershipNotFound(t *testing.T) {
	r := newRouter(New(fixtureRepo(), fixtureUsers()))
	rec := do(t, r, http.MethodPut, "/api/orgs/org-1/members/ghost", `{"role":"MEMBER"}`, "admin")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateRole_MemberForbidden(t *testing.T) {
	r := newRouter(New(fixtureRepo(), fixtureUsers()))
	rec := do(t, r, http.MethodPut, "/api/orgs/org-1/members/member", `{"role":"ADMIN"}`, "member")
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRemoveMember_Success(t *testing.T) {
	repo := fixtureRepo()
	r := newRouter(New(repo, fixtureUsers()))

	rec := do(t, r, http.MethodDelete, "/api/orgs/org-1/members/member", "", "admin")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if repo.memberships["member:org-1"] != nil {
		t.Error("membership should be deleted")
	}
}

func TestRemoveMember_SelfRemovalBlocked(t *testing.T) {
	repo := fixtureRepo()
	r := newRouter(New(repo, fixtureUsers()))

	rec := do(t, r, http.MethodDelete, "/api/orgs/org-1/members/admin", "", "admin")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if repo.memberships["admin:org-1"] == nil {
		t.Error("admin membership should survive")
	}
}

func TestRemoveMember_AbsentTargetIdempotent(t *testing.T) {
	r := newRouter(New(fixtureRepo(), fixtureUsers()))
	rec := do(t, r, http.MethodDelete, "/api/orgs/org-1/members/ghost", "", "admin")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestRemoveMember_NonAdminForbidden(t *testing.T) {
	for _, caller := range []string{"sub", "member", "outsider"} {
		r := newRouter(New(fixtureRepo(), fixtureUsers()))
		rec := do(t, r, http.MethodDelete, "/api/orgs/org-1/members/member", "", caller)
		if rec.Code != http.StatusForbidden {
			t.Errorf("caller %s: status = %d, want 403", caller, rec.Code)
		}
	}
}
