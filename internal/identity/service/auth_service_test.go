package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"crowdguard/backend/internal/security"
	"crowdguard/backend/internal/user/domain"
)

// memUserRepo is an in-memory UserRepository for tests.
type memUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*domain.User{}}
}

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return errors.New("unique violation")
		}
	}
	m.byID[u.ID] = u
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) IssueAccess(userID, email string) (string, time.Time, error) {
	return "token-" + userID, time.Now().Add(time.Hour), nil
}

func newService(repo *memUserRepo) *AuthService {
	return NewAuthService(repo, security.NewHasher(4), fakeIssuer{})
}

func TestRegister_LowercasesEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)

	u, err := svc.Register(context.Background(), "  Alice@Example.COM ", "secret123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.PasswordHash == nil {
		t.Fatal("password hash not set")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)

	if _, err := svc.Register(context.Background(), "a@example.com", "secret123", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(context.Background(), "A@EXAMPLE.com", "other456", nil)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)

	reg, err := svc.Register(context.Background(), "a@example.com", "secret123", nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, u, err := svc.Login(context.Background(), "A@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || u.ID != reg.ID {
		t.Errorf("token = %q, user = %+v", token, u)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)
	if _, err := svc.Register(context.Background(), "a@example.com", "secret123", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "secret123"},
		{"wrong password", "a@example.com", "wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("want ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogin_PasswordlessAccount(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)
	// JIT-provisioned accounts have no password hash and cannot log in.
	repo.byID["u1"] = &domain.User{ID: "u1", Email: "jit@example.com"}

	_, _, err := svc.Login(context.Background(), "jit@example.com", "anything")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestResolve_KnownID(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)
	repo.byID["u1"] = &domain.User{ID: "u1", Email: "a@example.com"}

	u, err := svc.Resolve(context.Background(), "u1", "a@example.com")
	if err != nil || u == nil || u.ID != "u1" {
		t.Errorf("Resolve = %+v, %v", u, err)
	}
}

func TestResolve_AdoptsExistingEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)
	repo.byID["u1"] = &domain.User{ID: "u1", Email: "a@example.com"}

	// Token subject unknown, but the email matches an existing row.
	u, err := svc.Resolve(context.Background(), "external-id", "A@Example.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u == nil || u.ID != "u1" {
		t.Errorf("Resolve = %+v, want existing u1", u)
	}
}

func TestResolve_ProvisionsNewUser(t *testing.T) {
	repo := newMemUserRepo()
	svc := newService(repo)

	u, err := svc.Resolve(context.Background(), "external-id", "new@example.com")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u == nil || u.Email != "new@example.com" {
		t.Fatalf("Resolve = %+v", u)
	}
	if u.PasswordHash != nil {
		t.Error("JIT user must be passwordless")
	}

	// Idempotent: a second resolve returns the same row.
	again, err := svc.Resolve(context.Background(), "other-external-id", "new@example.com")
	if err != nil {
		t.Fatalf("Resolve again: %v", err)
	}
	if again.ID != u.ID {
		t.Errorf("second resolve = %q, want %q", again.ID, u.ID)
	}
}

func TestResolve_NoEmailClaim(t *testing.T) {
	svc := newService(newMemUserRepo())
	u, err := svc.Resolve(context.Background(), "unknown", "")
	if err != nil || u != nil {
		t.Errorf("Resolve = %+v, %v, want nil, nil", u, err)
	}
}
