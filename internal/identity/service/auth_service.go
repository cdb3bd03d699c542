// Package service implements account registration, login, and the identity
// resolution the auth middleware relies on.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"crowdguard/backend/internal/security"
	"crowdguard/backend/internal/user/domain"
)

var (
	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository is the persistence surface the service needs.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	IssueAccess(userID, email string) (token string, expiresAt time.Time, err error)
}

type AuthService struct {
	users  UserRepository
	hasher *security.Hasher
	tokens TokenIssuer
	now    func() time.Time
}

func NewAuthService(users UserRepository, hasher *security.Hasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// Register creates an account for the email. Returns ErrEmailTaken when one
// already exists (case-insensitive).
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	if name != nil && *name == "" {
		name = nil
	}

	now := s.now().UTC()
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials and issues an access token. Unknown emails,
// passwordless accounts, and wrong passwords all return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, u *domain.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil || u.PasswordHash == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(*u.PasswordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err = s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Resolve returns the user for a validated token. When the ID is unknown but
// the token carries an email claim, the account is provisioned just-in-time:
// an existing row with that email is adopted, otherwise a passwordless row is
// created. Returns (nil, nil) when the identity cannot be resolved at all.
func (s *AuthService) Resolve(ctx context.Context, userID, email string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	u, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	now := s.now().UTC()
	u = &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race against a concurrent request provisioning the same
		// email; the unique constraint makes the other row the winner.
		if existing, getErr := s.users.GetByEmail(ctx, email); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return u, nil
}
