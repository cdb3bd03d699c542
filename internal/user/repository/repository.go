package repository

import (
	"context"

	"crowdguard/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdateName sets the user's display name. name may be nil to clear it.
	UpdateName(ctx context.Context, id string, name *string) (*domain.User, error)
}
