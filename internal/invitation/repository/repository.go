package repository

import (
	"context"

	"crowdguard/backend/internal/invitation/domain"
)

// Repository defines persistence for invitations.
type Repository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	// Delete removes the invitation row. Used to compensate when the
	// invitation email cannot be delivered.
	Delete(ctx context.Context, id string) error
}
