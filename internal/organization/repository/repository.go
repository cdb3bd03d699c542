package repository

import (
	"context"

	"crowdguard/backend/internal/organization/domain"
)

// Repository defines persistence for organizations.
type Repository interface {
	GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error)
	// CreateWithOwner inserts the org and its founding ADMIN membership in one
	// transaction. Either both rows exist afterwards or neither does.
	CreateWithOwner(ctx context.Context, o *domain.Org, membershipID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.OrgWithRole, error)
}
