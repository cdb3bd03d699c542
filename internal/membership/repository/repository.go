package repository

import (
	"context"

	"crowdguard/backend/internal/membership/domain"
)

// Repository defines persistence for memberships.
type Repository interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	ListMembersByOrg(ctx context.Context, orgID string) ([]*domain.Member, error)
	CreateMembership(ctx context.Context, m *domain.Membership) error
	UpdateRole(ctx context.Context, membershipID string, role domain.Role) error
	// DeleteByUserAndOrg removes the user's membership in the org. Deleting a
	// membership that does not exist is not an error.
	DeleteByUserAndOrg(ctx context.Context, orgID, userID string) error
}
