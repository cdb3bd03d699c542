// Package rbac holds the role predicates used by handlers to gate org-scoped
// operations. Predicates resolve the caller's membership through a narrow
// getter interface so services and handlers can share a single implementation.
package rbac

import (
	"context"
	"errors"
	"fmt"

	"crowdguard/backend/internal/membership/domain"
)

var (
	// ErrNotMember is returned when the caller has no membership in the org.
	ErrNotMember = errors.New("not a member of this organization")
	// ErrForbidden is returned when the caller is a member but lacks the required role.
	ErrForbidden = errors.New("insufficient role")
)

// OrgMembershipGetter returns a user's membership in an org, or (nil, nil) when absent.
type OrgMembershipGetter interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
}

// RequireOrgMember ensures userID is a member of orgID (any role).
// Returns the membership on success; ErrNotMember when there is none.
func RequireOrgMember(ctx context.Context, getter OrgMembershipGetter, userID, orgID string) (*domain.Membership, error) {
	m, err := getter.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("resolve membership: %w", err)
	}
	if m == nil {
		return nil, ErrNotMember
	}
	return m, nil
}

// RequireOrgAdmin ensures userID holds the ADMIN role in orgID.
// Returns ErrNotMember for non-members and ErrForbidden for members below ADMIN.
func RequireOrgAdmin(ctx context.Context, getter OrgMembershipGetter, userID, orgID string) (*domain.Membership, error) {
	m, err := RequireOrgMember(ctx, getter, userID, orgID)
	if err != nil {
		return nil, err
	}
	if m.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return m, nil
}

// RequireOrgInviter ensures userID holds ADMIN or SUB_ADMIN in orgID. SUB_ADMIN
// may invite but not add members directly, so this predicate is deliberately
// separate from RequireOrgAdmin.
func RequireOrgInviter(ctx context.Context, getter OrgMembershipGetter, userID, orgID string) (*domain.Membership, error) {
	m, err := RequireOrgMember(ctx, getter, userID, orgID)
	if err != nil {
		return nil, err
	}
	if !m.Role.CanInvite() {
		return nil, ErrForbidden
	}
	return m, nil
}
