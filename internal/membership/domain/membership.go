package domain

import (
	"time"
)

// Membership links a user to an organization with a role.
type Membership struct {
	ID       string
	OrgID    string
	UserID   string
	Role     Role
	JoinedAt time.Time
}

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSubAdmin Role = "SUB_ADMIN"
	RoleMember   Role = "MEMBER"
)

// ParseRole reports whether s names a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleSubAdmin, RoleMember:
		return Role(s), true
	default:
		return "", false
	}
}

// CanInvite reports whether the role may send invitations and manage quick links.
func (r Role) CanInvite() bool {
	return r == RoleAdmin || r == RoleSubAdmin
}
