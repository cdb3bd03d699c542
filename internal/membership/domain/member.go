package domain

import "time"

// Member is a membership joined with its user, as listed in organization details.
type Member struct {
	ID       string
	Role     Role
	JoinedAt time.Time
	User     *MemberUser
}

// MemberUser is the subset of the user shown alongside a membership.
type MemberUser struct {
	ID    string
	Email string
	Name  *string
}
