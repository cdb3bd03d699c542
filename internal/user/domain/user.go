package domain

import (
	"time"
)

// User is an account in the system. Name and PasswordHash are nullable:
// users provisioned from a trusted token (or invited by email) may not have
// set either yet.
type User struct {
	ID           string
	Email        string
	Name         *string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the user's name, or the empty string when unset.
func (u *User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}
