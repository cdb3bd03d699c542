package domain

import (
	"time"
)

// Org is a tenant: every alert, quick link, patrol, and membership hangs off one.
type Org struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// OrgWithRole pairs an org with the caller's role in it, for org listings.
type OrgWithRole struct {
	Org
	MyRole string
}
