package domain

import (
	"time"
)

// Invitation is a pending offer for an email address to join an org. The email
// may belong to a user that does not exist yet.
type Invitation struct {
	ID        string
	OrgID     string
	Email     string
	Role      string
	InviterID string
	Status    Status
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusExpired  Status = "EXPIRED"
)

// TTL is how long an invitation stays valid after creation. Expiry is recorded
// on the row; nothing sweeps expired rows or transitions their status.
const TTL = 7 * 24 * time.Hour
