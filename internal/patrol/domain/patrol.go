package domain

import (
	"time"
)

// Patrol is a scheduled sweep of a venue. Rows come from seeding or external
// schedulers; there is no creation API.
type Patrol struct {
	ID          string
	OrgID       string
	Name        *string
	ScheduledAt time.Time
}

// DisplayName returns the patrol's name, defaulting unnamed rows for the dashboard.
func (p *Patrol) DisplayName() string {
	if p.Name == nil || *p.Name == "" {
		return "Scheduled Patrol"
	}
	return *p.Name
}
