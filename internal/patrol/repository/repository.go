package repository

import (
	"context"
	"time"

	"crowdguard/backend/internal/patrol/domain"
)

// Repository defines persistence for patrols.
type Repository interface {
	// ListUpcomingByOrg returns patrols scheduled at or after now,
	// soonest first, at most limit rows.
	ListUpcomingByOrg(ctx context.Context, orgID string, now time.Time, limit int) ([]*domain.Patrol, error)
	Create(ctx context.Context, p *domain.Patrol) error
}
