package repository

import (
	"context"

	"crowdguard/backend/internal/alert/domain"
)

// Repository defines persistence for alerts.
type Repository interface {
	// ListByOrg returns the org's alerts newest first, at most limit rows.
	ListByOrg(ctx context.Context, orgID string, limit int) ([]*domain.Alert, error)
	// LatestByOrg returns the org's most recent alert, or nil when it has none.
	LatestByOrg(ctx context.Context, orgID string) (*domain.Alert, error)
	Create(ctx context.Context, a *domain.Alert) error
}
