package repository

import (
	"context"

	"crowdguard/backend/internal/quicklink/domain"
)

// Repository defines persistence for quick links.
type Repository interface {
	// ListByOrg returns the org's quick links newest first.
	ListByOrg(ctx context.Context, orgID string) ([]*domain.QuickLink, error)
	Create(ctx context.Context, l *domain.QuickLink) error
}
