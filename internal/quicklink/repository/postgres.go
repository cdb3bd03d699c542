package repository

import (
	"context"
	"database/sql"

	"crowdguard/backend/internal/quicklink/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a quick link repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOrg returns the org's quick links newest first.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string) ([]*domain.QuickLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_id, label, url, created_by, created_at
		 FROM quick_links WHERE org_id = $1
		 ORDER BY created_at DESC`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.QuickLink
	for rows.Next() {
		var l domain.QuickLink
		if err := rows.Scan(&l.ID, &l.OrgID, &l.Label, &l.URL, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// Create persists the quick link to the database. The link must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, l *domain.QuickLink) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO quick_links (id, org_id, label, url, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.OrgID, l.Label, l.URL, l.CreatedBy, l.CreatedAt,
	)
	return err
}
