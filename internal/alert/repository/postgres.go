package repository

import (
	"context"
	"database/sql"
	"errors"

	"crowdguard/backend/internal/alert/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an alert repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByOrg returns the org's alerts newest first, at most limit rows.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit int) ([]*domain.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_id, severity, message, timestamp
		 FROM alerts WHERE org_id = $1
		 ORDER BY timestamp DESC LIMIT $2`,
		orgID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.OrgID, &a.Severity, &a.Message, &a.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// LatestByOrg returns the org's most recent alert, or nil when it has none.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) LatestByOrg(ctx context.Context, orgID string) (*domain.Alert, error) {
	var a domain.Alert
	err := r.db.QueryRowContext(ctx,
		`SELECT id, org_id, severity, message, timestamp
		 FROM alerts WHERE org_id = $1
		 ORDER BY timestamp DESC LIMIT 1`,
		orgID,
	).Scan(&a.ID, &a.OrgID, &a.Severity, &a.Message, &a.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create persists the alert to the database. The alert must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Alert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, org_id, severity, message, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.OrgID, a.Severity, a.Message, a.Timestamp,
	)
	return err
}
