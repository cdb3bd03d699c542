package repository

import (
	"context"
	"database/sql"
	"time"

	"crowdguard/backend/internal/patrol/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a patrol repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListUpcomingByOrg returns patrols scheduled at or after now, soonest first.
func (r *PostgresRepository) ListUpcomingByOrg(ctx context.Context, orgID string, now time.Time, limit int) ([]*domain.Patrol, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_id, name, scheduled_at
		 FROM patrols WHERE org_id = $1 AND scheduled_at >= $2
		 ORDER BY scheduled_at ASC LIMIT $3`,
		orgID, now, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Patrol
	for rows.Next() {
		var p domain.Patrol
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.ScheduledAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Create persists the patrol to the database. The patrol must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Patrol) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patrols (id, org_id, name, scheduled_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.OrgID, p.Name, p.ScheduledAt,
	)
	return err
}
