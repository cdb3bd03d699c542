package repository

import (
	"context"
	"database/sql"
	"errors"

	"crowdguard/backend/internal/organization/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an organization repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrganizationByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetOrganizationByID(ctx context.Context, id string) (*domain.Org, error) {
	var o domain.Org
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM organizations WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.OwnerID, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// CreateWithOwner inserts the org and its founding ADMIN membership in one
// transaction. A failure on either insert rolls back both.
func (r *PostgresRepository) CreateWithOwner(ctx context.Context, o *domain.Org, membershipID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO organizations (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		o.ID, o.Name, o.OwnerID, o.CreatedAt,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO memberships (id, org_id, user_id, role, joined_at) VALUES ($1, $2, $3, 'ADMIN', $4)`,
		membershipID, o.ID, o.OwnerID, o.CreatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ListByUser returns every org the user belongs to, with the user's role in each.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.OrgWithRole, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.name, o.owner_id, o.created_at, m.role
		 FROM memberships m
		 JOIN organizations o ON o.id = m.org_id
		 WHERE m.user_id = $1
		 ORDER BY o.created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.OrgWithRole
	for rows.Next() {
		var o domain.OrgWithRole
		if err := rows.Scan(&o.ID, &o.Name, &o.OwnerID, &o.CreatedAt, &o.MyRole); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
