package repository

import (
	"context"
	"database/sql"
	"errors"

	"crowdguard/backend/internal/invitation/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an invitation repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the invitation to the database. The invitation must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (id, org_id, email, role, inviter_id, status, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.OrgID, inv.Email, inv.Role, inv.InviterID, inv.Status, inv.ExpiresAt, inv.CreatedAt,
	)
	return err
}

// GetByID returns the invitation for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, org_id, email, role, inviter_id, status, expires_at, created_at
		 FROM invitations WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.OrgID, &inv.Email, &inv.Role, &inv.InviterID, &inv.Status, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// Delete removes the invitation row. Deleting an absent row is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	return err
}
