package repository

import (
	"context"
	"database/sql"
	"errors"

	"crowdguard/backend/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetMembershipByUserAndOrg returns the membership for the given user and org, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.QueryRowContext(ctx,
		`SELECT id, org_id, user_id, role, joined_at FROM memberships WHERE user_id = $1 AND org_id = $2`,
		userID, orgID,
	).Scan(&m.ID, &m.OrgID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListMembersByOrg returns all memberships for the given org joined with their users.
func (r *PostgresRepository) ListMembersByOrg(ctx context.Context, orgID string) ([]*domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.role, m.joined_at, u.id, u.email, u.name
		 FROM memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.org_id = $1
		 ORDER BY m.joined_at`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Member
	for rows.Next() {
		m := domain.Member{User: &domain.MemberUser{}}
		if err := rows.Scan(&m.ID, &m.Role, &m.JoinedAt, &m.User.ID, &m.User.Email, &m.User.Name); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// CreateMembership persists the membership to the database. The membership must have ID set.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (id, org_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.OrgID, m.UserID, m.Role, m.JoinedAt,
	)
	return err
}

// UpdateRole changes the role on an existing membership.
func (r *PostgresRepository) UpdateRole(ctx context.Context, membershipID string, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE memberships SET role = $2 WHERE id = $1`,
		membershipID, role,
	)
	return err
}

// DeleteByUserAndOrg removes the user's membership in the org. No-op when absent.
func (r *PostgresRepository) DeleteByUserAndOrg(ctx context.Context, orgID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE org_id = $1 AND user_id = $2`,
		orgID, userID,
	)
	return err
}
