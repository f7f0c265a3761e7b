package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"messenger/backend/internal/session/domain"
)

// PostgresRepository is a session repository backed by Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var (
		s       domain.Session
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, phone, created_at, expires_at, revoked_at FROM sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Phone, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if revoked.Valid {
		t := revoked.Time
		s.RevokedAt = &t
	}
	return &s, nil
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, phone, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.Phone, s.CreatedAt, s.ExpiresAt,
	)
	return err
}

// Revoke marks the session revoked. Idempotent; already-revoked rows keep
// their original revocation time.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`,
		id, time.Now().UTC(),
	)
	return err
}
