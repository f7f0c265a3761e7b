package repository

import (
	"context"
	"database/sql"
	"errors"

	"messenger/backend/internal/account/domain"
)

// PostgresRepository is an account repository backed by Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByPhone returns the account for phone, or nil if not registered.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT phone, code_hash, created_at FROM accounts WHERE phone = $1`,
		phone,
	).Scan(&a.Phone, &a.CodeHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Create persists the account. Replaces the code hash if the phone already exists.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (phone, code_hash, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (phone) DO UPDATE SET code_hash = EXCLUDED.code_hash`,
		a.Phone, a.CodeHash, a.CreatedAt,
	)
	return err
}
