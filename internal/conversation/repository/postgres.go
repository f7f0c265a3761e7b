package repository

import (
	"context"
	"database/sql"
	"time"

	"messenger/backend/internal/conversation/domain"
)

// PostgresRepository is a message repository backed by Postgres. Message ids
// come from a bigserial column, so they are unique and increasing.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a message repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts the message and returns the stored record with its assigned id.
func (r *PostgresRepository) Append(ctx context.Context, from, to, text string) (*domain.Message, error) {
	m := domain.Message{
		From:      from,
		To:        to,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (from_phone, to_phone, body, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		m.From, m.To, m.Text, m.Timestamp,
	).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListPair returns all messages between a and b, ordered by (timestamp, id).
func (r *PostgresRepository) ListPair(ctx context.Context, a, b string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, from_phone, to_phone, body, created_at FROM messages
		 WHERE (from_phone = $1 AND to_phone = $2) OR (from_phone = $2 AND to_phone = $1)
		 ORDER BY created_at, id`,
		a, b,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// ListByPhone returns all messages the phone participates in, ordered by (timestamp, id).
func (r *PostgresRepository) ListByPhone(ctx context.Context, phone string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, from_phone, to_phone, body, created_at FROM messages
		 WHERE from_phone = $1 OR to_phone = $1
		 ORDER BY created_at, id`,
		phone,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.From, &m.To, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
