// Package repository persists messages. Conversations are a derived view over
// the flat message set, keyed by the unordered pair of participants.
package repository

import (
	"context"

	"messenger/backend/internal/conversation/domain"
)

// Repository is the message persistence interface. Append is atomic per call:
// concurrent readers see either the full message or nothing.
type Repository interface {
	// Append assigns a unique increasing id and a timestamp, persists the
	// message, and returns the stored record. Text is stored as given; the
	// service layer owns validation.
	Append(ctx context.Context, from, to, text string) (*domain.Message, error)
	// ListPair returns all messages between a and b in either direction,
	// ordered by (timestamp, id) ascending.
	ListPair(ctx context.Context, a, b string) ([]domain.Message, error)
	// ListByPhone returns all messages the phone participates in, ordered by
	// (timestamp, id) ascending.
	ListByPhone(ctx context.Context, phone string) ([]domain.Message, error)
}
