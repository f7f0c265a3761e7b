// Package repository persists sessions.
package repository

import (
	"context"

	"messenger/backend/internal/session/domain"
)

// Repository is the session persistence interface. Reads may run concurrently;
// writes for a given session id are serialized by the implementation.
type Repository interface {
	// GetByID returns the session for id, or nil if not found.
	// It returns an error only for storage failures, not for missing rows.
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// Create persists the session. The session must have ID set.
	Create(ctx context.Context, s *domain.Session) error
	// Revoke marks the session revoked. Idempotent; revoking an unknown or
	// already-revoked id is not an error.
	Revoke(ctx context.Context, id string) error
}
