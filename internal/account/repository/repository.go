// Package repository persists registered accounts.
package repository

import (
	"context"

	"messenger/backend/internal/account/domain"
)

// Repository is the account persistence interface.
type Repository interface {
	// GetByPhone returns the account for phone, or nil if not registered.
	// It returns an error only for storage failures, not for missing rows.
	GetByPhone(ctx context.Context, phone string) (*domain.Account, error)
	// Create persists the account. The account must have Phone and CodeHash set.
	Create(ctx context.Context, a *domain.Account) error
}
