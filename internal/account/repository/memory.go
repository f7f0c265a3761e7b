package repository

import (
	"context"
	"sync"

	"messenger/backend/internal/account/domain"
)

// MemoryRepository is an in-memory account store safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	byPhone map[string]*domain.Account
}

// NewMemoryRepository returns an empty in-memory account repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byPhone: make(map[string]*domain.Account)}
}

// GetByPhone returns the account for phone, or nil if not registered.
func (r *MemoryRepository) GetByPhone(_ context.Context, phone string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byPhone[phone]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// Create persists the account, overwriting any previous entry for the phone.
func (r *MemoryRepository) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.byPhone[a.Phone] = &cp
	return nil
}
