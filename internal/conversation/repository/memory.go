package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"messenger/backend/internal/conversation/domain"
)

// MemoryRepository is an in-memory message store safe for concurrent use.
type MemoryRepository struct {
	mu       sync.RWMutex
	messages []domain.Message
	nextID   int64
}

// NewMemoryRepository returns an empty in-memory message repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// Append stores the message under the write lock so id assignment and insert
// are one atomic step.
func (r *MemoryRepository) Append(_ context.Context, from, to, text string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := domain.Message{
		ID:        r.nextID,
		From:      from,
		To:        to,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	r.nextID++
	r.messages = append(r.messages, m)
	return &m, nil
}

// ListPair returns all messages between a and b, ordered by (timestamp, id).
func (r *MemoryRepository) ListPair(_ context.Context, a, b string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Message
	for _, m := range r.messages {
		if (m.From == a && m.To == b) || (m.From == b && m.To == a) {
			out = append(out, m)
		}
	}
	sortMessages(out)
	return out, nil
}

// ListByPhone returns all messages the phone participates in, ordered by (timestamp, id).
func (r *MemoryRepository) ListByPhone(_ context.Context, phone string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.From == phone || m.To == phone {
			out = append(out, m)
		}
	}
	sortMessages(out)
	return out, nil
}

// sortMessages enforces the (timestamp, id) total order even if the wall
// clock stepped backwards between appends.
func sortMessages(msgs []domain.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Less(&msgs[j])
	})
}
