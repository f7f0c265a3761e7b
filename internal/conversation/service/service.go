// Package service implements message appends and the derived conversation views.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"messenger/backend/internal/conversation/domain"
)

// ErrEmptyMessage is returned when the trimmed message text is empty.
// Nothing is persisted in that case.
var ErrEmptyMessage = errors.New("message text is empty")

// MessageRepo is the minimal message repository needed by the conversation service.
type MessageRepo interface {
	Append(ctx context.Context, from, to, text string) (*domain.Message, error)
	ListPair(ctx context.Context, a, b string) ([]domain.Message, error)
	ListByPhone(ctx context.Context, phone string) ([]domain.Message, error)
}

// ConversationService is the single source of truth for messages. All
// mutation goes through AppendMessage; the chat list is recomputed from the
// flat message set on every read.
type ConversationService struct {
	messages MessageRepo
}

// NewConversationService returns a ConversationService using the given repository.
func NewConversationService(messages MessageRepo) *ConversationService {
	return &ConversationService{messages: messages}
}

// AppendMessage validates and persists a message, returning the stored record
// with its server-assigned id. Whitespace-only text fails with ErrEmptyMessage.
func (s *ConversationService) AppendMessage(ctx context.Context, from, to, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	return s.messages.Append(ctx, from, to, text)
}

// ListMessages returns the conversation between phone and peer, ordered by
// (timestamp, id) ascending. Stable across calls with no new writes.
func (s *ConversationService) ListMessages(ctx context.Context, phone, peer string) ([]domain.Message, error) {
	return s.messages.ListPair(ctx, phone, peer)
}

// ListConversations returns one summary per distinct peer the phone has
// exchanged messages with, ordered most-recent-message-first.
func (s *ConversationService) ListConversations(ctx context.Context, phone string) ([]domain.ChatSummary, error) {
	msgs, err := s.messages.ListByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	last := make(map[string]domain.Message)
	for _, m := range msgs {
		peer := m.From
		if m.From == phone {
			peer = m.To
		}
		// msgs are ascending, so the map ends up holding the latest per peer.
		last[peer] = m
	}
	out := make([]domain.ChatSummary, 0, len(last))
	for peer, m := range last {
		msg := m
		out = append(out, domain.ChatSummary{Peer: peer, LastMessage: &msg})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].LastMessage.Less(out[i].LastMessage)
	})
	return out, nil
}
