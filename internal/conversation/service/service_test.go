package service

import (
	"context"
	"errors"
	"testing"

	"messenger/backend/internal/conversation/repository"
)

func TestAppendMessage_EmptyText(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryRepository())
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t "} {
		if _, err := svc.AppendMessage(ctx, "+375000", "+375001", text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("AppendMessage(%q): err = %v, want ErrEmptyMessage", text, err)
		}
	}

	msgs, err := svc.ListMessages(ctx, "+375000", "+375001")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("rejected sends must not be persisted, got %d messages", len(msgs))
	}
}

func TestAppendMessage_TrimsText(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryRepository())

	m, err := svc.AppendMessage(context.Background(), "+375000", "+375001", "  hello  ")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if m.Text != "hello" {
		t.Errorf("Text = %q, want %q", m.Text, "hello")
	}
	if m.ID == 0 {
		t.Error("id should be assigned")
	}
	if m.Timestamp.IsZero() {
		t.Error("timestamp should be assigned")
	}
}

func TestListMessages_TotalOrderAndStability(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryRepository())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		from, to := "+375000", "+375001"
		if i%2 == 1 {
			from, to = to, from
		}
		if _, err := svc.AppendMessage(ctx, from, to, "msg"); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	first, err := svc.ListMessages(ctx, "+375000", "+375001")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(first) != 5 {
		t.Fatalf("got %d messages, want 5", len(first))
	}
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if !prev.Less(&cur) {
			t.Errorf("messages out of order at %d: (%v,%d) then (%v,%d)",
				i, prev.Timestamp, prev.ID, cur.Timestamp, cur.ID)
		}
	}

	// Same result regardless of argument order, and stable across calls.
	second, err := svc.ListMessages(ctx, "+375001", "+375000")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("pair order changed result: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("unstable ordering at %d: id %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestListMessages_PairIsolation(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.AppendMessage(ctx, "+375000", "+375001", "to b"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AppendMessage(ctx, "+375000", "+375002", "to c"); err != nil {
		t.Fatal(err)
	}

	msgs, err := svc.ListMessages(ctx, "+375000", "+375001")
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Text != "to b" {
		t.Errorf("pair {+375000,+375001} leaked other conversations: %+v", msgs)
	}
}

func TestListConversations(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.AppendMessage(ctx, "+375000", "+375001", "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AppendMessage(ctx, "+375002", "+375000", "second"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AppendMessage(ctx, "+375001", "+375000", "third"); err != nil {
		t.Fatal(err)
	}

	chats, err := svc.ListConversations(ctx, "+375000")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("got %d chats, want 2", len(chats))
	}
	// Most recent conversation first.
	if chats[0].Peer != "+375001" || chats[0].LastMessage.Text != "third" {
		t.Errorf("chats[0] = %q/%q, want +375001/third", chats[0].Peer, chats[0].LastMessage.Text)
	}
	if chats[1].Peer != "+375002" || chats[1].LastMessage.Text != "second" {
		t.Errorf("chats[1] = %q/%q, want +375002/second", chats[1].Peer, chats[1].LastMessage.Text)
	}

	// The peer's own view includes the conversation too.
	peerChats, err := svc.ListConversations(ctx, "+375001")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(peerChats) != 1 || peerChats[0].Peer != "+375000" {
		t.Errorf("peer view = %+v, want single chat with +375000", peerChats)
	}
}

func TestListConversations_Empty(t *testing.T) {
	svc := NewConversationService(repository.NewMemoryRepository())

	chats, err := svc.ListConversations(context.Background(), "+375000")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(chats) != 0 {
		t.Errorf("got %d chats, want 0", len(chats))
	}
}
