// Package domain defines messages and derived conversation views.
package domain

import "time"

// Message is an immutable chat message. IDs are server-assigned and strictly
// increasing, so (Timestamp, ID) is a total order and ID doubles as the
// consumer-side de-duplication key when push and poll overlap.
type Message struct {
	ID        int64     `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSummary is one entry of a user's chat list: a peer and the latest
// message exchanged with that peer. Derived from the flat message set, never
// persisted.
type ChatSummary struct {
	Peer        string   `json:"phoneNumber"`
	LastMessage *Message `json:"lastMessage"`
}

// Less reports whether m sorts before other in conversation order
// (timestamp ascending, ties broken by id).
func (m *Message) Less(other *Message) bool {
	if m.Timestamp.Equal(other.Timestamp) {
		return m.ID < other.ID
	}
	return m.Timestamp.Before(other.Timestamp)
}
