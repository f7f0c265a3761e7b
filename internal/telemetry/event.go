// Package telemetry defines the event model and emitter contract for
// best-effort operational telemetry (Kafka, OTel logs).
package telemetry

import (
	"context"
	"time"
)

// Event types emitted by the server.
const (
	EventSessionIssued  = "session_issued"
	EventSessionRevoked = "session_revoked"
	EventMessageStored  = "message_stored"
	EventWSRegister     = "ws_register"
	EventWSUnregister   = "ws_unregister"
)

// Event is a single telemetry record. Serialized as JSON on the Kafka topic
// and mapped to attributes on OTel log records.
type Event struct {
	EventType string            `json:"eventType"`
	Phone     string            `json:"phone,omitempty"`
	Peer      string            `json:"peer,omitempty"`
	SessionID string            `json:"sessionId,omitempty"`
	Source    string            `json:"source,omitempty"` // "http" or "ws"
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// New returns an Event of the given type stamped with the current time.
func New(eventType string) *Event {
	return &Event{EventType: eventType, CreatedAt: time.Now().UTC()}
}

// EventEmitter emits telemetry events. Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}
