package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type captureEmitter struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (c *captureEmitter) Emit(_ context.Context, e *Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return c.err
}

func (c *captureEmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestEmitAsync_NilSafe(t *testing.T) {
	// Must not panic or spawn goroutines.
	EmitAsync(nil, context.Background(), New(EventMessageStored))
	EmitAsync(&captureEmitter{}, context.Background(), nil)
}

func TestEmitAsync_Delivers(t *testing.T) {
	c := &captureEmitter{}
	EmitAsync(c, context.Background(), New(EventSessionIssued))

	deadline := time.Now().Add(2 * time.Second)
	for c.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("event was not delivered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMultiEmitter(t *testing.T) {
	a := &captureEmitter{err: errors.New("boom")}
	b := &captureEmitter{}
	m := MultiEmitter{a, nil, b}

	err := m.Emit(context.Background(), New(EventWSRegister))
	if err == nil {
		t.Error("Emit should surface the first error")
	}
	if a.count() != 1 || b.count() != 1 {
		t.Errorf("both emitters should receive the event, got %d and %d", a.count(), b.count())
	}
}

func TestNew(t *testing.T) {
	e := New(EventWSUnregister)
	if e.EventType != EventWSUnregister {
		t.Errorf("EventType = %q", e.EventType)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}
}
