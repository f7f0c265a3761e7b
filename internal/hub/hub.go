// Package hub tracks live WebSocket connections per session and pushes newly
// stored messages to online recipients. The HTTP API remains the
// source-of-truth fallback path; the hub only ever references messages the
// conversation store has already persisted, so push and poll can be merged by
// message id on the consumer side.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"messenger/backend/internal/conversation/domain"
	conversationservice "messenger/backend/internal/conversation/service"
	"messenger/backend/internal/telemetry"
)

// SessionResolver authorizes register and sendMessage frames.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (string, error)
}

// MessageAppender persists messages. Exactly one append happens per logical
// send, so the hub never fabricates two ids for the same message.
type MessageAppender interface {
	AppendMessage(ctx context.Context, from, to, text string) (*domain.Message, error)
}

// Hub is the delivery hub. The registry maps at most one live connection per
// session id (last registration wins) and any number of connections per phone.
type Hub struct {
	sessions      SessionResolver
	conversations MessageAppender
	emitter       telemetry.EventEmitter
	upgrader      websocket.Upgrader

	mu        sync.Mutex
	bySession map[string]*client
	byPhone   map[string]map[*client]struct{}

	activeConns metric.Int64UpDownCounter
	delivered   metric.Int64Counter
}

// New returns a Hub. emitter may be nil to disable telemetry.
func New(sessions SessionResolver, conversations MessageAppender, emitter telemetry.EventEmitter) *Hub {
	meter := otel.Meter("messenger/backend/internal/hub")
	activeConns, _ := meter.Int64UpDownCounter("messenger.ws.active_connections")
	delivered, _ := meter.Int64Counter("messenger.ws.messages_delivered")
	return &Hub{
		sessions:      sessions,
		conversations: conversations,
		emitter:       emitter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		bySession:   make(map[string]*client),
		byPhone:     make(map[string]map[*client]struct{}),
		activeConns: activeConns,
		delivered:   delivered,
	}
}

// HandleWS upgrades the request and serves the connection until it closes.
// A connection failure affects only its own registration.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	h.activeConns.Add(r.Context(), 1)
	go c.writeLoop()
	h.readLoop(r.Context(), c)
	h.activeConns.Add(context.Background(), -1)
}

func (h *Hub) readLoop(ctx context.Context, c *client) {
	defer h.drop(ctx, c)
	c.conn.SetReadLimit(maxFrameBytes)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var f clientFrame
		if err := json.Unmarshal(data, &f); err != nil {
			h.trySend(c, errorFrame(ErrorUnknownFrameType))
			continue
		}
		switch f.Type {
		case FrameRegister:
			if !h.handleRegister(ctx, c, f) {
				return
			}
		case FrameSendMessage:
			h.handleSend(ctx, c, f)
		default:
			h.trySend(c, errorFrame(ErrorUnknownFrameType))
		}
	}
}

// handleRegister binds the connection to the session. On auth failure the
// connection gets an Unauthorized error frame and is closed. Returns false
// when the connection must be torn down.
func (h *Hub) handleRegister(ctx context.Context, c *client, f clientFrame) bool {
	phone, err := h.sessions.ResolveSession(ctx, f.SessionID)
	if err != nil {
		h.trySend(c, errorFrame(ErrorUnauthorized))
		return false
	}

	var evicted *client
	h.mu.Lock()
	if !c.closed {
		if old, ok := h.bySession[f.SessionID]; ok && old != c {
			// Last registration wins.
			h.unregisterLocked(old)
			evicted = old
		}
		if c.sessionID != "" {
			// Re-register on the same connection: move the phone binding.
			h.removeFromPhoneLocked(c)
			delete(h.bySession, c.sessionID)
		}
		c.sessionID = f.SessionID
		c.phone = phone
		h.bySession[f.SessionID] = c
		if h.byPhone[phone] == nil {
			h.byPhone[phone] = make(map[*client]struct{})
		}
		h.byPhone[phone][c] = struct{}{}
	}
	h.mu.Unlock()

	if evicted != nil {
		_ = evicted.conn.Close()
	}

	ev := telemetry.New(telemetry.EventWSRegister)
	ev.Phone = phone
	ev.SessionID = f.SessionID
	ev.Source = "ws"
	telemetry.EmitAsync(h.emitter, ctx, ev)
	log.Debug().Str("phone", phone).Msg("ws connection registered")
	return true
}

// handleSend re-validates the session, stores the message, and fans it out.
// Failures are reported to the sender only; no push happens.
func (h *Hub) handleSend(ctx context.Context, c *client, f clientFrame) {
	phone, err := h.sessions.ResolveSession(ctx, f.SessionID)
	if err != nil {
		h.trySend(c, errorFrame(ErrorUnauthorized))
		return
	}
	msg, err := h.Deliver(ctx, phone, f.To, f.Text, "ws")
	if err != nil {
		if errors.Is(err, conversationservice.ErrEmptyMessage) {
			h.trySend(c, errorFrame(ErrorEmptyMessage))
		} else {
			log.Error().Err(err).Msg("ws send failed")
			h.trySend(c, errorFrame(ErrorInternal))
		}
		return
	}
	// Deliver echoes messageSent to the sender phone's registered
	// connections. If this connection is not among them (never registered,
	// or registered under a different identity), echo directly.
	h.mu.Lock()
	needEcho := c.sessionID == "" || c.phone != phone
	h.mu.Unlock()
	if needEcho {
		h.trySend(c, messageFrame(FrameMessageSent, msg))
	}
}

// Deliver stores one message and pushes it to every connection registered for
// the sender (messageSent) and the recipient (newMessage). It is the single
// delivery path shared by the WebSocket channel and the HTTP fallback, so a
// logical send is persisted exactly once. Recipients that are offline simply
// receive nothing; the poll path covers them.
func (h *Hub) Deliver(ctx context.Context, from, to, text, source string) (*domain.Message, error) {
	msg, err := h.conversations.AppendMessage(ctx, from, to, text)
	if err != nil {
		return nil, err
	}

	sent := messageFrame(FrameMessageSent, msg)
	h.mu.Lock()
	h.pushToPhoneLocked(from, sent)
	if to != from {
		h.pushToPhoneLocked(to, messageFrame(FrameNewMessage, msg))
	}
	h.mu.Unlock()

	h.delivered.Add(ctx, 1)
	ev := telemetry.New(telemetry.EventMessageStored)
	ev.Phone = from
	ev.Peer = to
	ev.Source = source
	telemetry.EmitAsync(h.emitter, ctx, ev)
	return msg, nil
}

// DropSession closes and unregisters the connection bound to the session, if
// any. Called on logout so a revoked session stops receiving pushes.
func (h *Hub) DropSession(sessionID string) {
	h.mu.Lock()
	c := h.bySession[sessionID]
	if c != nil {
		h.unregisterLocked(c)
	}
	h.mu.Unlock()
	if c != nil {
		_ = c.conn.Close()
	}
}

// drop tears down a connection when its read loop ends. Other connections and
// in-flight pushes are unaffected.
func (h *Hub) drop(ctx context.Context, c *client) {
	h.mu.Lock()
	sessionID, phone := c.sessionID, c.phone
	wasRegistered := sessionID != "" && !c.closed
	h.unregisterLocked(c)
	h.mu.Unlock()
	_ = c.conn.Close()

	if wasRegistered {
		ev := telemetry.New(telemetry.EventWSUnregister)
		ev.Phone = phone
		ev.SessionID = sessionID
		ev.Source = "ws"
		telemetry.EmitAsync(h.emitter, ctx, ev)
	}
}

// unregisterLocked removes the client from the registry and closes its send
// queue. Safe to call more than once. Callers hold h.mu.
func (h *Hub) unregisterLocked(c *client) {
	if c.closed {
		return
	}
	if c.sessionID != "" {
		if cur, ok := h.bySession[c.sessionID]; ok && cur == c {
			delete(h.bySession, c.sessionID)
		}
		h.removeFromPhoneLocked(c)
	}
	close(c.send)
	c.closed = true
}

func (h *Hub) removeFromPhoneLocked(c *client) {
	if conns, ok := h.byPhone[c.phone]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.byPhone, c.phone)
		}
	}
}

// pushToPhoneLocked queues payload on every connection registered for phone.
// A connection with a full queue is dropped rather than blocking the hub; the
// client falls back to polling and reconnects. Callers hold h.mu.
func (h *Hub) pushToPhoneLocked(phone string, payload []byte) {
	for c := range h.byPhone[phone] {
		if c.closed {
			continue
		}
		select {
		case c.send <- payload:
		default:
			h.unregisterLocked(c)
		}
	}
}

// trySend queues payload on a single connection, dropping the connection if
// its queue is full.
func (h *Hub) trySend(c *client, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
		h.unregisterLocked(c)
	}
}
