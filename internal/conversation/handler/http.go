// Package handler exposes the chat endpoints: conversation list, message
// history, and the HTTP send fallback.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"messenger/backend/internal/conversation/domain"
	"messenger/backend/internal/conversation/service"
	"messenger/backend/internal/httputil"
)

// SessionResolver authenticates requests by their sessionId parameter.
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (string, error)
}

// ConversationReader is the read side of the conversation service.
type ConversationReader interface {
	ListConversations(ctx context.Context, phone string) ([]domain.ChatSummary, error)
	ListMessages(ctx context.Context, a, b string) ([]domain.Message, error)
}

// Deliverer stores a message and pushes it to online recipients. The HTTP
// send fallback goes through the same path as the WebSocket channel, so each
// logical send gets exactly one id.
type Deliverer interface {
	Deliver(ctx context.Context, from, to, text, source string) (*domain.Message, error)
}

type Handler struct {
	sessions      SessionResolver
	conversations ConversationReader
	deliverer     Deliverer
}

func NewHandler(sessions SessionResolver, conversations ConversationReader, deliverer Deliverer) *Handler {
	return &Handler{sessions: sessions, conversations: conversations, deliverer: deliverer}
}

// resolve maps an invalid session to a 401 and reports whether to continue.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, sessionID string) (string, bool) {
	phone, err := h.sessions.ResolveSession(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, httputil.CodeUnauthorized)
		return "", false
	}
	return phone, true
}

// Chats handles GET /api/chats?sessionId=. Conversations are ordered most
// recent first by their last message.
func (h *Handler) Chats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed)
		return
	}
	phone, ok := h.resolve(w, r, r.URL.Query().Get("sessionId"))
	if !ok {
		return
	}
	chats, err := h.conversations.ListConversations(r.Context(), phone)
	if err != nil {
		log.Error().Err(err).Msg("list conversations")
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal)
		return
	}
	if chats == nil {
		chats = []domain.ChatSummary{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

// Messages dispatches /api/messages: GET for history, POST for the send
// fallback.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listMessages(w, r)
	case http.MethodPost:
		h.sendMessage(w, r)
	default:
		httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed)
	}
}

// listMessages handles GET /api/messages?sessionId=&withPhone=. The history
// is the full pair conversation in (timestamp, id) order; which side asks
// does not change the result.
func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.resolve(w, r, r.URL.Query().Get("sessionId"))
	if !ok {
		return
	}
	withPhone := r.URL.Query().Get("withPhone")
	if withPhone == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeMissingParameter)
		return
	}
	msgs, err := h.conversations.ListMessages(r.Context(), phone, withPhone)
	if err != nil {
		log.Error().Err(err).Msg("list messages")
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// sendMessage handles POST /api/messages {sessionId, to, text}. Recipients
// online over WebSocket get the message pushed as well.
func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"sessionId"`
		To        string `json:"to"`
		Text      string `json:"text"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeInvalidJSON)
		return
	}
	phone, ok := h.resolve(w, r, req.SessionID)
	if !ok {
		return
	}
	if req.To == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeMissingParameter)
		return
	}
	msg, err := h.deliverer.Deliver(r.Context(), phone, req.To, req.Text, "http")
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			httputil.WriteError(w, http.StatusBadRequest, httputil.CodeEmptyMessage)
			return
		}
		log.Error().Err(err).Msg("send message")
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{"message": msg})
}
