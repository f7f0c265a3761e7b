// Package handler exposes the auth endpoints: phone lookup, code
// verification, and logout.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"messenger/backend/internal/httputil"
	"messenger/backend/internal/session/domain"
	"messenger/backend/internal/session/service"
)

// AuthService is the slice of the session service the handlers need.
type AuthService interface {
	CheckPhone(ctx context.Context, phone string) (bool, error)
	IssueSession(ctx context.Context, phone, code string) (*domain.Session, error)
	RevokeSession(ctx context.Context, sessionID string) error
}

// SessionDropper disconnects a session's live WebSocket registration. Logout
// must stop pushes to the revoked session immediately, not at next auth check.
type SessionDropper interface {
	DropSession(sessionID string)
}

type Handler struct {
	svc AuthService
	hub SessionDropper
}

func NewHandler(svc AuthService, hub SessionDropper) *Handler {
	return &Handler{svc: svc, hub: hub}
}

// CheckPhone handles POST /api/auth/check-phone. Unknown phones are a normal
// answer, not an error.
func (h *Handler) CheckPhone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed)
		return
	}
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeInvalidJSON)
		return
	}
	if req.PhoneNumber == "" {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeMissingParameter)
		return
	}
	registered, err := h.svc.CheckPhone(r.Context(), req.PhoneNumber)
	if err != nil {
		log.Error().Err(err).Msg("check phone")
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"registered": registered})
}

// VerifyCode handles POST /api/auth/verify-code. A correct code issues a new
// session; existing sessions for the same phone stay valid.
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed)
		return
	}
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		Code        string `json:"code"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeInvalidJSON)
		return
	}
	sess, err := h.svc.IssueSession(r.Context(), req.PhoneNumber, req.Code)
	switch {
	case errors.Is(err, service.ErrUnknownPhone):
		httputil.WriteJSON(w, http.StatusNotFound, map[string]any{
			"success": false, "error": httputil.CodeUnknownPhone,
		})
		return
	case errors.Is(err, service.ErrInvalidCode):
		httputil.WriteJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false, "error": httputil.CodeInvalidCode,
		})
		return
	case err != nil:
		log.Error().Err(err).Msg("verify code")
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"sessionId":   sess.ID,
		"phoneNumber": sess.Phone,
	})
}

// Logout handles POST /api/auth/logout. Revocation is idempotent and also
// drops the session's live WebSocket connection.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed)
		return
	}
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.CodeInvalidJSON)
		return
	}
	if err := h.svc.RevokeSession(r.Context(), req.SessionID); err != nil {
		log.Error().Err(err).Msg("revoke session")
		httputil.WriteError(w, http.StatusInternalServerError, httputil.CodeInternal)
		return
	}
	if h.hub != nil {
		h.hub.DropSession(req.SessionID)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
