// Package service implements the session lifecycle: phone check, code
// verification, resolution, and revocation.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	accountdomain "messenger/backend/internal/account/domain"
	"messenger/backend/internal/security"
	sessiondomain "messenger/backend/internal/session/domain"
	"messenger/backend/internal/telemetry"
)

// Sentinel errors for the session service; handlers map them to HTTP statuses
// and WebSocket error frames.
var (
	ErrUnknownPhone = errors.New("phone is not registered")
	ErrInvalidCode  = errors.New("invalid verification code")
	ErrUnauthorized = errors.New("unauthorized")
)

// AccountRepo is the minimal account repository needed by the session service.
type AccountRepo interface {
	GetByPhone(ctx context.Context, phone string) (*accountdomain.Account, error)
	Create(ctx context.Context, a *accountdomain.Account) error
}

// SessionRepo is the minimal session repository needed by the session service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, id string) error
}

// SessionService issues, resolves, and revokes sessions backed by the account
// directory. Session ids are opaque UUIDs; there is deliberately no JWT or
// other self-describing token, so revocation is immediate.
type SessionService struct {
	accounts AccountRepo
	sessions SessionRepo
	hasher   *security.Hasher
	ttl      time.Duration
	emitter  telemetry.EventEmitter
}

// NewSessionService returns a SessionService with the given dependencies.
// emitter may be nil to disable telemetry.
func NewSessionService(accounts AccountRepo, sessions SessionRepo, hasher *security.Hasher, ttl time.Duration, emitter telemetry.EventEmitter) *SessionService {
	return &SessionService{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		ttl:      ttl,
		emitter:  emitter,
	}
}

// RegisterAccount creates (or re-keys) an account with the given verification
// code. Used by startup seeding and cmd/seed.
func (s *SessionService) RegisterAccount(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errors.New("phone is required")
	}
	hash, err := s.hasher.Hash([]byte(code))
	if err != nil {
		return err
	}
	return s.accounts.Create(ctx, &accountdomain.Account{
		Phone:     phone,
		CodeHash:  hash,
		CreatedAt: time.Now().UTC(),
	})
}

// CheckPhone reports whether the phone is registered. No side effects; the
// caller uses the answer to gate whether a code prompt is shown.
func (s *SessionService) CheckPhone(ctx context.Context, phone string) (bool, error) {
	a, err := s.accounts.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

// IssueSession validates the verification code and creates a session.
// Returns ErrUnknownPhone when the phone is not registered and ErrInvalidCode
// when the code does not match.
func (s *SessionService) IssueSession(ctx context.Context, phone, code string) (*sessiondomain.Session, error) {
	phone = strings.TrimSpace(phone)
	a, err := s.accounts.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrUnknownPhone
	}
	if err := s.hasher.Compare(a.CodeHash, []byte(code)); err != nil {
		return nil, ErrInvalidCode
	}
	now := time.Now().UTC()
	sess := &sessiondomain.Session{
		ID:        uuid.New().String(),
		Phone:     phone,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	ev := telemetry.New(telemetry.EventSessionIssued)
	ev.Phone = phone
	ev.SessionID = sess.ID
	ev.Source = "http"
	telemetry.EmitAsync(s.emitter, ctx, ev)
	return sess, nil
}

// ResolveSession returns the phone bound to the session id.
// Returns ErrUnauthorized for unknown, revoked, or expired sessions.
func (s *SessionService) ResolveSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrUnauthorized
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !sess.Active(time.Now().UTC()) {
		return "", ErrUnauthorized
	}
	return sess.Phone, nil
}

// RevokeSession revokes the session. Idempotent; revoking an unknown or
// already-revoked id succeeds silently.
func (s *SessionService) RevokeSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return err
	}
	ev := telemetry.New(telemetry.EventSessionRevoked)
	ev.SessionID = sessionID
	ev.Source = "http"
	telemetry.EmitAsync(s.emitter, ctx, ev)
	return nil
}
