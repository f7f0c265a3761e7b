package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	accountrepo "messenger/backend/internal/account/repository"
	"messenger/backend/internal/security"
	sessionrepo "messenger/backend/internal/session/repository"
)

func newTestService(t *testing.T, ttl time.Duration) *SessionService {
	t.Helper()
	svc := NewSessionService(
		accountrepo.NewMemoryRepository(),
		sessionrepo.NewMemoryRepository(),
		security.NewHasher(bcrypt.MinCost),
		ttl,
		nil,
	)
	if err := svc.RegisterAccount(context.Background(), "+375000", "11111"); err != nil {
		t.Fatalf("RegisterAccount: %v", err)
	}
	if err := svc.RegisterAccount(context.Background(), "+375001", "11111"); err != nil {
		t.Fatalf("RegisterAccount: %v", err)
	}
	return svc
}

func TestCheckPhone(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	registered, err := svc.CheckPhone(ctx, "+375000")
	if err != nil {
		t.Fatalf("CheckPhone: %v", err)
	}
	if !registered {
		t.Error("+375000 should be registered")
	}

	registered, err = svc.CheckPhone(ctx, "+375999")
	if err != nil {
		t.Fatalf("CheckPhone: %v", err)
	}
	if registered {
		t.Error("+375999 should not be registered")
	}
}

func TestIssueSession(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, "+375000", "11111")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if sess.ID == "" {
		t.Error("session id should be set")
	}
	if sess.Phone != "+375000" {
		t.Errorf("Phone = %q, want +375000", sess.Phone)
	}
	if !sess.ExpiresAt.After(sess.CreatedAt) {
		t.Error("ExpiresAt should be after CreatedAt")
	}

	if _, err := svc.IssueSession(ctx, "+375000", "22222"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("wrong code: err = %v, want ErrInvalidCode", err)
	}
	if _, err := svc.IssueSession(ctx, "+375999", "11111"); !errors.Is(err, ErrUnknownPhone) {
		t.Errorf("unknown phone: err = %v, want ErrUnknownPhone", err)
	}
}

func TestIssueSession_MultiplePerPhone(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	s1, err := svc.IssueSession(ctx, "+375000", "11111")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	s2, err := svc.IssueSession(ctx, "+375000", "11111")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if s1.ID == s2.ID {
		t.Fatal("concurrent sessions must have distinct ids")
	}
	for _, id := range []string{s1.ID, s2.ID} {
		phone, err := svc.ResolveSession(ctx, id)
		if err != nil || phone != "+375000" {
			t.Errorf("ResolveSession(%q) = %q, %v", id, phone, err)
		}
	}
}

func TestResolveSession_Unauthorized(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.ResolveSession(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("empty id: err = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.ResolveSession(ctx, "no-such-session"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown id: err = %v, want ErrUnauthorized", err)
	}
}

func TestResolveSession_Expired(t *testing.T) {
	svc := newTestService(t, -time.Minute)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, "+375000", "11111")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, sess.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expired session: err = %v, want ErrUnauthorized", err)
	}
}

func TestRevokeSession(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.IssueSession(ctx, "+375000", "11111")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if err := svc.RevokeSession(ctx, sess.ID); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, sess.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("revoked session: err = %v, want ErrUnauthorized", err)
	}

	// Idempotent: revoking again or revoking garbage is fine.
	if err := svc.RevokeSession(ctx, sess.ID); err != nil {
		t.Errorf("second RevokeSession: %v", err)
	}
	if err := svc.RevokeSession(ctx, "no-such-session"); err != nil {
		t.Errorf("RevokeSession of unknown id: %v", err)
	}
	if err := svc.RevokeSession(ctx, ""); err != nil {
		t.Errorf("RevokeSession of empty id: %v", err)
	}
}
