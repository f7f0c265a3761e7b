// Package domain defines the session entity.
package domain

import "time"

// Session binds an opaque identifier to a verified phone identity. Created on
// successful code verification; destroyed on logout or expiry. Multiple
// concurrent sessions per phone are allowed.
type Session struct {
	ID        string
	Phone     string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // nil when not revoked
}

// Active reports whether the session is usable at the given time.
func (s *Session) Active(now time.Time) bool {
	if s == nil || s.RevokedAt != nil {
		return false
	}
	return now.Before(s.ExpiresAt)
}
