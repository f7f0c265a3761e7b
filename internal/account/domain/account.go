// Package domain defines the registered-account entity.
package domain

import "time"

// Account is a registered phone identity. The phone number is the sole user
// key; there is no separate user-id indirection.
type Account struct {
	Phone     string
	CodeHash  string // bcrypt hash of the verification code
	CreatedAt time.Time
}
