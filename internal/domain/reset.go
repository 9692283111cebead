package domain

import "time"

// PasswordResetToken is a single-use, time-boxed token keyed by the account
// email. The row stores the token's fingerprint; the raw 32-byte hex token
// only ever travels inside the emailed reset link.
type PasswordResetToken struct {
	ID        string
	TokenHash string
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
