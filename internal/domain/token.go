package domain

import "time"

// TokenPair is what the login, OAuth, and refresh flows hand back: a
// short-lived access JWT and a longer-lived refresh JWT.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// RefreshToken models the stored refresh token record. Only the SHA-256
// fingerprint of the token is persisted, never the token itself.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
