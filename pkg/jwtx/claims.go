package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Overridable per-service via configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the token claims used across the service. The subject is the
// user ID. Access tokens additionally carry the user's role so authorization
// never needs a database round trip.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the user's role (USER or ADMIN). Empty on refresh tokens.
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds claims for a short-lived access token.
func NewAccessClaims(userID, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(userID, issuer, ttl, now),
		Role:             role,
	}
}

// NewRefreshClaims builds claims for a long-lived refresh token. The payload
// deliberately carries only the subject.
func NewRefreshClaims(userID, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{RegisteredClaims: registered(userID, issuer, ttl, now)}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateIssuer checks the issuer claim against an expected value. An empty
// expected value enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}
