package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Token size constants (bytes of entropy before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (OAuth state cookies).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (reset tokens, placeholder secrets).
	TokenSize256 = 32
)

// GenerateToken creates a cryptographically secure random token, returned as
// a base64url string without padding.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateHexToken creates a random token encoded as lowercase hex. Password
// reset links use the 32-byte variant (64 hex chars).
func GenerateHexToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token as
// a base64url string. Opaque tokens are stored as fingerprints so a database
// leak does not disclose usable credentials.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
