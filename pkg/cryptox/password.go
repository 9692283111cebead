package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. These follow the OWASP minimums for interactive
// logins; changing them does not invalidate existing hashes because each
// PHC string carries its own parameters.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

// ErrPasswordMismatch is returned by VerifyPassword when the password does
// not match the stored hash.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword returns a PHC-format Argon2id hash of password. The salt is
// random per call; the configured pepper is mixed in before hashing.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password+GetPepper()), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares a plaintext password against a PHC-format Argon2id
// hash in constant time. It returns ErrPasswordMismatch on mismatch and a
// descriptive error for malformed hashes.
func VerifyPassword(password, encodedHash string) error {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return errors.New("cryptox: invalid hash format")
	}
	if parts[1] != "argon2id" || parts[2] != "v=19" {
		return errors.New("cryptox: unsupported hash algorithm")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("cryptox: invalid hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("cryptox: invalid salt encoding: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("cryptox: invalid hash encoding: %w", err)
	}

	got := argon2.IDKey([]byte(password+GetPepper()), salt, iters, mem, par, uint32(len(want))) // #nosec G115

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// GeneratePlaceholderHash hashes a random value that is immediately
// discarded. OAuth-created accounts store one of these so the schema's
// password column is satisfied while password login stays impossible.
func GeneratePlaceholderHash() (string, error) {
	secret, err := GenerateToken(TokenSize256)
	if err != nil {
		return "", err
	}
	return HashPassword(secret)
}
