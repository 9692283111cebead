package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	// pepper is loaded lazily from pepperFile, or generated and written
	// there on first use.
	pepper     string
	pepperFile = "pepper"
)

// SetPepperPath configures where the password pepper is stored. Call this
// before the first HashPassword/VerifyPassword.
func SetPepperPath(file string) {
	pepperFile = file
}

// GetPepper returns the process pepper, loading or generating it as needed.
// Failure to obtain a pepper is unrecoverable: hashing without it would
// silently produce incompatible hashes.
func GetPepper() string {
	if pepper != "" {
		return pepper
	}

	var err error
	pepper, err = loadOrGeneratePepper()
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err))
		os.Exit(1)
	}
	return pepper
}

func loadOrGeneratePepper() (string, error) {
	file := filepath.Clean(pepperFile)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		raw := make([]byte, keyLength)
		if _, err := rand.Read(raw); err != nil {
			return "", err
		}
		p := base64.RawURLEncoding.EncodeToString(raw)
		if err := os.WriteFile(file, []byte(p), 0600); err != nil {
			return "", err
		}
		return p, nil
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
