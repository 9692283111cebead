package store

import (
	"context"
	"errors"

	"github.com/clipboardhq/clipboard/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Sessions() Sessions
	RefreshTokens() RefreshTokens
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
	Sessions() Sessions
	RefreshTokens() RefreshTokens
	ResetTokens() ResetTokens
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the login and OAuth lookup.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates name and avatar_url and bumps updated_at.
	UpdateProfile(ctx context.Context, userID, name, avatarURL string) error

	// UpdateAvatar backfills avatar_url only.
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// DeleteUser cascades to sessions and refresh_tokens (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns one page of users ordered by creation date plus the
	// total user count.
	ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int, error)
}

type Sessions interface {
	// CreateSession appends a login audit record.
	CreateSession(ctx context.Context, s domain.Session) error

	// ListSessionsByUser returns a user's sessions, newest first.
	ListSessionsByUser(ctx context.Context, userID string) ([]domain.Session, error)

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by token fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1 and bumps updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type ResetTokens interface {
	// CreateResetToken stores a freshly issued password reset token.
	CreateResetToken(ctx context.Context, t domain.PasswordResetToken) error

	// GetResetTokenByHash fetches a token by fingerprint when redeeming.
	GetResetTokenByHash(ctx context.Context, hash string) (domain.PasswordResetToken, error)

	// DeleteResetToken removes a consumed token (single use).
	DeleteResetToken(ctx context.Context, id string) error

	// DeleteExpiredResetTokens is housekeeping.
	DeleteExpiredResetTokens(ctx context.Context) error
}
