package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/idx"
	"github.com/clipboardhq/clipboard/pkg/jwtx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

var (
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrUserNotFound       = errors.New("user_not_found")
)

// LoginMeta carries request metadata recorded on the session audit row.
type LoginMeta struct {
	UserAgent string
	IPAddress string
}

// AuthService owns the credential lifecycle: registration, password
// login, refresh rotation, and logout.
type AuthService struct {
	Store           store.Store
	Tokens          *TokenService
	RefreshVerifier jwtx.Verifier
}

// Register creates a new password-backed account with the USER role.
// The email must not already be taken.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// Login verifies the password and issues a token pair. A session audit
// row and the refresh fingerprint are written in one transaction.
func (s *AuthService) Login(ctx context.Context, email, password string, meta LoginMeta) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	// OAuth-only accounts carry a placeholder hash no password matches.
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.String("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user, meta)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return user, pair, nil
}

// IssueFor mints a token pair for an already-authenticated user. OAuth
// callbacks use it once the provider has vouched for the identity.
func (s *AuthService) IssueFor(ctx context.Context, user domain.User, meta LoginMeta) (domain.TokenPair, error) {
	return s.issue(ctx, user, meta)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued. Revoked, expired, or unknown tokens are rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta LoginMeta) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	claims, err := s.RefreshVerifier.Verify(refreshToken)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, ErrInvalidRefresh
	}

	fp := cryptox.FingerprintToken(refreshToken)

	var (
		user domain.User
		pair domain.TokenPair
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if record.Revoked || now.After(record.ExpiresAt) || record.UserID != claims.Subject {
			return ErrInvalidRefresh
		}

		user, err = tx.Users().GetUserByID(ctx, record.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}

		pair, err = s.Tokens.Generate(user, now)
		if err != nil {
			return err
		}

		return s.persistGrant(ctx, tx, user.ID, pair, meta, now)
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("refresh token rotated", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Logout revokes the presented refresh token. Unknown tokens are ignored
// so logout is always safe to call.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshToken))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (s *AuthService) issue(ctx context.Context, user domain.User, meta LoginMeta) (domain.TokenPair, error) {
	now := time.Now().UTC()

	pair, err := s.Tokens.Generate(user, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return s.persistGrant(ctx, tx, user.ID, pair, meta, now)
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

// persistGrant writes the session audit row and the refresh fingerprint.
func (s *AuthService) persistGrant(ctx context.Context, tx store.Tx, userID string, pair domain.TokenPair, meta LoginMeta, now time.Time) error {
	session := domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: now.Add(pair.RefreshTTL),
		CreatedAt: now,
	}
	if err := tx.Sessions().CreateSession(ctx, session); err != nil {
		return err
	}

	return tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(pair.RefreshToken),
		ExpiresAt: now.Add(pair.RefreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	})
}
