package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/internal/store/sqlite"
	"github.com/clipboardhq/clipboard/pkg/idx"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "store_test.db")
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(email string) domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Name:         "Test User",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRepo(t *testing.T) {
	t.Parallel()

	t.Run("create and fetch round trip", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		u := newTestUser("alice@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, u))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, domain.RoleUser, got.Role)
		require.Nil(t, got.EmailVerified)

		byEmail, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email maps to ErrAlreadyExists", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		require.NoError(t, s.Users().CreateUser(ctx, newTestUser("dup@example.com")))
		err := s.Users().CreateUser(ctx, newTestUser("dup@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		_, err := s.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.Users().UpdatePasswordHash(ctx, idx.New().String(), "x")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update profile", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		u := newTestUser("bob@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, u))

		require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, "Bobby", "https://cdn.example.com/a.png"))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "Bobby", got.Name)
		require.Equal(t, "https://cdn.example.com/a.png", got.AvatarURL)
	})

	t.Run("list users paginates with total", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			u := newTestUser(string(rune('a'+i)) + "@example.com")
			require.NoError(t, s.Users().CreateUser(ctx, u))
		}

		page, total, err := s.Users().ListUsers(ctx, 0, 2)
		require.NoError(t, err)
		require.Equal(t, 5, total)
		require.Len(t, page, 2)

		last, total, err := s.Users().ListUsers(ctx, 4, 2)
		require.NoError(t, err)
		require.Equal(t, 5, total)
		require.Len(t, last, 1)
	})

	t.Run("delete cascades to sessions and refresh tokens", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		u := newTestUser("cascade@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, u))

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.Sessions().CreateSession(ctx, domain.Session{
			ID:        idx.New().String(),
			UserID:    u.ID,
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
		}))
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: "hash-cascade",
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}))

		require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

		sessions, err := s.Sessions().ListSessionsByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, sessions)

		_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-cascade")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRefreshTokensRepo(t *testing.T) {
	t.Parallel()

	t.Run("revoke flips flag", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		u := newTestUser("refresh@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, u))

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: "hash-1",
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}))

		got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-1")
		require.NoError(t, err)
		require.False(t, got.Revoked)

		require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, "hash-1"))

		got, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-1")
		require.NoError(t, err)
		require.True(t, got.Revoked)
	})

	t.Run("expired cleanup", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		ctx := context.Background()

		u := newTestUser("cleanup@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, u))

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: "hash-old",
			ExpiresAt: now.Add(-time.Hour),
			CreatedAt: now.Add(-2 * time.Hour),
			UpdatedAt: now.Add(-2 * time.Hour),
		}))
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: "hash-live",
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}))

		require.NoError(t, s.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

		_, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-old")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "hash-live")
		require.NoError(t, err)
	})
}

func TestResetTokensRepo(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	tok := domain.PasswordResetToken{
		ID:        idx.New().String(),
		TokenHash: "reset-hash",
		Email:     "reset@example.com",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, s.ResetTokens().CreateResetToken(ctx, tok))

	got, err := s.ResetTokens().GetResetTokenByHash(ctx, "reset-hash")
	require.NoError(t, err)
	require.Equal(t, tok.Email, got.Email)

	require.NoError(t, s.ResetTokens().DeleteResetToken(ctx, tok.ID))

	_, err = s.ResetTokens().GetResetTokenByHash(ctx, "reset-hash")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("tx@example.com")
	errBoom := context.Canceled

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Users().GetUserByEmail(ctx, "tx@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
