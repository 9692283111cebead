package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

const testIssuer = "clipboard-test"

func newAuthService(t *testing.T) (*service.AuthService, store.Store) {
	t.Helper()

	st := newTestStore(t)
	tokens := &service.TokenService{
		AccessSigner:  jwtx.NewHS256Signer([]byte("access-secret")),
		RefreshSigner: jwtx.NewHS256Signer([]byte("refresh-secret")),
		Issuer:        testIssuer,
	}
	return &service.AuthService{
		Store:           st,
		Tokens:          tokens,
		RefreshVerifier: jwtx.NewHS256Verifier([]byte("refresh-secret"), testIssuer),
	}, st
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user with USER role and argon2id hash", func(t *testing.T) {
		t.Parallel()
		svc, st := newAuthService(t)
		ctx := context.Background()

		user, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, domain.RoleUser, user.Role)
		require.NotEmpty(t, user.ID)

		stored, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotEqual(t, "s3cret-pass", stored.PasswordHash)
		require.Contains(t, stored.PasswordHash, "$argon2id$")
		require.NoError(t, cryptox.VerifyPassword("s3cret-pass", stored.PasswordHash))
	})

	t.Run("duplicate email returns ErrUserExists", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAuthService(t)
		ctx := context.Background()

		_, err := svc.Register(ctx, "dup@example.com", "One", "password-1")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "dup@example.com", "Two", "password-2")
		require.ErrorIs(t, err, service.ErrUserExists)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials issue tokens and audit rows", func(t *testing.T) {
		t.Parallel()
		svc, st := newAuthService(t)
		ctx := context.Background()

		reg, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")
		require.NoError(t, err)

		user, pair, err := svc.Login(ctx, "alice@example.com", "s3cret-pass", service.LoginMeta{
			UserAgent: "go-test",
			IPAddress: "203.0.113.9",
		})
		require.NoError(t, err)
		require.Equal(t, reg.ID, user.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		// Access token carries sub and role.
		claims, err := jwtx.NewHS256Verifier([]byte("access-secret"), testIssuer).Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, "USER", claims.Role)

		// Session audit row was written.
		sessions, err := st.Sessions().ListSessionsByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		require.Equal(t, "go-test", sessions[0].UserAgent)
		require.Equal(t, "203.0.113.9", sessions[0].IPAddress)

		// Refresh fingerprint, not the raw token, is stored.
		rec, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
		require.NoError(t, err)
		require.Equal(t, user.ID, rec.UserID)
		require.NotEqual(t, pair.RefreshToken, rec.TokenHash)
	})

	t.Run("wrong password and unknown email both map to ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAuthService(t)
		ctx := context.Background()

		_, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "alice@example.com", "wrong", service.LoginMeta{})
		require.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass", service.LoginMeta{})
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("rotation revokes the presented token", func(t *testing.T) {
		t.Parallel()
		svc, st := newAuthService(t)
		ctx := context.Background()

		_, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")
		require.NoError(t, err)
		_, pair, err := svc.Login(ctx, "alice@example.com", "s3cret-pass", service.LoginMeta{})
		require.NoError(t, err)

		user, next, err := svc.Refresh(ctx, pair.RefreshToken, service.LoginMeta{})
		require.NoError(t, err)
		require.NotEmpty(t, next.AccessToken)
		require.NotEqual(t, pair.RefreshToken, next.RefreshToken)
		require.Equal(t, "alice@example.com", user.Email)

		// The old token is now revoked; replaying it fails.
		_, _, err = svc.Refresh(ctx, pair.RefreshToken, service.LoginMeta{})
		require.ErrorIs(t, err, service.ErrInvalidRefresh)

		// The new token still works.
		_, _, err = svc.Refresh(ctx, next.RefreshToken, service.LoginMeta{})
		require.NoError(t, err)

		old, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
		require.NoError(t, err)
		require.True(t, old.Revoked)
	})

	t.Run("garbage and foreign tokens rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAuthService(t)
		ctx := context.Background()

		_, _, err := svc.Refresh(ctx, "not-a-jwt", service.LoginMeta{})
		require.ErrorIs(t, err, service.ErrInvalidRefresh)

		// Well-formed JWT that was never persisted.
		orphan, err := jwtx.NewHS256Signer([]byte("refresh-secret")).Sign(
			jwtx.NewRefreshClaims("some-user", testIssuer, time.Hour, time.Now()),
		)
		require.NoError(t, err)
		_, _, err = svc.Refresh(ctx, orphan, service.LoginMeta{})
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	svc, st := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret-pass")
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "alice@example.com", "s3cret-pass", service.LoginMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	rec, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.NoError(t, err)
	require.True(t, rec.Revoked)

	// Unknown or empty tokens are fine.
	require.NoError(t, svc.Logout(ctx, "unknown-token"))
	require.NoError(t, svc.Logout(ctx, ""))

	// A revoked token can no longer be refreshed.
	_, _, err = svc.Refresh(ctx, pair.RefreshToken, service.LoginMeta{})
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}
