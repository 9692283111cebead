package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/idx"

	"github.com/stretchr/testify/require"
)

const testFrontendURL = "https://app.example.com"

// tokenFromMail pulls the reset token out of the emailed link.
func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	i := strings.Index(body, testFrontendURL+"/auth/reset-password/")
	require.GreaterOrEqual(t, i, 0, "mail body should contain a reset link")
	rest := body[i+len(testFrontendURL+"/auth/reset-password/"):]
	return strings.Fields(rest)[0]
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()

	t.Run("full flow changes the password", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		sender := &capturingSender{}
		resetSvc := &service.ResetService{Store: st, Mail: sender, FrontendURL: testFrontendURL}
		authSvc, _ := newAuthService(t)
		authSvc.Store = st
		ctx := context.Background()

		_, err := authSvc.Register(ctx, "alice@example.com", "Alice", "old-password")
		require.NoError(t, err)

		require.NoError(t, resetSvc.Request(ctx, "alice@example.com"))
		msg := sender.last(t)
		require.Equal(t, "alice@example.com", msg.To)

		token := tokenFromMail(t, msg.Body)
		require.Len(t, token, 64)

		require.NoError(t, resetSvc.Reset(ctx, token, "new-password"))

		_, _, err = authSvc.Login(ctx, "alice@example.com", "old-password", service.LoginMeta{})
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		_, _, err = authSvc.Login(ctx, "alice@example.com", "new-password", service.LoginMeta{})
		require.NoError(t, err)
	})

	t.Run("unknown email is silently accepted and sends nothing", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		sender := &capturingSender{}
		svc := &service.ResetService{Store: st, Mail: sender, FrontendURL: testFrontendURL}

		require.NoError(t, svc.Request(context.Background(), "ghost@example.com"))
		require.Empty(t, sender.sent)
	})

	t.Run("token is single use", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		sender := &capturingSender{}
		resetSvc := &service.ResetService{Store: st, Mail: sender, FrontendURL: testFrontendURL}
		authSvc, _ := newAuthService(t)
		authSvc.Store = st
		ctx := context.Background()

		_, err := authSvc.Register(ctx, "bob@example.com", "Bob", "old-password")
		require.NoError(t, err)
		require.NoError(t, resetSvc.Request(ctx, "bob@example.com"))
		token := tokenFromMail(t, sender.last(t).Body)

		require.NoError(t, resetSvc.Reset(ctx, token, "first-new"))
		err = resetSvc.Reset(ctx, token, "second-new")
		require.ErrorIs(t, err, service.ErrInvalidResetToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		resetSvc := &service.ResetService{Store: st, Mail: &capturingSender{}, FrontendURL: testFrontendURL}
		authSvc, _ := newAuthService(t)
		authSvc.Store = st
		ctx := context.Background()

		_, err := authSvc.Register(ctx, "late@example.com", "Late", "old-password")
		require.NoError(t, err)

		// Seed an already-expired token directly.
		token, err := cryptox.GenerateHexToken(cryptox.TokenSize256)
		require.NoError(t, err)
		now := time.Now().UTC()
		require.NoError(t, st.ResetTokens().CreateResetToken(ctx, domain.PasswordResetToken{
			ID:        idx.New().String(),
			TokenHash: cryptox.FingerprintToken(token),
			Email:     "late@example.com",
			ExpiresAt: now.Add(-time.Minute),
			CreatedAt: now.Add(-2 * time.Hour),
		}))

		err = resetSvc.Reset(ctx, token, "new-password")
		require.ErrorIs(t, err, service.ErrInvalidResetToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		svc := &service.ResetService{Store: st, Mail: &capturingSender{}, FrontendURL: testFrontendURL}

		err := svc.Reset(context.Background(), "deadbeef", "new-password")
		require.ErrorIs(t, err, service.ErrInvalidResetToken)
	})

	t.Run("multiple live tokens can coexist until redeemed", func(t *testing.T) {
		t.Parallel()
		st := newTestStore(t)
		sender := &capturingSender{}
		resetSvc := &service.ResetService{Store: st, Mail: sender, FrontendURL: testFrontendURL}
		authSvc, _ := newAuthService(t)
		authSvc.Store = st
		ctx := context.Background()

		_, err := authSvc.Register(ctx, "multi@example.com", "Multi", "old-password")
		require.NoError(t, err)

		require.NoError(t, resetSvc.Request(ctx, "multi@example.com"))
		first := tokenFromMail(t, sender.last(t).Body)
		require.NoError(t, resetSvc.Request(ctx, "multi@example.com"))
		second := tokenFromMail(t, sender.last(t).Body)
		require.NotEqual(t, first, second)

		// Both redeem independently, each exactly once.
		require.NoError(t, resetSvc.Reset(ctx, first, "pw-one"))
		require.NoError(t, resetSvc.Reset(ctx, second, "pw-two"))
		require.ErrorIs(t, resetSvc.Reset(ctx, first, "pw-three"), service.ErrInvalidResetToken)
	})
}
