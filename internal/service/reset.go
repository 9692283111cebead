package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/internal/mail"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/idx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

// ErrInvalidResetToken is returned when a reset token is unknown or past
// its expiry.
var ErrInvalidResetToken = errors.New("invalid_reset_token")

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// ResetService issues and redeems password reset tokens.
type ResetService struct {
	Store       store.Store
	Mail        mail.Sender
	FrontendURL string
}

// Request issues a reset token and emails the link. Unknown emails are
// silently accepted so the endpoint never leaks which addresses exist.
func (s *ResetService) Request(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := cryptox.GenerateHexToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	record := domain.PasswordResetToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		ExpiresAt: now.Add(ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.Store.ResetTokens().CreateResetToken(ctx, record); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/reset-password/%s", s.FrontendURL, token)
	msg := mail.Message{
		To:      email,
		Subject: "Reset your password",
		Body: fmt.Sprintf(
			"We received a request to reset your password.\n\n"+
				"Open the link below to choose a new one. It expires in one hour.\n\n%s\n\n"+
				"If you did not ask for this you can ignore this email.\n",
			link,
		),
	}
	if err := s.Mail.Send(ctx, msg); err != nil {
		return err
	}

	l.Info("password reset issued", slog.String("token_id", record.ID))
	return nil
}

// Reset redeems a token and sets the new password. Tokens are single
// use: redemption deletes the row in the same transaction that updates
// the hash.
func (s *ResetService) Reset(ctx context.Context, token, newPassword string) error {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	fp := cryptox.FingerprintToken(token)

	var userID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.ResetTokens().GetResetTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if now.After(record.ExpiresAt) {
			return ErrInvalidResetToken
		}

		user, err := tx.Users().GetUserByEmail(ctx, record.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		userID = user.ID

		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return tx.ResetTokens().DeleteResetToken(ctx, record.ID)
	})
	if err != nil {
		return err
	}

	l.Info("password reset completed", slog.String("user_id", userID))
	return nil
}
