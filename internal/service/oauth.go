package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/internal/oauth"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/idx"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

// ErrNoEmail is returned when a provider profile has no email and not
// enough identity to synthesize one.
var ErrNoEmail = errors.New("oauth_profile_missing_email")

// OAuthService links provider identities to local accounts.
type OAuthService struct {
	Store store.Store
}

// FindOrCreateUser resolves a provider profile to a local account,
// creating one on first login. Accounts created this way get a random
// placeholder password hash so password login stays impossible until the
// user sets one through the reset flow.
//
// Providers that hide the email (GitHub with a private address) get a
// synthesized per-identity address so the unique email constraint still
// holds.
func (s *OAuthService) FindOrCreateUser(ctx context.Context, profile oauth.Profile) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email := profile.Email
	if email == "" {
		if profile.ProviderID == "" {
			return domain.User{}, ErrNoEmail
		}
		username := profile.Username
		if username == "" {
			username = "user"
		}
		email = fmt.Sprintf("%s.%s@%s.no-reply.com", username, profile.ProviderID, profile.Provider)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		// Backfill the avatar when the account has none yet.
		if user.AvatarURL == "" && profile.AvatarURL != "" {
			if err := s.Store.Users().UpdateAvatar(ctx, user.ID, profile.AvatarURL); err != nil {
				return domain.User{}, err
			}
			user.AvatarURL = profile.AvatarURL
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	placeholder, err := cryptox.GeneratePlaceholderHash()
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	verified := now
	user = domain.User{
		ID:            idx.New().String(),
		Email:         email,
		PasswordHash:  placeholder,
		Name:          profile.Name,
		Role:          domain.RoleUser,
		AvatarURL:     profile.AvatarURL,
		EmailVerified: &verified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent first login for the same identity.
			return s.Store.Users().GetUserByEmail(ctx, email)
		}
		return domain.User{}, err
	}

	l.Info("oauth user created",
		slog.String("user_id", user.ID),
		slog.String("provider", profile.Provider),
	)
	return user, nil
}
