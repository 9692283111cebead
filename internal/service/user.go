package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clipboardhq/clipboard/internal/domain"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/slogx"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ProfileUpdate describes a partial profile edit. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Name      *string
	AvatarURL *string
	Password  *string
}

// UserService covers profile reads and edits plus the admin listing.
type UserService struct {
	Store store.Store
}

// GetByID fetches a user's profile.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Update applies a partial profile edit and returns the updated user.
// A password change rehashes through the usual argon2id path.
func (s *UserService) Update(ctx context.Context, userID string, upd ProfileUpdate) (domain.User, error) {
	l := slogx.FromContext(ctx)

	var result domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		name := user.Name
		if upd.Name != nil {
			name = *upd.Name
		}
		avatar := user.AvatarURL
		if upd.AvatarURL != nil {
			avatar = *upd.AvatarURL
		}
		if name != user.Name || avatar != user.AvatarURL {
			if err := tx.Users().UpdateProfile(ctx, userID, name, avatar); err != nil {
				return err
			}
		}

		if upd.Password != nil {
			hash, err := cryptox.HashPassword(*upd.Password)
			if err != nil {
				return err
			}
			if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
				return err
			}
		}

		result, err = tx.Users().GetUserByID(ctx, userID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("profile updated", slog.String("user_id", userID))
	return result, nil
}

// Delete removes the account. Sessions and refresh tokens go with it via
// the schema's cascades.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	l := slogx.FromContext(ctx)

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	l.Info("account deleted", slog.String("user_id", userID))
	return nil
}

// List returns one page of users for the admin view. Page numbers start
// at 1; out-of-range inputs are clamped.
func (s *UserService) List(ctx context.Context, page, limit int) (domain.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	users, total, err := s.Store.Users().ListUsers(ctx, (page-1)*limit, limit)
	if err != nil {
		return domain.UserPage{}, err
	}

	pages := (total + limit - 1) / limit
	return domain.UserPage{
		Users: users,
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}
