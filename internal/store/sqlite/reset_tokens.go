package sqlite

import (
	"context"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
)

type resetTokensRepo struct {
	db dbtx
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.PasswordResetToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (id, token_hash, email, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.Email, t.ExpiresAt, t.CreatedAt,
	)
	return mapUnique(err)
}

func (r *resetTokensRepo) GetResetTokenByHash(ctx context.Context, hash string) (domain.PasswordResetToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, email, expires_at, created_at
		FROM password_reset_tokens WHERE token_hash = ?`,
		hash,
	)
	var t domain.PasswordResetToken
	err := row.Scan(&t.ID, &t.TokenHash, &t.Email, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.PasswordResetToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *resetTokensRepo) DeleteResetToken(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
