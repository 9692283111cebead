package sqlite

import (
	"context"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.Revoked, t.CreatedAt, t.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, revoked, created_at, updated_at
		FROM refresh_tokens WHERE token_hash = ?`,
		hash,
	)
	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE token_hash = ?`,
		time.Now().UTC(), hash,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}
