package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, password_hash, name, role, avatar_url, email_verified, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (domain.User, error) {
	var (
		u        domain.User
		role     string
		verified sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.AvatarURL, &verified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.EmailVerified = mapNullTimePtr(verified)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, avatar_url, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.AvatarURL,
		mapOptionalTime(u.EmailVerified), u.CreatedAt, u.UpdatedAt,
	)
	return mapUnique(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
		name, avatarURL, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`,
		avatarURL, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// requireRow maps zero affected rows to ErrNotFound so update/delete
// against a missing id surfaces consistently.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
