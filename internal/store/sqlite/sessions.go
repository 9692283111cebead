package sqlite

import (
	"context"
	"time"

	"github.com/clipboardhq/clipboard/internal/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, user_agent, ip_address, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.UserAgent, s.IPAddress, s.ExpiresAt, s.CreatedAt,
	)
	return err
}

func (r *sessionsRepo) ListSessionsByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, user_agent, ip_address, expires_at, created_at
		FROM sessions WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserAgent, &s.IPAddress, &s.ExpiresAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
