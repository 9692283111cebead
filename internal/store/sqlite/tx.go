package sqlite

import (
	"database/sql"

	"github.com/clipboardhq/clipboard/internal/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions           { return &sessionsRepo{db: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{db: t.tx} }
func (t *txStore) ResetTokens() store.ResetTokens     { return &resetTokensRepo{db: t.tx} }
