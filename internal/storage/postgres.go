package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const sessionSchema = `
	CREATE TABLE IF NOT EXISTS client_sessions (
		profile    TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (profile, key)
	)
`

type sessionRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// PostgresStore keeps the pair as two rows of client_sessions, written in
// one transaction.
type PostgresStore struct {
	db      *sqlx.DB
	profile string
}

// NewPostgresStore creates a store for the given profile.
// Call EnsureSchema once before first use.
func NewPostgresStore(db *sqlx.DB, profile string) *PostgresStore {
	if profile == "" {
		profile = "default"
	}
	return &PostgresStore{db: db, profile: profile}
}

// EnsureSchema creates the client_sessions table if needed.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sessionSchema); err != nil {
		return fmt.Errorf("create client_sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (string, []byte, error) {
	query := `SELECT key, value FROM client_sessions WHERE profile = $1 AND key IN ($2, $3)`

	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, query, s.profile, KeyToken, KeyUser); err != nil {
		return "", nil, fmt.Errorf("%w: select session: %w", ErrStoreUnavailable, err)
	}

	var token string
	var user []byte
	for _, r := range rows {
		switch r.Key {
		case KeyToken:
			token = r.Value
		case KeyUser:
			user = []byte(r.Value)
		}
	}
	return token, user, nil
}

func (s *PostgresStore) Save(ctx context.Context, token string, user []byte) error {
	query := `
		INSERT INTO client_sessions (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, s.profile, KeyToken, token); err != nil {
			return fmt.Errorf("upsert token: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, s.profile, KeyUser, string(user)); err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	query := `DELETE FROM client_sessions WHERE profile = $1 AND key IN ($2, $3)`

	if _, err := s.db.ExecContext(ctx, query, s.profile, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("%w: delete session: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}
