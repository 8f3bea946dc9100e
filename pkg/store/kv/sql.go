package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/relationship-roi/pkg/store/database"
)

const getQuery = `SELECT entry_value FROM kv_entries WHERE entry_key = ? AND expires_at > ?`

const putQuery = `
	INSERT INTO kv_entries (entry_key, entry_value, expires_at) VALUES (?, ?, ?)
	ON CONFLICT (entry_key) DO UPDATE SET entry_value = excluded.entry_value, expires_at = excluded.expires_at`

const purgeQuery = `DELETE FROM kv_entries WHERE expires_at <= ?`

// SQLStore keeps entries in the kv_entries table. Expiry is stored as unix milliseconds.
type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &SQLStore{db: db, driver: driver, now: time.Now}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := database.Conn(ctx, s.db).
		QueryRowContext(ctx, database.Rebind(s.driver, getQuery), key, s.now().UnixMilli()).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).UnixMilli()
	if _, err := database.Conn(ctx, s.db).ExecContext(ctx, database.Rebind(s.driver, putQuery), key, value, expiresAt); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Purge(ctx context.Context) (int64, error) {
	res, err := database.Conn(ctx, s.db).ExecContext(ctx, database.Rebind(s.driver, purgeQuery), s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge expired keys: %w", err)
	}
	return res.RowsAffected()
}
