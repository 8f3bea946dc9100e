package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
	}{
		{name: "duckdb in memory", settings: Settings{Driver: DriverDuckDB, DSN: ":memory:"}},
		{name: "default driver on disk", settings: Settings{DSN: filepath.Join(t.TempDir(), "ledger.duckdb")}},
		{name: "sqlite in memory", settings: Settings{Driver: DriverSQLite, DSN: ":memory:"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := tc.settings
			db, err := NewDB(settings)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })

			_, err = db.Exec(
				`INSERT INTO ledger_history (profile, version, people, entries, saved_at) VALUES (?, ?, ?, ?, ?)`,
				"default", 2, 1, 3, time.Now().UTC(),
			)
			require.NoError(t, err)

			var count int
			err = db.QueryRow("SELECT COUNT(*) FROM ledger_history WHERE profile = ?", "default").Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestNewDB_UnknownDriver(t *testing.T) {
	_, err := NewDB(Settings{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported")
}

func TestRebind(t *testing.T) {
	q := "SELECT entry_value FROM kv_entries WHERE entry_key = ? AND expires_at > ?"
	assert.Equal(t, q, Rebind(DriverDuckDB, q))
	assert.Equal(t, q, Rebind(DriverSQLite, q))
	assert.Equal(t, "SELECT entry_value FROM kv_entries WHERE entry_key = $1 AND expires_at > $2", Rebind(DriverPostgres, q))
}

func TestInTransaction(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM kv_entries").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err = InTransaction(context.Background(), db, func(ctx context.Context) error {
			require.NotNil(t, GetTransaction(ctx))
			_, err := Conn(ctx, db).ExecContext(ctx, "DELETE FROM kv_entries")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = InTransaction(context.Background(), db, func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested joins outer transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err = InTransaction(context.Background(), db, func(ctx context.Context) error {
			outer := GetTransaction(ctx)
			return InTransaction(ctx, db, func(inner context.Context) error {
				assert.Same(t, outer, GetTransaction(inner))
				return nil
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
