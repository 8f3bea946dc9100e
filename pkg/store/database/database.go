package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/marcboeker/go-duckdb/v2"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverDuckDB   = "duckdb"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const LedgerStateSchema = `
	CREATE TABLE IF NOT EXISTS ledger_state (
		profile VARCHAR NOT NULL PRIMARY KEY,
		version INTEGER NOT NULL,
		document TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
`

const LedgerHistorySchema = `
	CREATE TABLE IF NOT EXISTS ledger_history (
		profile VARCHAR NOT NULL,
		version INTEGER NOT NULL,
		people INTEGER NOT NULL,
		entries INTEGER NOT NULL,
		saved_at TIMESTAMP NOT NULL
	);
`

const KVSchema = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		entry_key VARCHAR NOT NULL PRIMARY KEY,
		entry_value TEXT NOT NULL,
		expires_at BIGINT NOT NULL
	);
`

var bootQueries = []string{
	LedgerStateSchema,
	LedgerHistorySchema,
	KVSchema,
}

type Settings struct {
	Driver string
	DSN    string
}

// NewDB opens the database and creates the tables. DuckDB runs the boot queries on every
// new connection; the other drivers run them once.
func NewDB(settings Settings) (*sql.DB, error) {
	switch settings.Driver {
	case "", DriverDuckDB:
		return newDuckDB(settings.DSN)
	case DriverSQLite:
		db, err := sql.Open(DriverSQLite, settings.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// in-memory sqlite databases are per connection
		db.SetMaxOpenConns(1)
		return boot(db)
	case DriverPostgres:
		db, err := sql.Open(DriverPostgres, settings.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return boot(db)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", settings.Driver)
	}
}

func newDuckDB(path string) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", path), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(c), nil
}

func boot(db *sql.DB) (*sql.DB, error) {
	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("boot query: %w", err)
		}
	}
	return db, nil
}

// Rebind rewrites ? placeholders to $n for postgres.
func Rebind(driverName, query string) string {
	if driverName != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
