// Package snapshot persists ledger documents, one JSON snapshot per profile, plus an
// append-only history of saves.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/models/store"
	"github.com/de-tools/relationship-roi/pkg/store/database"
	"github.com/rs/zerolog"
)

const loadQuery = `SELECT document FROM ledger_state WHERE profile = ?`

const saveQuery = `
	INSERT INTO ledger_state (profile, version, document, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT (profile) DO UPDATE SET version = excluded.version, document = excluded.document, updated_at = excluded.updated_at`

const historyInsertQuery = `INSERT INTO ledger_history (profile, version, people, entries, saved_at) VALUES (?, ?, ?, ?, ?)`

const historyQuery = `
	SELECT profile, version, people, entries, saved_at FROM ledger_history
	WHERE profile = ? ORDER BY saved_at DESC LIMIT ?`

const profilesQuery = `SELECT profile FROM ledger_state ORDER BY profile`

type Store interface {
	// Load returns the default ledger when the profile has no snapshot or the stored
	// document cannot be decoded.
	Load(ctx context.Context, profile string) (domain.Ledger, error)
	Save(ctx context.Context, profile string, l domain.Ledger) error
	History(ctx context.Context, profile string, limit int) ([]store.StateHistory, error)
	Profiles(ctx context.Context) ([]string, error)
}

type defaultStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

func NewStore(db *sql.DB, driver string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db, driver: driver, now: time.Now}, nil
}

func (s *defaultStore) Load(ctx context.Context, profile string) (domain.Ledger, error) {
	var document string
	err := database.Conn(ctx, s.db).
		QueryRowContext(ctx, database.Rebind(s.driver, loadQuery), profile).
		Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultLedger(), nil
	}
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var doc store.Ledger
	if err := json.Unmarshal([]byte(document), &doc); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("profile", profile).Msg("corrupt ledger snapshot, starting from defaults")
		return domain.DefaultLedger(), nil
	}
	return adapters.MapStoreLedgerToDomain(doc), nil
}

func (s *defaultStore) Save(ctx context.Context, profile string, l domain.Ledger) error {
	doc := adapters.MapDomainLedgerToStore(l)
	doc.Version = domain.LedgerVersion
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	savedAt := s.now().UTC()
	return database.InTransaction(ctx, s.db, func(ctx context.Context) error {
		conn := database.Conn(ctx, s.db)
		if _, err := conn.ExecContext(ctx, database.Rebind(s.driver, saveQuery),
			profile, doc.Version, string(data), savedAt); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		if _, err := conn.ExecContext(ctx, database.Rebind(s.driver, historyInsertQuery),
			profile, doc.Version, len(doc.People), len(doc.Entries), savedAt); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}
		return nil
	})
}

func (s *defaultStore) History(ctx context.Context, profile string, limit int) ([]store.StateHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := database.Conn(ctx, s.db).QueryContext(ctx, database.Rebind(s.driver, historyQuery), profile, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []store.StateHistory
	for rows.Next() {
		var h store.StateHistory
		if err := rows.Scan(&h.Profile, &h.Version, &h.People, &h.Entries, &h.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (s *defaultStore) Profiles(ctx context.Context) ([]string, error) {
	rows, err := database.Conn(ctx, s.db).QueryContext(ctx, profilesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
