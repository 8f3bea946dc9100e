package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/relationship-roi/pkg/adapters"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/models/store"
)

const backupVersion = 1

var ErrInvalidBackup = errors.New("invalid backup")

// Backup is the portable part of a ledger.
type Backup struct {
	Settings domain.Settings
	People   []domain.Person
	Entries  []domain.Entry
}

func ExportJSON(l domain.Ledger, now time.Time) ([]byte, error) {
	doc := store.Backup{
		Version:    backupVersion,
		ExportedAt: now.UTC(),
		Settings:   adapters.MapDomainSettingsToStore(l.Settings),
		People:     adapters.MapDomainPeopleToStore(l.People),
		Entries:    adapters.MapDomainEntriesToStore(l.Entries),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return out, nil
}

var csvHeader = []string{
	"id", "personId", "personName", "date", "minutes", "moneyWon", "moodDelta", "reciprocity", "boundaryHit", "note",
}

// ExportCSV writes entries only. The note column is always quoted.
func ExportCSV(l domain.Ledger) string {
	names := make(map[string]string, len(l.People))
	for _, p := range l.People {
		names[p.ID] = p.Name
	}

	lines := make([]string, 0, len(l.Entries)+1)
	lines = append(lines, strings.Join(csvHeader, ","))
	for _, e := range l.Entries {
		name, ok := names[e.PersonID]
		if !ok || name == "" {
			name = domain.UnknownPersonName
		}
		boundary := "0"
		if e.BoundaryHit {
			boundary = "1"
		}
		lines = append(lines, strings.Join([]string{
			e.ID,
			e.PersonID,
			name,
			e.Date,
			strconv.Itoa(e.Minutes),
			strconv.FormatInt(e.MoneyWon, 10),
			strconv.Itoa(e.MoodDelta),
			strconv.Itoa(e.Reciprocity),
			boundary,
			`"` + strings.ReplaceAll(e.Note, `"`, `""`) + `"`,
		}, ","))
	}
	return strings.Join(lines, "\n")
}

type backupDocument struct {
	Settings *store.Settings `json:"settings"`
	People   *[]store.Person `json:"people"`
	Entries  *[]store.Entry  `json:"entries"`
}

// ImportJSON parses a backup. Settings, people and entries must all be present; every
// person needs an id and every entry an id, person id and date.
func ImportJSON(data []byte) (Backup, error) {
	var doc backupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if doc.Settings == nil || doc.People == nil || doc.Entries == nil {
		return Backup{}, fmt.Errorf("%w: settings, people and entries are required", ErrInvalidBackup)
	}
	for _, p := range *doc.People {
		if p.ID == "" {
			return Backup{}, fmt.Errorf("%w: person without id", ErrInvalidBackup)
		}
	}
	for _, e := range *doc.Entries {
		if e.ID == "" || e.PersonID == "" || e.Date == "" {
			return Backup{}, fmt.Errorf("%w: entry %q is incomplete", ErrInvalidBackup, e.ID)
		}
	}

	return Backup{
		Settings: adapters.MapStoreSettingsToDomain(doc.Settings),
		People:   adapters.MapStorePeopleToDomain(*doc.People),
		Entries:  adapters.MapStoreEntriesToDomain(*doc.Entries),
	}, nil
}
