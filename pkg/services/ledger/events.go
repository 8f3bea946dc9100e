// Package ledger owns the per-profile ledger snapshot: the events that change it, the
// pure reducer that applies them, validation, plan limits and backups.
package ledger

import (
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

// Event is a change request against a ledger.
type Event interface {
	Name() string
}

type PlanSet struct {
	Plan domain.Plan
}

// TokenSet stores an entitlement and upgrades the plan. An empty Plan means pro.
type TokenSet struct {
	Token     string
	Plan      domain.Plan
	ExpiresAt *time.Time
}

type TokenUnset struct{}

// SettingsPatch changes only the non-nil fields.
type SettingsPatch struct {
	HourlyRateWon        *int64
	AnonymizeOnShare     *bool
	OnboardingCompleted  *bool
	OnboardingVersion    *int
	ShareSafetyIntroSeen *bool
}

type PersonAdd struct {
	Person domain.Person
}

// PersonDelete removes the person and every entry that references it.
type PersonDelete struct {
	PersonID string
}

// EntryAdd puts the entry first; entries are kept newest first.
type EntryAdd struct {
	Entry domain.Entry
}

type EntryUpdate struct {
	Entry domain.Entry
}

type EntryDelete struct {
	EntryID string
}

// CoachUsed counts one free coach run on Date.
type CoachUsed struct {
	Date string
}

type Reset struct{}

// Restore replaces settings, people and entries with a backup.
type Restore struct {
	Backup Backup
}

func (PlanSet) Name() string       { return "PLAN_SET" }
func (TokenSet) Name() string      { return "TOKEN_SET" }
func (TokenUnset) Name() string    { return "TOKEN_UNSET" }
func (SettingsPatch) Name() string { return "SETTINGS_PATCH" }
func (PersonAdd) Name() string     { return "PERSON_ADD" }
func (PersonDelete) Name() string  { return "PERSON_DELETE" }
func (EntryAdd) Name() string      { return "ENTRY_ADD" }
func (EntryUpdate) Name() string   { return "ENTRY_UPDATE" }
func (EntryDelete) Name() string   { return "ENTRY_DELETE" }
func (CoachUsed) Name() string     { return "COACH_USED" }
func (Reset) Name() string         { return "RESET" }
func (Restore) Name() string       { return "RESTORE" }
