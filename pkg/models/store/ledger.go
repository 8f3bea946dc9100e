package store

import "time"

// Ledger is the persisted JSON document of one profile. Field names follow the browser
// schema so exported backups stay interchangeable.
type Ledger struct {
	Version     int         `json:"version"`
	Plan        string      `json:"plan"`
	Entitlement Entitlement `json:"entitlement"`
	Settings    Settings    `json:"settings"`
	People      []Person    `json:"people"`
	Entries     []Entry     `json:"entries"`
	CoachUsage  *CoachUsage `json:"coachUsage,omitempty"`
}

type Entitlement struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Settings keeps every field optional so missing values fall back to defaults.
// TimeValuePerHourWon is the pre-v2 name of HourlyRateWon.
type Settings struct {
	HourlyRateWon        *int64 `json:"hourlyRateWon,omitempty"`
	TimeValuePerHourWon  *int64 `json:"timeValuePerHourWon,omitempty"`
	AnonymizeOnShare     *bool  `json:"anonymizeOnShare,omitempty"`
	OnboardingCompleted  *bool  `json:"onboardingCompleted,omitempty"`
	OnboardingVersion    *int   `json:"onboardingVersion,omitempty"`
	ShareSafetyIntroSeen *bool  `json:"shareSafetyIntroSeen,omitempty"`
}

type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	IsClient  bool      `json:"isClient,omitempty"`
	Category  string    `json:"category,omitempty"`
}

type Entry struct {
	ID          string `json:"id"`
	PersonID    string `json:"personId"`
	Date        string `json:"date"`
	Minutes     int    `json:"minutes"`
	MoneyWon    int64  `json:"moneyWon"`
	MoodDelta   int    `json:"moodDelta"`
	Reciprocity int    `json:"reciprocity"`
	BoundaryHit bool   `json:"boundaryHit"`
	Note        string `json:"note"`
}

type CoachUsage struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Backup is the portable export document.
type Backup struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Settings   *Settings `json:"settings"`
	People     []Person  `json:"people"`
	Entries    []Entry   `json:"entries"`
}

// StateHistory is one row of the snapshot audit trail.
type StateHistory struct {
	Profile string
	Version int
	People  int
	Entries int
	SavedAt time.Time
}

// KVEntry is a row of the expiring key-value table.
type KVEntry struct {
	Key       string
	Value     string
	ExpiresAt time.Time
}
