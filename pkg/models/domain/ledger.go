package domain

import "time"

type Plan string

const (
	PlanFree Plan = "free"
	PlanPlus Plan = "plus"
	PlanPro  Plan = "pro"
)

type PersonCategory string

const (
	CategoryPersonal PersonCategory = "personal"
	CategoryWork     PersonCategory = "work"
	CategoryFamily   PersonCategory = "family"
)

// Person is a tracked counterparty.
type Person struct {
	ID        string
	Name      string
	CreatedAt time.Time
	IsClient  bool
	Category  PersonCategory // optional
}

// Entry is one logged interaction with a Person.
type Entry struct {
	ID          string
	PersonID    string
	Date        string // YYYY-MM-DD
	Minutes     int
	MoneyWon    int64
	MoodDelta   int // -2..+2
	Reciprocity int // 1..5
	BoundaryHit bool
	Note        string
}

type Entitlement struct {
	Token     string
	ExpiresAt *time.Time
}

type Settings struct {
	HourlyRateWon        int64
	AnonymizeOnShare     bool
	OnboardingCompleted  bool
	OnboardingVersion    int
	ShareSafetyIntroSeen bool
}

// CoachUsage counts free coach runs for a single day.
type CoachUsage struct {
	Date  string // YYYY-MM-DD
	Count int
}

// Ledger is the persisted snapshot of one profile. Values are treated as immutable:
// updates produce a new Ledger.
type Ledger struct {
	Version     int
	Plan        Plan
	Entitlement Entitlement
	Settings    Settings
	People      []Person
	Entries     []Entry
	CoachUsage  CoachUsage
}

const (
	LedgerVersion        = 2
	DefaultHourlyRateWon = 9860
)

func DefaultLedger() Ledger {
	return Ledger{
		Version: LedgerVersion,
		Plan:    PlanFree,
		Settings: Settings{
			HourlyRateWon:     DefaultHourlyRateWon,
			AnonymizeOnShare:  true,
			OnboardingVersion: 1,
		},
		People:  []Person{},
		Entries: []Entry{},
	}
}

func (l Ledger) FindPerson(id string) (Person, bool) {
	for _, p := range l.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

func (l Ledger) FindEntry(id string) (Entry, bool) {
	for _, e := range l.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
