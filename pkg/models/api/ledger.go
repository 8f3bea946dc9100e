package api

import "time"

type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	IsClient  bool      `json:"isClient"`
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

type Settings struct {
	HourlyRateWon        int64 `json:"hourlyRateWon"`
	AnonymizeOnShare     bool  `json:"anonymizeOnShare"`
	OnboardingCompleted  bool  `json:"onboardingCompleted"`
	OnboardingVersion    int   `json:"onboardingVersion"`
	ShareSafetyIntroSeen bool  `json:"shareSafetyIntroSeen"`
}

type Ledger struct {
	Plan      string     `json:"plan"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Settings  Settings   `json:"settings"`
	People    []Person   `json:"people"`
	Entries   []Entry    `json:"entries"`
	Limits    Limits     `json:"limits"`
}

// Limits uses -1 for unlimited.
type Limits struct {
	MaxPeople       int `json:"maxPeople"`
	MaxEntries      int `json:"maxEntries"`
	AICoachPerMonth int `json:"aiCoachPerMonth"`
}

type PersonRequest struct {
	Name     string `json:"name"`
	IsClient bool   `json:"isClient"`
	Category string `json:"category,omitempty"`
}

type EntryRequest struct {
	PersonID    string `json:"personId"`
	Date        string `json:"date"`
	Minutes     int    `json:"minutes"`
	MoneyWon    int64  `json:"moneyWon"`
	MoodDelta   int    `json:"moodDelta"`
	Reciprocity int    `json:"reciprocity"`
	BoundaryHit bool   `json:"boundaryHit"`
	Note        string `json:"note"`
}

type SettingsPatch struct {
	HourlyRateWon        *int64 `json:"hourlyRateWon,omitempty"`
	AnonymizeOnShare     *bool  `json:"anonymizeOnShare,omitempty"`
	OnboardingCompleted  *bool  `json:"onboardingCompleted,omitempty"`
	OnboardingVersion    *int   `json:"onboardingVersion,omitempty"`
	ShareSafetyIntroSeen *bool  `json:"shareSafetyIntroSeen,omitempty"`
}

type EntitlementRequest struct {
	Token string `json:"token"`
}
