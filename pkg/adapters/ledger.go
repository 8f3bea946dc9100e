package adapters

import (
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/models/store"
)

// MapStoreLedgerToDomain fills anything missing from the stored document with defaults.
func MapStoreLedgerToDomain(s store.Ledger) domain.Ledger {
	l := domain.DefaultLedger()
	if s.Version != 0 {
		l.Version = s.Version
	}
	switch domain.Plan(s.Plan) {
	case domain.PlanFree, domain.PlanPlus, domain.PlanPro:
		l.Plan = domain.Plan(s.Plan)
	case "paid":
		l.Plan = domain.PlanPro
	}
	l.Entitlement = domain.Entitlement{Token: s.Entitlement.Token, ExpiresAt: s.Entitlement.ExpiresAt}
	l.Settings = MapStoreSettingsToDomain(&s.Settings)
	l.People = MapStorePeopleToDomain(s.People)
	l.Entries = MapStoreEntriesToDomain(s.Entries)
	if s.CoachUsage != nil {
		l.CoachUsage = domain.CoachUsage{Date: s.CoachUsage.Date, Count: s.CoachUsage.Count}
	}
	return l
}

func MapDomainLedgerToStore(l domain.Ledger) store.Ledger {
	s := store.Ledger{
		Version:     l.Version,
		Plan:        string(l.Plan),
		Entitlement: store.Entitlement{Token: l.Entitlement.Token, ExpiresAt: l.Entitlement.ExpiresAt},
		Settings:    *MapDomainSettingsToStore(l.Settings),
		People:      MapDomainPeopleToStore(l.People),
		Entries:     MapDomainEntriesToStore(l.Entries),
	}
	if l.CoachUsage.Date != "" {
		s.CoachUsage = &store.CoachUsage{Date: l.CoachUsage.Date, Count: l.CoachUsage.Count}
	}
	return s
}

// MapStoreSettingsToDomain migrates timeValuePerHourWon when hourlyRateWon is absent.
func MapStoreSettingsToDomain(s *store.Settings) domain.Settings {
	out := domain.DefaultLedger().Settings
	if s == nil {
		return out
	}
	switch {
	case s.HourlyRateWon != nil:
		out.HourlyRateWon = *s.HourlyRateWon
	case s.TimeValuePerHourWon != nil:
		out.HourlyRateWon = *s.TimeValuePerHourWon
	}
	if s.AnonymizeOnShare != nil {
		out.AnonymizeOnShare = *s.AnonymizeOnShare
	}
	if s.OnboardingCompleted != nil {
		out.OnboardingCompleted = *s.OnboardingCompleted
	}
	if s.OnboardingVersion != nil {
		out.OnboardingVersion = *s.OnboardingVersion
	}
	if s.ShareSafetyIntroSeen != nil {
		out.ShareSafetyIntroSeen = *s.ShareSafetyIntroSeen
	}
	return out
}

func MapDomainSettingsToStore(s domain.Settings) *store.Settings {
	return &store.Settings{
		HourlyRateWon:        &s.HourlyRateWon,
		AnonymizeOnShare:     &s.AnonymizeOnShare,
		OnboardingCompleted:  &s.OnboardingCompleted,
		OnboardingVersion:    &s.OnboardingVersion,
		ShareSafetyIntroSeen: &s.ShareSafetyIntroSeen,
	}
}

func MapStorePeopleToDomain(in []store.Person) []domain.Person {
	out := make([]domain.Person, 0, len(in))
	for _, p := range in {
		out = append(out, domain.Person{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt,
			IsClient:  p.IsClient,
			Category:  domain.PersonCategory(p.Category),
		})
	}
	return out
}

func MapDomainPeopleToStore(in []domain.Person) []store.Person {
	out := make([]store.Person, 0, len(in))
	for _, p := range in {
		out = append(out, store.Person{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt,
			IsClient:  p.IsClient,
			Category:  string(p.Category),
		})
	}
	return out
}

func MapStoreEntriesToDomain(in []store.Entry) []domain.Entry {
	out := make([]domain.Entry, 0, len(in))
	for _, e := range in {
		out = append(out, domain.Entry(e))
	}
	return out
}

func MapDomainEntriesToStore(in []domain.Entry) []store.Entry {
	out := make([]store.Entry, 0, len(in))
	for _, e := range in {
		out = append(out, store.Entry(e))
	}
	return out
}
