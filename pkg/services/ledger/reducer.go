package ledger

import (
	"slices"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

// Reduce applies ev to l and returns the new snapshot. l is never modified; slices are
// copied before they change. Unknown events return l unchanged.
func Reduce(l domain.Ledger, ev Event) domain.Ledger {
	switch e := ev.(type) {
	case PlanSet:
		l.Plan = e.Plan

	case TokenSet:
		l.Plan = e.Plan
		if l.Plan == "" {
			l.Plan = domain.PlanPro
		}
		l.Entitlement = domain.Entitlement{Token: e.Token, ExpiresAt: e.ExpiresAt}

	case TokenUnset:
		l.Plan = domain.PlanFree
		l.Entitlement = domain.Entitlement{}

	case SettingsPatch:
		if e.HourlyRateWon != nil {
			l.Settings.HourlyRateWon = *e.HourlyRateWon
		}
		if e.AnonymizeOnShare != nil {
			l.Settings.AnonymizeOnShare = *e.AnonymizeOnShare
		}
		if e.OnboardingCompleted != nil {
			l.Settings.OnboardingCompleted = *e.OnboardingCompleted
		}
		if e.OnboardingVersion != nil {
			l.Settings.OnboardingVersion = *e.OnboardingVersion
		}
		if e.ShareSafetyIntroSeen != nil {
			l.Settings.ShareSafetyIntroSeen = *e.ShareSafetyIntroSeen
		}

	case PersonAdd:
		l.People = append(slices.Clone(l.People), e.Person)

	case PersonDelete:
		l.People = slices.DeleteFunc(slices.Clone(l.People), func(p domain.Person) bool {
			return p.ID == e.PersonID
		})
		l.Entries = slices.DeleteFunc(slices.Clone(l.Entries), func(en domain.Entry) bool {
			return en.PersonID == e.PersonID
		})

	case EntryAdd:
		entries := make([]domain.Entry, 0, len(l.Entries)+1)
		entries = append(entries, e.Entry)
		l.Entries = append(entries, l.Entries...)

	case EntryUpdate:
		entries := slices.Clone(l.Entries)
		for i := range entries {
			if entries[i].ID == e.Entry.ID {
				entries[i] = e.Entry
			}
		}
		l.Entries = entries

	case EntryDelete:
		l.Entries = slices.DeleteFunc(slices.Clone(l.Entries), func(en domain.Entry) bool {
			return en.ID == e.EntryID
		})

	case CoachUsed:
		if l.CoachUsage.Date == e.Date {
			l.CoachUsage.Count++
		} else {
			l.CoachUsage = domain.CoachUsage{Date: e.Date, Count: 1}
		}

	case Reset:
		return domain.DefaultLedger()

	case Restore:
		l.Settings = e.Backup.Settings
		l.People = slices.Clone(e.Backup.People)
		l.Entries = slices.Clone(e.Backup.Entries)
	}
	return l
}
