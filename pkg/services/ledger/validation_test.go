package ledger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

var validationNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fieldOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

func TestValidateEntry(t *testing.T) {
	valid := domain.Entry{PersonID: "p1", Date: "2025-06-15", Minutes: 60, Reciprocity: 3}

	tests := []struct {
		name   string
		mutate func(*domain.Entry)
		field  string
	}{
		{name: "valid", mutate: func(*domain.Entry) {}},
		{name: "tomorrow is allowed", mutate: func(e *domain.Entry) { e.Date = "2025-06-16" }},
		{name: "missing person", mutate: func(e *domain.Entry) { e.PersonID = "" }, field: "personId"},
		{name: "empty date", mutate: func(e *domain.Entry) { e.Date = "" }, field: "date"},
		{name: "bad format", mutate: func(e *domain.Entry) { e.Date = "2025/06/15" }, field: "date"},
		{name: "impossible date", mutate: func(e *domain.Entry) { e.Date = "2025-02-30" }, field: "date"},
		{name: "far future", mutate: func(e *domain.Entry) { e.Date = "2025-06-18" }, field: "date"},
		{name: "negative minutes", mutate: func(e *domain.Entry) { e.Minutes = -1 }, field: "minutes"},
		{name: "too many minutes", mutate: func(e *domain.Entry) { e.Minutes = 1441 }, field: "minutes"},
		{name: "negative money", mutate: func(e *domain.Entry) { e.MoneyWon = -1 }, field: "moneyWon"},
		{name: "too much money", mutate: func(e *domain.Entry) { e.MoneyWon = 100_000_001 }, field: "moneyWon"},
		{name: "long note", mutate: func(e *domain.Entry) { e.Note = strings.Repeat("가", 1001) }, field: "note"},
		{name: "mood out of range", mutate: func(e *domain.Entry) { e.MoodDelta = 3 }, field: "moodDelta"},
		{name: "reciprocity zero", mutate: func(e *domain.Entry) { e.Reciprocity = 0 }, field: "reciprocity"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.mutate(&e)
			err := ValidateEntry(e, validationNow)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.field, fieldOf(err))
		})
	}
}

func TestValidatePersonName(t *testing.T) {
	assert.NoError(t, ValidatePersonName("  민수 "))
	assert.NoError(t, ValidatePersonName(strings.Repeat("가", 30)))
	assert.Error(t, ValidatePersonName("   "))
	assert.Error(t, ValidatePersonName(strings.Repeat("가", 31)))
}

func TestValidateMonth(t *testing.T) {
	tests := map[string]bool{
		"":        true,
		"2025-01": true,
		"2100-12": true,
		"2025-13": false,
		"2025-00": false,
		"2019-05": false,
		"2025-1":  false,
		"202501":  false,
	}
	for month, ok := range tests {
		t.Run(month, func(t *testing.T) {
			if ok {
				assert.NoError(t, ValidateMonth(month))
			} else {
				assert.Error(t, ValidateMonth(month))
			}
		})
	}
}

func TestValidate_Events(t *testing.T) {
	l := sampleLedger()

	assert.NoError(t, Validate(l, PlanSet{Plan: domain.PlanPlus}, validationNow))
	assert.Error(t, Validate(l, PlanSet{Plan: "gold"}, validationNow))
	assert.Error(t, Validate(l, TokenSet{}, validationNow))

	negative := int64(-5)
	assert.Equal(t, "hourlyRateWon", fieldOf(Validate(l, SettingsPatch{HourlyRateWon: &negative}, validationNow)))

	assert.ErrorIs(t, Validate(l, PersonDelete{PersonID: "nope"}, validationNow), ErrNotFound)
	assert.ErrorIs(t, Validate(l, EntryDelete{EntryID: "nope"}, validationNow), ErrNotFound)
	assert.ErrorIs(t, Validate(l, EntryUpdate{Entry: domain.Entry{ID: "nope"}}, validationNow), ErrNotFound)

	orphan := EntryAdd{Entry: domain.Entry{ID: "e9", PersonID: "ghost", Date: "2025-06-01", Reciprocity: 3}}
	assert.Equal(t, "personId", fieldOf(Validate(l, orphan, validationNow)))

	dup := PersonAdd{Person: domain.Person{ID: "p1", Name: "again"}}
	assert.Equal(t, "id", fieldOf(Validate(l, dup, validationNow)))

	badCategory := PersonAdd{Person: domain.Person{ID: "p9", Name: "x", Category: "enemy"}}
	assert.Equal(t, "category", fieldOf(Validate(l, badCategory, validationNow)))
}

func TestValidate_PlanLimits(t *testing.T) {
	l := sampleLedger()
	l.People = append(l.People, domain.Person{ID: "p3", Name: "C"})

	err := Validate(l, PersonAdd{Person: domain.Person{ID: "p4", Name: "D"}}, validationNow)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	var le *LimitError
	assert.ErrorAs(t, err, &le)
	assert.Equal(t, 3, le.Limit)

	l.Plan = domain.PlanPro
	assert.NoError(t, Validate(l, PersonAdd{Person: domain.Person{ID: "p4", Name: "D"}}, validationNow))

	l.Plan = domain.PlanFree
	for i := len(l.Entries); i < 30; i++ {
		l.Entries = append(l.Entries, domain.Entry{ID: NewID(), PersonID: "p1", Date: "2025-01-01", Reciprocity: 3})
	}
	add := EntryAdd{Entry: domain.Entry{ID: "new", PersonID: "p1", Date: "2025-06-01", Reciprocity: 3}}
	assert.ErrorIs(t, Validate(l, add, validationNow), ErrLimitExceeded)
	l.Plan = domain.PlanPlus
	assert.NoError(t, Validate(l, add, validationNow))
}

func TestValidate_FreeCoachDailyLimit(t *testing.T) {
	l := sampleLedger()
	l.CoachUsage = domain.CoachUsage{Date: "2025-06-15", Count: 3}

	assert.ErrorIs(t, Validate(l, CoachUsed{Date: "2025-06-15"}, validationNow), ErrLimitExceeded)
	assert.NoError(t, Validate(l, CoachUsed{Date: "2025-06-16"}, validationNow))

	l.Plan = domain.PlanPlus
	assert.NoError(t, Validate(l, CoachUsed{Date: "2025-06-15"}, validationNow))
}

func TestLimits(t *testing.T) {
	assert.Equal(t, LimitCheck{Allowed: true, Limit: 3, Remaining: 1}, CanAddPerson(domain.PlanFree, 2))
	assert.Equal(t, LimitCheck{Allowed: false, Limit: 3, Remaining: 0}, CanAddPerson(domain.PlanFree, 5))
	assert.Equal(t, LimitCheck{Allowed: true, Limit: Unlimited, Remaining: Unlimited}, CanAddEntry(domain.PlanPlus, 500))
	assert.Equal(t, LimitsFor(domain.PlanFree), LimitsFor("unknown"))
	assert.Equal(t, 3, LimitsFor(domain.PlanPlus).AICoachPerMonth)

	assert.Equal(t, 3, CheckFreeCoach(domain.CoachUsage{Date: "2025-01-01", Count: 3}, "2025-01-02").Remaining)
	assert.False(t, CheckFreeCoach(domain.CoachUsage{Date: "2025-01-02", Count: 3}, "2025-01-02").Allowed)
}

func TestValidate_Restore(t *testing.T) {
	validBackup := func() Backup {
		return Backup{
			Settings: domain.DefaultLedger().Settings,
			People:   []domain.Person{{ID: "p1", Name: "민수"}, {ID: "p2", Name: "지영", Category: domain.CategoryWork}},
			Entries: []domain.Entry{
				{ID: "e1", PersonID: "p1", Date: "2025-06-01", Minutes: 60, MoneyWon: 10000, Reciprocity: 3},
				{ID: "e2", PersonID: "p2", Date: "2025-05-01", Reciprocity: 4},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Backup)
		field  string
		limit  bool
	}{
		{name: "valid", mutate: func(*Backup) {}},
		{name: "empty backup", mutate: func(b *Backup) { b.People, b.Entries = nil, nil }},
		{name: "negative minutes", mutate: func(b *Backup) { b.Entries[0].Minutes = -600 }, field: "minutes"},
		{name: "negative money", mutate: func(b *Backup) { b.Entries[0].MoneyWon = -50000 }, field: "moneyWon"},
		{name: "bad date", mutate: func(b *Backup) { b.Entries[1].Date = "not-a-date" }, field: "date"},
		{name: "long note", mutate: func(b *Backup) { b.Entries[1].Note = strings.Repeat("가", 1001) }, field: "note"},
		{name: "mood out of range", mutate: func(b *Backup) { b.Entries[0].MoodDelta = -3 }, field: "moodDelta"},
		{name: "unknown person", mutate: func(b *Backup) { b.Entries[1].PersonID = "ghost" }, field: "personId"},
		{name: "duplicate entry id", mutate: func(b *Backup) { b.Entries[1].ID = "e1" }, field: "id"},
		{name: "duplicate person id", mutate: func(b *Backup) { b.People[1].ID = "p1" }, field: "id"},
		{name: "blank person name", mutate: func(b *Backup) { b.People[0].Name = " " }, field: "name"},
		{name: "unknown category", mutate: func(b *Backup) { b.People[0].Category = "enemy" }, field: "category"},
		{name: "negative hourly rate", mutate: func(b *Backup) { b.Settings.HourlyRateWon = -1 }, field: "hourlyRateWon"},
		{name: "too many people", mutate: func(b *Backup) {
			b.People = append(b.People, domain.Person{ID: "p3", Name: "C"}, domain.Person{ID: "p4", Name: "D"})
		}, limit: true},
		{name: "too many entries", mutate: func(b *Backup) {
			for i := 0; i < 29; i++ {
				b.Entries = append(b.Entries, domain.Entry{ID: NewID(), PersonID: "p1", Date: "2025-01-01", Reciprocity: 3})
			}
		}, limit: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := validBackup()
			tc.mutate(&b)
			err := Validate(domain.DefaultLedger(), Restore{Backup: b}, validationNow)
			switch {
			case tc.limit:
				assert.ErrorIs(t, err, ErrLimitExceeded)
			case tc.field != "":
				assert.Equal(t, tc.field, fieldOf(err), "err: %v", err)
			default:
				assert.NoError(t, err)
			}
		})
	}

	t.Run("paid plan lifts the limits", func(t *testing.T) {
		b := validBackup()
		b.People = append(b.People, domain.Person{ID: "p3", Name: "C"}, domain.Person{ID: "p4", Name: "D"})
		l := domain.DefaultLedger()
		l.Plan = domain.PlanPro
		assert.NoError(t, Validate(l, Restore{Backup: b}, validationNow))
	})
}
