package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

// Repository persists one ledger snapshot per profile. Load returns the default ledger
// when nothing is stored.
type Repository interface {
	Load(ctx context.Context, profile string) (domain.Ledger, error)
	Save(ctx context.Context, profile string, l domain.Ledger) error
}

type Service interface {
	Get(ctx context.Context, profile string) (domain.Ledger, error)
	// Dispatch validates ev against the stored ledger, applies it and saves the result.
	Dispatch(ctx context.Context, profile string, ev Event) (domain.Ledger, error)
}

type service struct {
	repo Repository
	now  func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository) Service {
	return NewServiceWithClock(repo, time.Now)
}

func NewServiceWithClock(repo Repository, now func() time.Time) Service {
	return &service{repo: repo, now: now, locks: map[string]*sync.Mutex{}}
}

func (s *service) profileLock(profile string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[profile]
	if !ok {
		l = &sync.Mutex{}
		s.locks[profile] = l
	}
	return l
}

func (s *service) Get(ctx context.Context, profile string) (domain.Ledger, error) {
	l, err := s.repo.Load(ctx, profile)
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("failed to load ledger %q: %w", profile, err)
	}
	return l, nil
}

func (s *service) Dispatch(ctx context.Context, profile string, ev Event) (domain.Ledger, error) {
	lock := s.profileLock(profile)
	lock.Lock()
	defer lock.Unlock()

	logger := zerolog.Ctx(ctx).With().Str("profile", profile).Str("event", ev.Name()).Logger()

	current, err := s.Get(ctx, profile)
	if err != nil {
		return domain.Ledger{}, err
	}

	ev = s.prepare(ev)
	if err := Validate(current, ev, s.now()); err != nil {
		logger.Debug().Err(err).Msg("event rejected")
		return domain.Ledger{}, err
	}

	next := Reduce(current, ev)
	if err := s.repo.Save(ctx, profile, next); err != nil {
		return domain.Ledger{}, fmt.Errorf("failed to save ledger %q: %w", profile, err)
	}
	logger.Debug().Int("people", len(next.People)).Int("entries", len(next.Entries)).Msg("event applied")
	return next, nil
}

// prepare assigns ids and timestamps to new records and trims names.
func (s *service) prepare(ev Event) Event {
	switch e := ev.(type) {
	case PersonAdd:
		if e.Person.ID == "" {
			e.Person.ID = NewID()
		}
		if e.Person.CreatedAt.IsZero() {
			e.Person.CreatedAt = s.now().UTC()
		}
		e.Person.Name = strings.TrimSpace(e.Person.Name)
		return e
	case EntryAdd:
		if e.Entry.ID == "" {
			e.Entry.ID = NewID()
		}
		return e
	case CoachUsed:
		if e.Date == "" {
			e.Date = s.now().Format(dateLayout)
		}
		return e
	}
	return ev
}

// NewID returns a lexicographically sortable id.
func NewID() string {
	return strings.ToLower(ulid.Make().String())
}

// Validate checks ev against l: field rules, references and plan limits.
func Validate(l domain.Ledger, ev Event, now time.Time) error {
	switch e := ev.(type) {
	case PlanSet:
		return ValidatePlan(e.Plan)

	case TokenSet:
		if e.Token == "" {
			return invalid("token", "토큰이 비어 있습니다")
		}
		if e.Plan != "" {
			return ValidatePlan(e.Plan)
		}

	case SettingsPatch:
		if e.HourlyRateWon != nil {
			if err := ValidateMoneyWon(*e.HourlyRateWon); err != nil {
				return invalid("hourlyRateWon", "시급은 0원 이상 1억원 이하여야 합니다")
			}
		}

	case PersonAdd:
		if err := ValidatePersonName(e.Person.Name); err != nil {
			return err
		}
		if err := ValidateCategory(e.Person.Category); err != nil {
			return err
		}
		if _, exists := l.FindPerson(e.Person.ID); exists {
			return invalid("id", "이미 존재하는 사람입니다")
		}
		if c := CanAddPerson(l.Plan, len(l.People)); !c.Allowed {
			return &LimitError{Resource: "people", Limit: c.Limit}
		}

	case PersonDelete:
		if _, ok := l.FindPerson(e.PersonID); !ok {
			return fmt.Errorf("person %q: %w", e.PersonID, ErrNotFound)
		}

	case EntryAdd:
		if err := validateEntryRef(l, e.Entry, now); err != nil {
			return err
		}
		if _, exists := l.FindEntry(e.Entry.ID); exists {
			return invalid("id", "이미 존재하는 기록입니다")
		}
		if c := CanAddEntry(l.Plan, len(l.Entries)); !c.Allowed {
			return &LimitError{Resource: "entries", Limit: c.Limit}
		}

	case EntryUpdate:
		if _, ok := l.FindEntry(e.Entry.ID); !ok {
			return fmt.Errorf("entry %q: %w", e.Entry.ID, ErrNotFound)
		}
		return validateEntryRef(l, e.Entry, now)

	case EntryDelete:
		if _, ok := l.FindEntry(e.EntryID); !ok {
			return fmt.Errorf("entry %q: %w", e.EntryID, ErrNotFound)
		}

	case CoachUsed:
		if l.Plan != domain.PlanFree {
			return nil
		}
		if c := CheckFreeCoach(l.CoachUsage, e.Date); !c.Allowed {
			return &LimitError{Resource: "free coach", Limit: c.Limit}
		}

	case Restore:
		return validateBackup(l.Plan, e.Backup, now)
	}
	return nil
}

// validateBackup applies the add rules to a whole backup. The plan is the target ledger's,
// since a restore keeps it.
func validateBackup(plan domain.Plan, b Backup, now time.Time) error {
	if err := ValidateMoneyWon(b.Settings.HourlyRateWon); err != nil {
		return invalid("hourlyRateWon", "시급은 0원 이상 1억원 이하여야 합니다")
	}

	people := make(map[string]struct{}, len(b.People))
	for _, p := range b.People {
		if err := ValidatePersonName(p.Name); err != nil {
			return err
		}
		if err := ValidateCategory(p.Category); err != nil {
			return err
		}
		if _, dup := people[p.ID]; dup || p.ID == "" {
			return invalid("id", "사람 ID가 비어 있거나 중복됩니다")
		}
		people[p.ID] = struct{}{}
	}

	entries := make(map[string]struct{}, len(b.Entries))
	for _, en := range b.Entries {
		if err := ValidateEntry(en, now); err != nil {
			return err
		}
		if _, ok := people[en.PersonID]; !ok {
			return invalid("personId", "존재하지 않는 사람입니다")
		}
		if _, dup := entries[en.ID]; dup || en.ID == "" {
			return invalid("id", "기록 ID가 비어 있거나 중복됩니다")
		}
		entries[en.ID] = struct{}{}
	}

	limits := LimitsFor(plan)
	if limits.MaxPeople != Unlimited && len(b.People) > limits.MaxPeople {
		return &LimitError{Resource: "people", Limit: limits.MaxPeople}
	}
	if limits.MaxEntries != Unlimited && len(b.Entries) > limits.MaxEntries {
		return &LimitError{Resource: "entries", Limit: limits.MaxEntries}
	}
	return nil
}

func validateEntryRef(l domain.Ledger, e domain.Entry, now time.Time) error {
	if err := ValidateEntry(e, now); err != nil {
		return err
	}
	if _, ok := l.FindPerson(e.PersonID); !ok {
		return invalid("personId", "존재하지 않는 사람입니다")
	}
	return nil
}
