package ledger

import (
	"errors"
	"fmt"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

// Unlimited marks a limit without a cap.
const Unlimited = -1

// FreeCoachDailyLimit is how many rule-based coach runs the free plan gets per day.
const FreeCoachDailyLimit = 3

var ErrLimitExceeded = errors.New("plan limit exceeded")

type PlanLimits struct {
	MaxPeople       int
	MaxEntries      int
	AICoachPerMonth int
}

var planLimits = map[domain.Plan]PlanLimits{
	domain.PlanFree: {MaxPeople: 3, MaxEntries: 30, AICoachPerMonth: 0},
	domain.PlanPlus: {MaxPeople: 10, MaxEntries: Unlimited, AICoachPerMonth: 3},
	domain.PlanPro:  {MaxPeople: Unlimited, MaxEntries: Unlimited, AICoachPerMonth: Unlimited},
}

// LimitsFor falls back to the free plan for unknown plans.
func LimitsFor(plan domain.Plan) PlanLimits {
	if l, ok := planLimits[plan]; ok {
		return l
	}
	return planLimits[domain.PlanFree]
}

type LimitCheck struct {
	Allowed   bool
	Limit     int
	Remaining int
}

func check(limit, current int) LimitCheck {
	if limit == Unlimited {
		return LimitCheck{Allowed: true, Limit: Unlimited, Remaining: Unlimited}
	}
	return LimitCheck{Allowed: current < limit, Limit: limit, Remaining: max(0, limit-current)}
}

func CanAddPerson(plan domain.Plan, current int) LimitCheck {
	return check(LimitsFor(plan).MaxPeople, current)
}

func CanAddEntry(plan domain.Plan, current int) LimitCheck {
	return check(LimitsFor(plan).MaxEntries, current)
}

// CheckFreeCoach reports the remaining free coach runs for today. Usage recorded on another
// day counts as zero.
func CheckFreeCoach(usage domain.CoachUsage, today string) LimitCheck {
	used := 0
	if usage.Date == today {
		used = usage.Count
	}
	return check(FreeCoachDailyLimit, used)
}

// LimitError says which limit was hit.
type LimitError struct {
	Resource string
	Limit    int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit of %d reached", e.Resource, e.Limit)
}

func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}
