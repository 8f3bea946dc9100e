// Package cost converts a single logged interaction into money.
package cost

import (
	"math"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

const (
	BoundaryPenaltyWon    = 15000
	MoodPenaltyWon        = 12000 // per point of negative mood
	ReciprocityPenaltyWon = 7000  // per point below 3
	MoodBenefitWon        = 10000 // per point of positive mood
	ReciprocityBenefitWon = 6000  // per point above 3
)

// EntryCost returns the cost of e given the value of one hour in won.
func EntryCost(e domain.Entry, hourlyRateWon int64) domain.CostBreakdown {
	b := domain.CostBreakdown{
		MoneyWon: float64(e.MoneyWon),
		TimeCost: float64(e.Minutes) / 60 * float64(hourlyRateWon),
	}
	if e.BoundaryHit {
		b.BoundaryPenalty = BoundaryPenaltyWon
	}
	if e.MoodDelta < 0 {
		b.MoodPenalty = math.Abs(float64(e.MoodDelta)) * MoodPenaltyWon
	}
	if e.Reciprocity <= 2 {
		b.ReciprocityPenalty = float64(3-e.Reciprocity) * ReciprocityPenaltyWon
	}
	b.CostWon = Round(b.MoneyWon + b.TimeCost + b.BoundaryPenalty + b.MoodPenalty + b.ReciprocityPenalty)
	return b
}

// EntryBenefit returns the benefit of e.
func EntryBenefit(e domain.Entry) domain.BenefitBreakdown {
	var b domain.BenefitBreakdown
	if e.MoodDelta > 0 {
		b.MoodBenefit = float64(e.MoodDelta) * MoodBenefitWon
	}
	if e.Reciprocity >= 4 {
		b.ReciprocityBenefit = float64(e.Reciprocity-3) * ReciprocityBenefitWon
	}
	b.BenefitWon = Round(b.MoodBenefit + b.ReciprocityBenefit)
	return b
}

// Round rounds half up toward positive infinity, so -2.5 becomes -2.
func Round(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// RoundTenth rounds v to one decimal place using the same half-up rule.
func RoundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
