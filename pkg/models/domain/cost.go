package domain

// CostBreakdown is the monetary cost of a single entry.
type CostBreakdown struct {
	MoneyWon           float64
	TimeCost           float64 // minutes / 60 * hourly rate
	BoundaryPenalty    float64
	MoodPenalty        float64
	ReciprocityPenalty float64
	CostWon            int64 // rounded sum of the components
}

// BenefitBreakdown is the monetary benefit of a single entry.
type BenefitBreakdown struct {
	MoodBenefit        float64
	ReciprocityBenefit float64
	BenefitWon         int64
}
