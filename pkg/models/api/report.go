package api

type PersonAggregate struct {
	PersonID       string  `json:"personId" yaml:"personId"`
	PersonName     string  `json:"personName" yaml:"personName"`
	Entries        int     `json:"entries" yaml:"entries"`
	Minutes        int64   `json:"minutes" yaml:"minutes"`
	MoneyWon       int64   `json:"moneyWon" yaml:"moneyWon"`
	CostWon        int64   `json:"costWon" yaml:"costWon"`
	BenefitWon     int64   `json:"benefitWon" yaml:"benefitWon"`
	NetWon         int64   `json:"netWon" yaml:"netWon"`
	NetLossWon     int64   `json:"netLossWon" yaml:"netLossWon"`
	RoiPct         int64   `json:"roiPct" yaml:"roiPct"`
	AvgReciprocity float64 `json:"avgReciprocity" yaml:"avgReciprocity"`
	AvgMoodDelta   float64 `json:"avgMoodDelta" yaml:"avgMoodDelta"`
	BoundaryHits   int     `json:"boundaryHits" yaml:"boundaryHits"`
	TopCause       string  `json:"topCause" yaml:"topCause"`
	TopCauseLabel  string  `json:"topCauseLabel" yaml:"topCauseLabel"`
}

type ReportTotals struct {
	Entries    int   `json:"entries" yaml:"entries"`
	Minutes    int64 `json:"minutes" yaml:"minutes"`
	MoneyWon   int64 `json:"moneyWon" yaml:"moneyWon"`
	CostWon    int64 `json:"costWon" yaml:"costWon"`
	BenefitWon int64 `json:"benefitWon" yaml:"benefitWon"`
	NetWon     int64 `json:"netWon" yaml:"netWon"`
	NetLossWon int64 `json:"netLossWon" yaml:"netLossWon"`
	RoiPct     int64 `json:"roiPct" yaml:"roiPct"`
}

type Report struct {
	WindowLabel         string            `json:"windowLabel" yaml:"windowLabel"`
	TimeValuePerHourWon int64             `json:"timeValuePerHourWon" yaml:"timeValuePerHourWon"`
	Totals              ReportTotals      `json:"totals" yaml:"totals"`
	People              []PersonAggregate `json:"people" yaml:"people"`
	TopCause            string            `json:"topCause,omitempty" yaml:"topCause,omitempty"`
	TopCauseLabel       string            `json:"topCauseLabel" yaml:"topCauseLabel"`
	TopPersonLabel      string            `json:"topPersonLabel" yaml:"topPersonLabel"`
}

type Insight struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
