package domain

// CauseKey classifies the dominant reason a relationship costs money.
type CauseKey string

const (
	CauseBoundary    CauseKey = "BOUNDARY"
	CauseTime        CauseKey = "TIME"
	CauseMoney       CauseKey = "MONEY"
	CauseMood        CauseKey = "MOOD"
	CauseReciprocity CauseKey = "RECIPROCITY"
)

func (c CauseKey) Valid() bool {
	switch c {
	case CauseBoundary, CauseTime, CauseMoney, CauseMood, CauseReciprocity:
		return true
	}
	return false
}

// NoDataLabel is the top person label of a report without people.
const NoDataLabel = "—"

// UnknownPersonName is used for aggregates whose person no longer exists.
const UnknownPersonName = "(unknown)"

type PersonAggregate struct {
	PersonID       string
	PersonName     string
	Entries        int
	Minutes        int64
	MoneyWon       int64
	CostWon        int64
	BenefitWon     int64
	NetWon         int64
	NetLossWon     int64
	RoiPct         int64
	AvgReciprocity float64
	AvgMoodDelta   float64
	BoundaryHits   int
	TopCause       CauseKey
}

type ReportTotals struct {
	Entries    int
	Minutes    int64
	MoneyWon   int64
	CostWon    int64
	BenefitWon int64
	NetWon     int64
	NetLossWon int64
	RoiPct     int64
}

type Report struct {
	WindowLabel         string
	TimeValuePerHourWon int64
	Totals              ReportTotals
	People              []PersonAggregate
	TopCause            CauseKey
	TopCauseLabel       string
	TopPersonLabel      string
}

// ReportRange is an inclusive date window on YYYY-MM-DD strings.
type ReportRange struct {
	Start string
	End   string
	Label string
}

type ReportFilter struct {
	Month    string // YYYY-MM
	Range    *ReportRange
	PersonID string
	Cause    CauseKey
}
