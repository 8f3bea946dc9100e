package domain

type CoachTone string

const (
	ToneCold   CoachTone = "냉정"
	TonePolite CoachTone = "정중"
	ToneWarm   CoachTone = "따뜻"
	ToneHumor  CoachTone = "유머"
	ToneBlunt  CoachTone = "직설"
)

type CoachContext string

const (
	ContextPersonal CoachContext = "personal"
	ContextClient   CoachContext = "client"
)

// ReportSummary is the minimized report that may leave the device: aggregate numbers and
// labels only, never entries, notes or the list of names.
type ReportSummary struct {
	WindowLabel    string
	Totals         SummaryTotals
	TopCauseLabel  string
	TopPersonLabel string
}

type SummaryTotals struct {
	Minutes    int64
	MoneyWon   int64
	CostWon    int64
	BenefitWon int64
	NetLossWon int64
	RoiPct     int64
}

type CoachPayload struct {
	Tone      CoachTone
	Situation string
	Context   CoachContext
	Report    ReportSummary
}

type CoachScript struct {
	Title string
	Text  string
}

// CoachAdvice is the v1 coach result shape returned by the paid endpoint.
type CoachAdvice struct {
	Title      string
	Diagnosis  string
	Scripts    []CoachScript // exactly AdviceScripts after normalization
	Next       []string      // exactly AdviceNextSteps after normalization
	Disclaimer string
	Fallback   bool
}

const (
	AdviceScripts   = 3
	AdviceNextSteps = 4
)

type VerdictGrade string

const (
	GradeGuilty    VerdictGrade = "GUILTY"
	GradeWarning   VerdictGrade = "WARNING"
	GradeProbation VerdictGrade = "PROBATION"
	GradeInnocent  VerdictGrade = "INNOCENT"
)

type VerdictSentence struct {
	Label string
	Text  string
}

// CoachVerdict is the v2 coach result shape produced by the rule-based coach.
type CoachVerdict struct {
	Title      string
	Verdict    string
	Reasoning  string
	Sentences  []VerdictSentence
	Actions    []string
	Grade      VerdictGrade
	Disclaimer string
}
