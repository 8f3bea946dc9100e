package api

type CoachTotals struct {
	Minutes    int64 `json:"minutes"`
	MoneyWon   int64 `json:"moneyWon"`
	CostWon    int64 `json:"costWon"`
	BenefitWon int64 `json:"benefitWon"`
	NetLossWon int64 `json:"netLossWon"`
	RoiPct     int64 `json:"roiPct"`
}

// CoachReport is the only part of a report that is sent to the coach.
type CoachReport struct {
	WindowLabel    string      `json:"windowLabel"`
	Totals         CoachTotals `json:"totals"`
	TopCauseLabel  string      `json:"topCauseLabel"`
	TopPersonLabel string      `json:"topPersonLabel"`
}

type CoachRequest struct {
	Tone      string      `json:"tone"`
	Situation string      `json:"situation"`
	Context   string      `json:"context,omitempty"`
	Report    CoachReport `json:"report"`
}

type CoachScript struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type CoachAdvice struct {
	Title      string        `json:"title"`
	Diagnosis  string        `json:"diagnosis"`
	Scripts    []CoachScript `json:"scripts"`
	Next       []string      `json:"next"`
	Disclaimer string        `json:"disclaimer"`
	Fallback   bool          `json:"fallback,omitempty"`
}

type VerdictSentence struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type CoachVerdict struct {
	Title      string            `json:"title"`
	Verdict    string            `json:"verdict"`
	Reasoning  string            `json:"reasoning"`
	Sentences  []VerdictSentence `json:"sentences"`
	Actions    []string          `json:"actions"`
	Grade      string            `json:"grade"`
	Disclaimer string            `json:"disclaimer"`
}

type LocalCoachRequest struct {
	Situation string `json:"situation"`
	Tone      string `json:"tone"`
	Context   string `json:"context,omitempty"`
	Month     string `json:"month,omitempty"`
}
