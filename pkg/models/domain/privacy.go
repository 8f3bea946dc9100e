package domain

type PiiType string

const (
	PiiEmail   PiiType = "EMAIL"
	PiiPhone   PiiType = "PHONE"
	PiiURL     PiiType = "URL"
	PiiRRN     PiiType = "RRN"
	PiiCard    PiiType = "CARD"
	PiiAccount PiiType = "ACCOUNT"
	PiiAddress PiiType = "ADDRESS"
	PiiHandle  PiiType = "HANDLE"
	PiiKakao   PiiType = "KAKAO"
)

// PiiFinding is one unique (type, match) hit in scanned text.
type PiiFinding struct {
	Type     PiiType
	Match    string
	Index    int // byte offset of the first occurrence
	Severity int // 1..5
}

type RiskLevel string

const (
	RiskSafe   RiskLevel = "SAFE"
	RiskWarn   RiskLevel = "WARN"
	RiskDanger RiskLevel = "DANGER"
)

type ShareSafetyReport struct {
	Findings []PiiFinding
	Score    int
	Level    RiskLevel
	Summary  string
}

type ChecklistItem struct {
	ID    string
	Label string
	Must  bool
}
