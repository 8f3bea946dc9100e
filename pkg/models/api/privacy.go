package api

type ShareScanRequest struct {
	Texts []string `json:"texts"`
}

type PiiFinding struct {
	Type     string `json:"type"`
	Match    string `json:"match"`
	Index    int    `json:"index"`
	Severity int    `json:"severity"`
	Label    string `json:"label"`
}

type ShareSafetyReport struct {
	Findings []PiiFinding `json:"findings"`
	Score    int          `json:"score"`
	Level    string       `json:"level"`
	Summary  string       `json:"summary"`
}

// MaskRequest masks PII. Anonymize also replaces known person names; when omitted the
// ledger setting decides.
type MaskRequest struct {
	Text      string `json:"text"`
	Anonymize *bool  `json:"anonymize,omitempty"`
}

type MaskResponse struct {
	Text string `json:"text"`
}
