// Package coach produces relationship advice from a minimized report, either from an
// OpenAI-compatible model or from local rules.
package coach

import (
	"slices"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

// MaxSituationRunes bounds the free text included in a prompt.
const MaxSituationRunes = 2000

// serverTones are the tones the model prompt accepts.
var serverTones = []domain.CoachTone{domain.ToneCold, domain.ToneWarm, domain.ToneHumor, domain.ToneBlunt}

// clientTones are the tones the rule-based coach writes sentences for.
var clientTones = []domain.CoachTone{domain.ToneCold, domain.TonePolite, domain.ToneHumor}

// SanitizeTone maps any input to a tone the model prompt accepts. Polite is sent as warm;
// everything unknown becomes cold.
func SanitizeTone(raw string) domain.CoachTone {
	t := ServerTone(domain.CoachTone(strings.TrimSpace(raw)))
	if slices.Contains(serverTones, t) {
		return t
	}
	return domain.ToneCold
}

// ServerTone converts a rule-based coach tone to the model prompt tone.
func ServerTone(t domain.CoachTone) domain.CoachTone {
	if t == domain.TonePolite {
		return domain.ToneWarm
	}
	return t
}

// ClientTone converts a model prompt tone to the closest rule-based coach tone.
func ClientTone(t domain.CoachTone) domain.CoachTone {
	switch t {
	case domain.ToneWarm:
		return domain.TonePolite
	case domain.ToneBlunt:
		return domain.ToneCold
	}
	if slices.Contains(clientTones, t) {
		return t
	}
	return domain.ToneCold
}

func SanitizeContext(raw string) domain.CoachContext {
	if domain.CoachContext(raw) == domain.ContextClient {
		return domain.ContextClient
	}
	return domain.ContextPersonal
}

// Summarize keeps only aggregate numbers and labels of a report.
func Summarize(r domain.Report) domain.ReportSummary {
	return domain.ReportSummary{
		WindowLabel: r.WindowLabel,
		Totals: domain.SummaryTotals{
			Minutes:    r.Totals.Minutes,
			MoneyWon:   r.Totals.MoneyWon,
			CostWon:    r.Totals.CostWon,
			BenefitWon: r.Totals.BenefitWon,
			NetLossWon: r.Totals.NetLossWon,
			RoiPct:     r.Totals.RoiPct,
		},
		TopCauseLabel:  r.TopCauseLabel,
		TopPersonLabel: r.TopPersonLabel,
	}
}

// ToPayload builds the outbound coach request. Entries, notes and the list of names never
// leave the report.
func ToPayload(r domain.Report, situation string, tone domain.CoachTone, ctx domain.CoachContext) domain.CoachPayload {
	return domain.CoachPayload{
		Tone:      tone,
		Situation: situation,
		Context:   ctx,
		Report:    Summarize(r),
	}
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
