package coach

import (
	"strings"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

// AdviceFromVerdict converts the v2 verdict into the v1 advice shape.
func AdviceFromVerdict(v domain.CoachVerdict) domain.CoachAdvice {
	raw := rawAdvice{
		Title:      v.Title,
		Diagnosis:  strings.TrimSpace(v.Verdict + " " + v.Reasoning),
		Disclaimer: v.Disclaimer,
	}
	scripts := make([]any, 0, len(v.Sentences))
	for _, s := range v.Sentences {
		scripts = append(scripts, map[string]any{"title": s.Label, "text": s.Text})
	}
	next := make([]any, 0, len(v.Actions))
	for _, a := range v.Actions {
		next = append(next, a)
	}
	raw.Scripts = scripts
	raw.Next = next
	return normalize(raw)
}

// VerdictFromAdvice converts v1 advice into the v2 verdict shape. The grade comes from the
// report numbers because advice carries none.
func VerdictFromAdvice(a domain.CoachAdvice, summary domain.ReportSummary) domain.CoachVerdict {
	v := domain.CoachVerdict{
		Title:      a.Title,
		Verdict:    a.Diagnosis,
		Grade:      Grade(summary.Totals.NetLossWon, summary.Totals.RoiPct),
		Disclaimer: a.Disclaimer,
	}
	if i := strings.Index(a.Diagnosis, ". "); i >= 0 {
		v.Verdict = a.Diagnosis[:i+1]
		v.Reasoning = strings.TrimSpace(a.Diagnosis[i+1:])
	}
	for _, s := range a.Scripts {
		if s.Text == "" {
			continue
		}
		v.Sentences = append(v.Sentences, domain.VerdictSentence{Label: s.Title, Text: s.Text})
	}
	for _, n := range a.Next {
		if n != "" {
			v.Actions = append(v.Actions, n)
		}
	}
	return v
}
