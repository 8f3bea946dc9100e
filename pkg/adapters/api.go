package adapters

import (
	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/privacy"
	"github.com/de-tools/relationship-roi/pkg/services/report"
)

func MapDomainPersonToAPI(p domain.Person) api.Person {
	return api.Person{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		IsClient:  p.IsClient,
		Category:  string(p.Category),
	}
}

func MapDomainEntryToAPI(e domain.Entry) api.Entry {
	return api.Entry(e)
}

func MapAPIEntryRequestToDomain(id string, r api.EntryRequest) domain.Entry {
	return domain.Entry{
		ID:          id,
		PersonID:    r.PersonID,
		Date:        r.Date,
		Minutes:     r.Minutes,
		MoneyWon:    r.MoneyWon,
		MoodDelta:   r.MoodDelta,
		Reciprocity: r.Reciprocity,
		BoundaryHit: r.BoundaryHit,
		Note:        r.Note,
	}
}

func MapAPIPersonRequestToDomain(r api.PersonRequest) domain.Person {
	return domain.Person{
		Name:     r.Name,
		IsClient: r.IsClient,
		Category: domain.PersonCategory(r.Category),
	}
}

// MapDomainLedgerToAPI leaves Limits to the caller.
func MapDomainLedgerToAPI(l domain.Ledger) api.Ledger {
	out := api.Ledger{
		Plan:      string(l.Plan),
		ExpiresAt: l.Entitlement.ExpiresAt,
		Settings: api.Settings{
			HourlyRateWon:        l.Settings.HourlyRateWon,
			AnonymizeOnShare:     l.Settings.AnonymizeOnShare,
			OnboardingCompleted:  l.Settings.OnboardingCompleted,
			OnboardingVersion:    l.Settings.OnboardingVersion,
			ShareSafetyIntroSeen: l.Settings.ShareSafetyIntroSeen,
		},
		People:  make([]api.Person, 0, len(l.People)),
		Entries: make([]api.Entry, 0, len(l.Entries)),
	}
	for _, p := range l.People {
		out.People = append(out.People, MapDomainPersonToAPI(p))
	}
	for _, e := range l.Entries {
		out.Entries = append(out.Entries, MapDomainEntryToAPI(e))
	}
	return out
}

func MapDomainReportToAPI(r domain.Report) api.Report {
	out := api.Report{
		WindowLabel:         r.WindowLabel,
		TimeValuePerHourWon: r.TimeValuePerHourWon,
		Totals: api.ReportTotals{
			Entries:    r.Totals.Entries,
			Minutes:    r.Totals.Minutes,
			MoneyWon:   r.Totals.MoneyWon,
			CostWon:    r.Totals.CostWon,
			BenefitWon: r.Totals.BenefitWon,
			NetWon:     r.Totals.NetWon,
			NetLossWon: r.Totals.NetLossWon,
			RoiPct:     r.Totals.RoiPct,
		},
		People:         make([]api.PersonAggregate, 0, len(r.People)),
		TopCause:       string(r.TopCause),
		TopCauseLabel:  r.TopCauseLabel,
		TopPersonLabel: r.TopPersonLabel,
	}
	for _, p := range r.People {
		out.People = append(out.People, api.PersonAggregate{
			PersonID:       p.PersonID,
			PersonName:     p.PersonName,
			Entries:        p.Entries,
			Minutes:        p.Minutes,
			MoneyWon:       p.MoneyWon,
			CostWon:        p.CostWon,
			BenefitWon:     p.BenefitWon,
			NetWon:         p.NetWon,
			NetLossWon:     p.NetLossWon,
			RoiPct:         p.RoiPct,
			AvgReciprocity: p.AvgReciprocity,
			AvgMoodDelta:   p.AvgMoodDelta,
			BoundaryHits:   p.BoundaryHits,
			TopCause:       string(p.TopCause),
			TopCauseLabel:  report.CauseLabel(p.TopCause),
		})
	}
	return out
}

func MapDomainInsightsToAPI(in []domain.Insight) []api.Insight {
	out := make([]api.Insight, 0, len(in))
	for _, i := range in {
		out = append(out, api.Insight{
			ID:          i.ID,
			Type:        i.Type,
			Icon:        i.Icon,
			Title:       i.Title,
			Description: i.Description,
		})
	}
	return out
}

func MapDomainShareReportToAPI(r domain.ShareSafetyReport) api.ShareSafetyReport {
	out := api.ShareSafetyReport{
		Findings: make([]api.PiiFinding, 0, len(r.Findings)),
		Score:    r.Score,
		Level:    string(r.Level),
		Summary:  r.Summary,
	}
	for _, f := range r.Findings {
		out.Findings = append(out.Findings, api.PiiFinding{
			Type:     string(f.Type),
			Match:    f.Match,
			Index:    f.Index,
			Severity: f.Severity,
			Label:    privacy.FormatFinding(f),
		})
	}
	return out
}

func MapDomainReportSummaryToAPI(s domain.ReportSummary) api.CoachReport {
	return api.CoachReport{
		WindowLabel: s.WindowLabel,
		Totals: api.CoachTotals{
			Minutes:    s.Totals.Minutes,
			MoneyWon:   s.Totals.MoneyWon,
			CostWon:    s.Totals.CostWon,
			BenefitWon: s.Totals.BenefitWon,
			NetLossWon: s.Totals.NetLossWon,
			RoiPct:     s.Totals.RoiPct,
		},
		TopCauseLabel:  s.TopCauseLabel,
		TopPersonLabel: s.TopPersonLabel,
	}
}

func MapAPICoachReportToDomain(r api.CoachReport) domain.ReportSummary {
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

func MapDomainAdviceToAPI(a domain.CoachAdvice) api.CoachAdvice {
	out := api.CoachAdvice{
		Title:      a.Title,
		Diagnosis:  a.Diagnosis,
		Scripts:    make([]api.CoachScript, 0, len(a.Scripts)),
		Next:       append([]string{}, a.Next...),
		Disclaimer: a.Disclaimer,
		Fallback:   a.Fallback,
	}
	for _, s := range a.Scripts {
		out.Scripts = append(out.Scripts, api.CoachScript(s))
	}
	return out
}

func MapDomainVerdictToAPI(v domain.CoachVerdict) api.CoachVerdict {
	out := api.CoachVerdict{
		Title:      v.Title,
		Verdict:    v.Verdict,
		Reasoning:  v.Reasoning,
		Sentences:  make([]api.VerdictSentence, 0, len(v.Sentences)),
		Actions:    append([]string{}, v.Actions...),
		Grade:      string(v.Grade),
		Disclaimer: v.Disclaimer,
	}
	for _, s := range v.Sentences {
		out.Sentences = append(out.Sentences, api.VerdictSentence(s))
	}
	return out
}
