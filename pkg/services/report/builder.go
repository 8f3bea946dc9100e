// Package report aggregates ledger entries into a ranked per-person financial report.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/cost"
)

type accumulator struct {
	entries        int
	minutes        int64
	moneyWon       int64
	costWon        int64
	benefitWon     int64
	boundaryHits   int
	sumReciprocity int
	sumMoodDelta   int
}

// Build computes a Report for the ledger. It is pure and recomputes everything on every
// call.
func Build(ledger domain.Ledger, filter domain.ReportFilter) domain.Report {
	rate := ledger.Settings.HourlyRateWon

	names := make(map[string]string, len(ledger.People))
	for _, p := range ledger.People {
		names[p.ID] = p.Name
	}

	acc := map[string]*accumulator{}
	for _, e := range ledger.Entries {
		if !matches(e, filter) {
			continue
		}
		a, ok := acc[e.PersonID]
		if !ok {
			a = &accumulator{}
			acc[e.PersonID] = a
		}
		a.entries++
		a.minutes += int64(e.Minutes)
		a.moneyWon += e.MoneyWon
		a.costWon += cost.EntryCost(e, rate).CostWon
		a.benefitWon += cost.EntryBenefit(e).BenefitWon
		if e.BoundaryHit {
			a.boundaryHits++
		}
		a.sumReciprocity += e.Reciprocity
		a.sumMoodDelta += e.MoodDelta
	}

	people := make([]domain.PersonAggregate, 0, len(acc))
	for personID, a := range acc {
		agg := aggregate(personID, names, a)
		if filter.Cause != "" && agg.TopCause != filter.Cause {
			continue
		}
		people = append(people, agg)
	}

	// Largest loss first. Person id breaks ties so the order does not depend on map
	// iteration or entry insertion order.
	sort.SliceStable(people, func(i, j int) bool {
		if people[i].NetLossWon != people[j].NetLossWon {
			return people[i].NetLossWon > people[j].NetLossWon
		}
		return people[i].PersonID < people[j].PersonID
	})

	var totals domain.ReportTotals
	for _, p := range people {
		totals.Entries += p.Entries
		totals.Minutes += p.Minutes
		totals.MoneyWon += p.MoneyWon
		totals.CostWon += p.CostWon
		totals.BenefitWon += p.BenefitWon
		totals.NetWon += p.NetWon
		totals.NetLossWon += p.NetLossWon
	}
	totals.RoiPct = roiPct(totals.NetWon, totals.CostWon)

	topCause := modeCause(people)
	topPerson := domain.NoDataLabel
	if len(people) > 0 && people[0].PersonName != "" {
		topPerson = people[0].PersonName
	}

	return domain.Report{
		WindowLabel:         windowLabel(filter),
		TimeValuePerHourWon: rate,
		Totals:              totals,
		People:              people,
		TopCause:            topCause,
		TopCauseLabel:       CauseLabel(topCause),
		TopPersonLabel:      topPerson,
	}
}

// matches applies the date range, then the month, then the person filter.
func matches(e domain.Entry, f domain.ReportFilter) bool {
	if f.Range != nil && (e.Date < f.Range.Start || e.Date > f.Range.End) {
		return false
	}
	if f.Month != "" && !strings.HasPrefix(e.Date, f.Month) {
		return false
	}
	if f.PersonID != "" && e.PersonID != f.PersonID {
		return false
	}
	return true
}

func aggregate(personID string, names map[string]string, a *accumulator) domain.PersonAggregate {
	net := a.benefitWon - a.costWon
	name := names[personID]
	if name == "" {
		name = domain.UnknownPersonName
	}

	var avgReciprocity, avgMood float64
	if a.entries > 0 {
		avgReciprocity = float64(a.sumReciprocity) / float64(a.entries)
		avgMood = float64(a.sumMoodDelta) / float64(a.entries)
	}

	agg := domain.PersonAggregate{
		PersonID:       personID,
		PersonName:     name,
		Entries:        a.entries,
		Minutes:        a.minutes,
		MoneyWon:       a.moneyWon,
		CostWon:        a.costWon,
		BenefitWon:     a.benefitWon,
		NetWon:         net,
		NetLossWon:     max(0, -net),
		RoiPct:         roiPct(net, a.costWon),
		AvgReciprocity: cost.RoundTenth(avgReciprocity),
		AvgMoodDelta:   cost.RoundTenth(avgMood),
		BoundaryHits:   a.boundaryHits,
	}
	agg.TopCause = DominantCause(agg)
	return agg
}

func roiPct(net, costWon int64) int64 {
	if costWon <= 0 {
		return 0
	}
	return cost.Round(float64(net) / float64(costWon) * 100)
}

// DominantCause classifies an aggregate. The rules are checked in order and the first
// match wins.
func DominantCause(a domain.PersonAggregate) domain.CauseKey {
	threshold := max(1, int(math.Floor(float64(a.Entries)*0.3)))
	if a.BoundaryHits >= threshold {
		return domain.CauseBoundary
	}
	if a.AvgReciprocity <= 2.2 {
		return domain.CauseReciprocity
	}
	if a.AvgMoodDelta <= -0.6 {
		return domain.CauseMood
	}
	moneyShare := float64(a.MoneyWon) / float64(max(1, a.CostWon))
	if moneyShare >= 0.35 {
		return domain.CauseMoney
	}
	return domain.CauseTime
}

// modeCause returns the most frequent dominant cause. On a tie the cause seen first in
// the ranked list wins; an empty list yields TIME.
func modeCause(people []domain.PersonAggregate) domain.CauseKey {
	counts := map[domain.CauseKey]int{}
	var order []domain.CauseKey
	for _, p := range people {
		if _, seen := counts[p.TopCause]; !seen {
			order = append(order, p.TopCause)
		}
		counts[p.TopCause]++
	}

	top, topN := domain.CauseTime, -1
	for _, k := range order {
		if counts[k] > topN {
			top, topN = k, counts[k]
		}
	}
	return top
}

func windowLabel(f domain.ReportFilter) string {
	switch {
	case f.Range != nil:
		return f.Range.Label
	case f.Month != "":
		return fmt.Sprintf("%s 결산", f.Month)
	default:
		return "전체 결산"
	}
}
