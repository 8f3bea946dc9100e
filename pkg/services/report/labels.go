package report

import (
	"fmt"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

var causeLabels = map[domain.CauseKey]string{
	domain.CauseBoundary:    "추가 비용 발생",
	domain.CauseTime:        "인건비 초과",
	domain.CauseMoney:       "직접 지출",
	domain.CauseMood:        "감정세 부과",
	domain.CauseReciprocity: "투자 효율 저하",
}

func CauseLabel(k domain.CauseKey) string {
	if l, ok := causeLabels[k]; ok {
		return l
	}
	return string(k)
}

const dateLayout = "2006-01-02"

// Presets returns the standard report windows relative to now.
func Presets(now time.Time) []domain.ReportRange {
	today := now.Format(dateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return []domain.ReportRange{
		{Start: now.AddDate(0, 0, -6).Format(dateLayout), End: today, Label: "지난 7일"},
		{Start: now.AddDate(0, 0, -29).Format(dateLayout), End: today, Label: "지난 30일"},
		{Start: monthStart.Format(dateLayout), End: today, Label: "이번 달"},
	}
}

// MonthLabel formats the month filter value for t.
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}
