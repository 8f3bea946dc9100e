package report

import (
	"fmt"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/de-tools/relationship-roi/pkg/services/cost"
)

const maxInsights = 3

func entriesSince(entries []domain.Entry, now time.Time, days int) []domain.Entry {
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour).UTC().Format(dateLayout)
	var out []domain.Entry
	for _, e := range entries {
		if e.Date >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

// Insights produces at most three weekly banners from the last 7 days of entries,
// comparing boundary hits against the preceding week.
func Insights(ledger domain.Ledger, now time.Time) []domain.Insight {
	week := entriesSince(ledger.Entries, now, 7)
	if len(week) == 0 {
		return []domain.Insight{{
			ID:          "no_data",
			Type:        "info",
			Icon:        "📝",
			Title:       "이번 주 기록 없음",
			Description: "기록을 시작하면 인사이트가 생깁니다.",
		}}
	}

	inWeek := make(map[string]struct{}, len(week))
	for _, e := range week {
		inWeek[e.ID] = struct{}{}
	}
	var prevWeek []domain.Entry
	for _, e := range entriesSince(ledger.Entries, now, 14) {
		if _, ok := inWeek[e.ID]; !ok {
			prevWeek = append(prevWeek, e)
		}
	}

	var out []domain.Insight

	boundaryHits := countBoundary(week)
	if boundaryHits >= 3 {
		out = append(out, domain.Insight{
			ID:          "boundary_high",
			Type:        "warning",
			Icon:        "🚨",
			Title:       fmt.Sprintf("이번 주 경계 침해 %d회", boundaryHits),
			Description: "손절 or 규칙 정하기가 필요해 보입니다.",
		})
	} else if boundaryHits > 0 {
		out = append(out, domain.Insight{
			ID:          "boundary_some",
			Type:        "info",
			Icon:        "⚠️",
			Title:       fmt.Sprintf("경계 침해 %d회", boundaryHits),
			Description: "누가, 왜 선을 넘었는지 점검해보세요.",
		})
	}

	var sumMood, sumReciprocity, minutes int
	for _, e := range week {
		sumMood += e.MoodDelta
		sumReciprocity += e.Reciprocity
		minutes += e.Minutes
	}
	avgMood := float64(sumMood) / float64(len(week))
	if avgMood <= -1 {
		out = append(out, domain.Insight{
			ID:          "mood_drain",
			Type:        "warning",
			Icon:        "😞",
			Title:       "감정 소모 심함",
			Description: fmt.Sprintf("평균 기분 변화 %.1f. 에너지 회복이 필요합니다.", avgMood),
		})
	} else if avgMood >= 1 {
		out = append(out, domain.Insight{
			ID:          "mood_good",
			Type:        "success",
			Icon:        "😊",
			Title:       "좋은 한 주!",
			Description: fmt.Sprintf("평균 기분 변화 +%.1f. 이 관계 유지하세요.", avgMood),
		})
	}

	if minutes >= 600 {
		timeCost := cost.Round(float64(minutes) / 60 * float64(ledger.Settings.HourlyRateWon))
		out = append(out, domain.Insight{
			ID:          "time_high",
			Type:        "info",
			Icon:        "⏰",
			Title:       fmt.Sprintf("이번 주 %d시간 투자", cost.Round(float64(minutes)/60)),
			Description: fmt.Sprintf("시간 비용 약 ₩%s. 투자 대비 효율 점검 필요.", FormatWon(timeCost)),
		})
	}

	avgReciprocity := float64(sumReciprocity) / float64(len(week))
	if avgReciprocity <= 2 {
		out = append(out, domain.Insight{
			ID:          "reciprocity_low",
			Type:        "warning",
			Icon:        "⚖️",
			Title:       "일방적 관계 경고",
			Description: fmt.Sprintf("평균 상호성 %.1f/5. 받는 것보다 주는 게 많습니다.", avgReciprocity),
		})
	}

	if len(prevWeek) > 0 {
		prevBoundary := countBoundary(prevWeek)
		if boundaryHits > prevBoundary && boundaryHits >= 2 {
			out = append(out, domain.Insight{
				ID:          "boundary_increase",
				Type:        "warning",
				Icon:        "📈",
				Title:       "경계 침해 증가",
				Description: fmt.Sprintf("지난주 %d회 → 이번 주 %d회. 패턴 확인 필요.", prevBoundary, boundaryHits),
			})
		}
	}

	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

func countBoundary(entries []domain.Entry) int {
	n := 0
	for _, e := range entries {
		if e.BoundaryHit {
			n++
		}
	}
	return n
}

// FormatWon renders an amount with thousands separators.
func FormatWon(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
