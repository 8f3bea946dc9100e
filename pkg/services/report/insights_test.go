package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightIDs(in []domain.Insight) []string {
	ids := make([]string, 0, len(in))
	for _, i := range in {
		ids = append(ids, i.ID)
	}
	return ids
}

func TestInsights(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	day := func(offset int) string { return now.AddDate(0, 0, -offset).Format(dateLayout) }

	tests := []struct {
		name     string
		entries  []domain.Entry
		expected []string
	}{
		{
			name:     "no entries this week",
			entries:  []domain.Entry{{ID: "old", Date: day(30), Reciprocity: 3}},
			expected: []string{"no_data"},
		},
		{
			name: "neutral week has no banners",
			entries: []domain.Entry{
				{ID: "a", Date: day(1), Minutes: 30, Reciprocity: 3},
			},
			expected: []string{},
		},
		{
			name: "some boundary hits and good mood",
			entries: []domain.Entry{
				{ID: "a", Date: day(1), BoundaryHit: true, MoodDelta: 2, Reciprocity: 4},
				{ID: "b", Date: day(2), MoodDelta: 1, Reciprocity: 4},
			},
			expected: []string{"boundary_some", "mood_good"},
		},
		{
			name: "capped at three",
			entries: []domain.Entry{
				{ID: "a", Date: day(1), BoundaryHit: true, MoodDelta: -2, Reciprocity: 1, Minutes: 300},
				{ID: "b", Date: day(2), BoundaryHit: true, MoodDelta: -2, Reciprocity: 1, Minutes: 300},
				{ID: "c", Date: day(3), BoundaryHit: true, MoodDelta: -2, Reciprocity: 1, Minutes: 300},
			},
			expected: []string{"boundary_high", "mood_drain", "time_high"},
		},
		{
			name: "boundary increase against last week",
			entries: []domain.Entry{
				{ID: "a", Date: day(1), BoundaryHit: true, Reciprocity: 3},
				{ID: "b", Date: day(2), BoundaryHit: true, Reciprocity: 3},
				{ID: "c", Date: day(10), Reciprocity: 3},
			},
			expected: []string{"boundary_some", "boundary_increase"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := domain.DefaultLedger()
			l.Entries = tc.entries
			assert.Equal(t, tc.expected, insightIDs(Insights(l, now)))
		})
	}
}

func TestInsights_TimeHighDescription(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	l := domain.DefaultLedger()
	l.Settings.HourlyRateWon = 10000
	for i := range 4 {
		l.Entries = append(l.Entries, domain.Entry{
			ID: fmt.Sprintf("e%d", i), Date: now.AddDate(0, 0, -i).Format(dateLayout), Minutes: 150, Reciprocity: 3,
		})
	}

	out := Insights(l, now)
	require.Len(t, out, 1)
	assert.Equal(t, "이번 주 10시간 투자", out[0].Title)
	assert.Contains(t, out[0].Description, "₩100,000")
}

func TestFormatWon(t *testing.T) {
	assert.Equal(t, "0", FormatWon(0))
	assert.Equal(t, "999", FormatWon(999))
	assert.Equal(t, "1,000", FormatWon(1000))
	assert.Equal(t, "1,234,567", FormatWon(1234567))
	assert.Equal(t, "-12,000", FormatWon(-12000))
}
