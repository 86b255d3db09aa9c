package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWeekStart(t *testing.T) {
	midYear := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		title string
		ref   time.Time
		want  time.Time
		ok    bool
	}{
		{
			name:  "full month name",
			title: "Week beginning 26 May",
			ref:   midYear,
			want:  time.Date(2025, time.May, 26, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "three-letter abbreviation",
			title: "Week beginning 9 Jun",
			ref:   midYear,
			want:  time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "case-insensitive heading",
			title: "week BEGINNING 2 JUNE",
			ref:   midYear,
			want:  time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "december reference rolls january forward",
			title: "Week beginning 1 January",
			ref:   time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "january reference rolls december back",
			title: "Week beginning 31 December",
			ref:   time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "february reference rolls november back",
			title: "Week beginning 24 Nov",
			ref:   time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			want:  time.Date(2025, time.November, 24, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			// The adjacency heuristic is deliberately narrow: a month far
			// from the reference still resolves to the reference year.
			name:  "distant month stays in reference year",
			title: "Week beginning 6 October",
			ref:   midYear,
			want:  time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "unmatched heading",
			title: "Invalid format",
			ref:   midYear,
			ok:    false,
		},
		{
			name:  "unknown month name",
			title: "Week beginning 26 Maybe",
			ref:   midYear,
			ok:    false,
		},
		{
			name:  "day does not exist in month",
			title: "Week beginning 31 February",
			ref:   midYear,
			ok:    false,
		},
		{
			name:  "day out of range",
			title: "Week beginning 99 May",
			ref:   midYear,
			ok:    false,
		},
		{
			name:  "empty heading",
			title: "",
			ref:   midYear,
			ok:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveWeekStart(tc.title, tc.ref)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
			}
		})
	}
}
