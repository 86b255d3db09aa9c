package feed

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velocal/internal/schedule"
)

func debugFixture() schedule.WeeklySchedule {
	return schedule.WeeklySchedule{
		{
			Title: "Week beginning 26 May",
			Days: schedule.DaySchedule{
				"Monday":  "09:00-16:00 (Bank Holiday)",
				"Tuesday": "07:00 to 19:00", // digits but no parseable window
				"Friday":  "18:00-07:00",    // inverted window
				"Sunday":  "Closed",
			},
		},
		{
			Title: "Track resurfacing notice",
			Days: schedule.DaySchedule{
				"Monday": "07:00-21:00",
			},
		},
	}
}

func TestBuildDebugReport(t *testing.T) {
	report := BuildDebug(debugFixture(), schedule.GenerateOptions{
		Reference:    time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		IncludeNotes: true,
		WeeksAhead:   10,
	})

	require.Len(t, report.Weeks, 2)
	assert.Equal(t, 2, report.WeekCount)
	assert.Equal(t, 10, report.WeeksAhead)

	resolved := report.Weeks[0]
	require.NotNil(t, resolved.WeekStart)
	assert.Equal(t, "2025-05-26", *resolved.WeekStart)
	require.Len(t, resolved.Days, 4)

	monday := resolved.Days[0]
	assert.Equal(t, "Monday", monday.Day)
	assert.Equal(t, "09:00-16:00 (Bank Holiday)", monday.Raw)
	require.NotNil(t, monday.Date)
	assert.Equal(t, "2025-05-26", *monday.Date)
	assert.Equal(t, []schedule.TimeWindow{{Start: "09:00", End: "16:00"}}, monday.Windows)
	assert.Equal(t, "(Bank Holiday)", monday.Notes)

	// Days keep weekday order, so Sunday is last and parsed to no windows.
	sunday := resolved.Days[3]
	assert.Equal(t, "Sunday", sunday.Day)
	assert.Empty(t, sunday.Windows)

	unresolved := report.Weeks[1]
	assert.Nil(t, unresolved.WeekStart)
	require.Len(t, unresolved.Days, 1)
	assert.Nil(t, unresolved.Days[0].Date)

	// Monday + inverted Friday generate; the unresolvable week contributes
	// nothing.
	assert.Equal(t, 2, report.EventCount)
	require.Len(t, report.CalendarEvents, 2)
	assert.Equal(t, "2025-05-26", report.CalendarEvents[0].Date)
	assert.Equal(t, "velopark-20250526-0900-0@leovalley.org.uk", report.CalendarEvents[0].UID)

	// Window counting covers every supplied day, including the week whose
	// heading never resolved.
	assert.Equal(t, 3, report.WindowCount)
}

func TestBuildDebugAnomalies(t *testing.T) {
	report := BuildDebug(debugFixture(), schedule.GenerateOptions{
		Reference:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		WeeksAhead: 8,
	})

	joined := strings.Join(report.Anomalies, "\n")
	assert.Contains(t, joined, `"07:00 to 19:00" contains digits but parsed to no windows`)
	assert.Contains(t, joined, "window 18:00-07:00 ends at or before it starts")
	assert.Contains(t, joined, `week "Track resurfacing notice": heading did not resolve`)

	// A closed day is not an anomaly.
	assert.NotContains(t, joined, "Sunday")
}

func TestBuildDebugCleanScheduleHasNoAnomalies(t *testing.T) {
	sched := schedule.WeeklySchedule{
		{
			Title: "Week beginning 2 June",
			Days: schedule.DaySchedule{
				"Monday": "07:00-21:00",
				"Sunday": "Closed",
			},
		},
	}

	report := BuildDebug(sched, schedule.GenerateOptions{
		Reference:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		WeeksAhead: 8,
	})

	assert.Empty(t, report.Anomalies)
	assert.Equal(t, 1, report.EventCount)
}

func TestBuildDebugJSONShape(t *testing.T) {
	report := BuildDebug(debugFixture(), schedule.GenerateOptions{
		Reference:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		WeeksAhead: 8,
	})

	data, err := json.Marshal(report)
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"calendar_events"`)
	assert.Contains(t, body, `"anomalies"`)
	// Unresolvable week start serializes as null, not a zero date.
	assert.Contains(t, body, `"week_start":null`)
}
