package feed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"velocal/internal/schedule"
)

// DebugReport exposes the intermediate results of the schedule pipeline:
// what was scraped, how each day parsed, which weeks resolved to dates, and
// any anomalies worth a human look. It backs the format=debug output.
type DebugReport struct {
	Weeks          []WeekDebug  `json:"weeks"`
	CalendarEvents []EventDebug `json:"calendar_events"`
	Anomalies      []string     `json:"anomalies"`

	WeekCount   int `json:"week_count"`
	WindowCount int `json:"window_count"`
	EventCount  int `json:"event_count"`

	// WeeksAhead echoes the requested horizon. Informational only: the
	// event list never extends past the supplied weeks regardless of it.
	WeeksAhead int `json:"weeks_ahead"`
}

// WeekDebug is the per-week view. WeekStart is the resolved Monday in
// "2006-01-02" form, or null when the heading was unresolvable.
type WeekDebug struct {
	Title     string     `json:"title"`
	WeekStart *string    `json:"week_start"`
	Days      []DayDebug `json:"days"`
}

// DayDebug is the per-day view of one raw scraped string.
type DayDebug struct {
	Day     string                `json:"day"`
	Raw     string                `json:"raw"`
	Date    *string               `json:"date"`
	Windows []schedule.TimeWindow `json:"windows"`
	Notes   string                `json:"notes,omitempty"`
}

// EventDebug is a flattened view of one generated event.
type EventDebug struct {
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Summary string `json:"summary"`
	UID     string `json:"uid"`
}

var digitRe = regexp.MustCompile(`\d`)

// BuildDebug runs the full pipeline over sched and reports every
// intermediate result along with detected anomalies:
//
//   - a week heading that does not resolve to a date,
//   - a non-closed day that contains digits but parsed to zero windows
//     (a pattern the parser likely mangled),
//   - a window whose end is at or before its start (passed through to the
//     calendar verbatim, but usually a source typo).
func BuildDebug(sched schedule.WeeklySchedule, opts schedule.GenerateOptions) DebugReport {
	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	report := DebugReport{
		Weeks:      make([]WeekDebug, 0, len(sched)),
		Anomalies:  []string{},
		WeeksAhead: opts.WeeksAhead,
	}

	for _, week := range sched {
		wd := WeekDebug{Title: week.Title}

		monday, resolved := schedule.ResolveWeekStart(week.Title, ref)
		if resolved {
			s := monday.Format("2006-01-02")
			wd.WeekStart = &s
		} else {
			report.Anomalies = append(report.Anomalies,
				fmt.Sprintf("week %q: heading did not resolve to a date", week.Title))
		}

		for offset, dayName := range schedule.WeekdayNames() {
			raw, present := week.Days[dayName]
			if !present {
				continue
			}

			dd := DayDebug{
				Day:     dayName,
				Raw:     raw,
				Windows: schedule.ParseTimeWindows(raw),
				Notes:   schedule.ExtractAnnotations(raw),
			}
			if resolved {
				s := monday.AddDate(0, 0, offset).Format("2006-01-02")
				dd.Date = &s
			}

			closed := strings.Contains(strings.ToLower(raw), "closed")
			if !closed && len(dd.Windows) == 0 && digitRe.MatchString(raw) {
				report.Anomalies = append(report.Anomalies,
					fmt.Sprintf("week %q %s: %q contains digits but parsed to no windows", week.Title, dayName, raw))
			}
			for _, w := range dd.Windows {
				// Zero-padded HH:MM compares correctly as a string.
				if w.End <= w.Start {
					report.Anomalies = append(report.Anomalies,
						fmt.Sprintf("week %q %s: window %s-%s ends at or before it starts", week.Title, dayName, w.Start, w.End))
				}
			}

			report.WindowCount += len(dd.Windows)
			wd.Days = append(wd.Days, dd)
		}

		report.Weeks = append(report.Weeks, wd)
	}

	events := schedule.GenerateEvents(sched, opts)
	report.CalendarEvents = make([]EventDebug, 0, len(events))
	for _, ev := range events {
		report.CalendarEvents = append(report.CalendarEvents, EventDebug{
			Date:    ev.Date.Format("2006-01-02"),
			Start:   ev.Start,
			End:     ev.End,
			Summary: ev.Summary,
			UID:     ev.UID,
		})
	}

	report.WeekCount = len(report.Weeks)
	report.EventCount = len(events)
	return report
}
