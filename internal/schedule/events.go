package schedule

import (
	"fmt"
	"strings"
	"time"

	appLog "velocal/internal/log"
)

// Fixed event fields for the VeloPark road circuit. The summary gains a
// "(Session N)" suffix when a day has more than one window; the description
// gains the day's annotation text when notes are enabled.
const (
	SummaryBase     = "Lee Valley VeloPark - Road Circuit Open"
	DescriptionBase = "Road cycling circuit is open for sessions and activities. Last entry one hour before closing."
	EventLocation   = "Lee Valley VeloPark, Abercrombie Road, Queen Elizabeth Olympic Park, London E20 3AB"
	EventURL        = "https://www.better.org.uk/leisure-centre/lee-valley/velopark/road-cycling"

	uidDomain = "leovalley.org.uk"
)

// GenerateOptions controls event generation.
type GenerateOptions struct {
	// Reference is the date used to disambiguate the year of week headings.
	// Zero means "now"; tests must set it explicitly.
	Reference time.Time

	// IncludeNotes appends the day's parenthesised annotations to each
	// event description.
	IncludeNotes bool

	// WeeksAhead is the caller-requested horizon. It is a ceiling only:
	// events are generated exclusively for the weeks actually supplied,
	// never repeated forward to fill the horizon. It is carried through to
	// the formatter for informational output.
	WeeksAhead int
}

// GenerateEvents turns a scraped WeeklySchedule into a flat, ordered list of
// calendar events.
//
// For each supplied week, in input order:
//
//   - the heading is resolved to its Monday via ResolveWeekStart; weeks with
//     unresolvable headings are skipped silently (logged, never surfaced),
//   - each canonical weekday present in the week's days is dated
//     Monday + offset; non-weekday keys are ignored,
//   - each parsed time window becomes one event.
//
// Output order is therefore (input week order, weekday offset, window order),
// and this order is what the formatter serializes. The UID of each event is
// a pure function of date, start time and window index, so regenerating from
// the same input is idempotent.
func GenerateEvents(sched WeeklySchedule, opts GenerateOptions) []Event {
	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}

	var events []Event
	for _, week := range sched {
		monday, ok := ResolveWeekStart(week.Title, ref)
		if !ok {
			appLog.Info("skipping week with unresolvable heading", "title", week.Title)
			continue
		}

		for offset, dayName := range weekdayNames {
			raw, present := week.Days[dayName]
			if !present {
				continue
			}
			date := monday.AddDate(0, 0, offset)

			windows := ParseTimeWindows(raw)
			notes := ExtractAnnotations(raw)

			for i, w := range windows {
				summary := SummaryBase
				if len(windows) > 1 {
					summary += fmt.Sprintf(" (Session %d)", i+1)
				}

				description := DescriptionBase
				if opts.IncludeNotes && notes != "" {
					description += " " + notes
				}

				events = append(events, Event{
					Date:        date,
					Start:       w.Start,
					End:         w.End,
					Session:     i + 1,
					Sessions:    len(windows),
					Summary:     summary,
					Description: description,
					Location:    EventLocation,
					URL:         EventURL,
					UID:         eventUID(date, w.Start, i),
				})
			}
		}
	}
	return events
}

// eventUID builds the deterministic per-event identifier, e.g.
// "velopark-20250526-0900-0@leovalley.org.uk".
func eventUID(date time.Time, start string, index int) string {
	return fmt.Sprintf("velopark-%s-%s-%d@%s",
		date.Format("20060102"),
		strings.ReplaceAll(start, ":", ""),
		index,
		uidDomain,
	)
}
