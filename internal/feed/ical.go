// Package feed serializes generated schedule events into their outward
// representations: an iCalendar document for calendar clients, and a
// structured debug report for troubleshooting the scrape/parse pipeline.
package feed

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"velocal/internal/schedule"
)

const (
	prodID       = "-//Lee Valley VeloPark//Road Cycling Calendar//EN"
	calendarDesc = "Lee Valley VeloPark Road Cycling opening hours - Auto-updated from website"
	calendarTZ   = "Europe/London"

	// DefaultCalendarName is used when the caller does not override the
	// display name.
	DefaultCalendarName = "Lee Valley VeloPark - Road Cycling"
)

// CalendarOptions carries the caller-tunable parts of the document.
type CalendarOptions struct {
	// Name is the calendar display name (X-WR-CALNAME). Empty means
	// DefaultCalendarName.
	Name string

	// Now is the generation timestamp used for DTSTAMP, always emitted in
	// UTC. Zero means the current time; tests set it for stable output.
	Now time.Time
}

// BuildCalendar serializes events into an iCalendar (RFC 5545) document.
// Events are emitted in the order given; event times are floating local
// date-times built from each event's date and HH:MM window, and the
// serialized text uses CRLF line endings as the format requires.
func BuildCalendar(events []schedule.Event, opts CalendarOptions) string {
	name := opts.Name
	if name == "" {
		name = DefaultCalendarName
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(name)
	cal.SetXWRCalDesc(calendarDesc)
	cal.SetXWRTimezone(calendarTZ)

	for _, ev := range events {
		ve := cal.AddEvent(ev.UID)
		ve.SetProperty(ical.ComponentPropertyDtStart, icalLocalTime(ev.Date, ev.Start))
		ve.SetProperty(ical.ComponentPropertyDtEnd, icalLocalTime(ev.Date, ev.End))
		ve.SetSummary(ev.Summary)
		ve.SetDescription(ev.Description)
		ve.SetLocation(ev.Location)
		ve.SetURL(ev.URL)
		ve.SetDtStampTime(now)
	}

	return cal.Serialize()
}

// icalLocalTime formats a date plus an "HH:MM" clock string as a floating
// local iCalendar date-time, e.g. "20250526T070000".
func icalLocalTime(date time.Time, clock string) string {
	return date.Format("20060102") + "T" + strings.ReplaceAll(clock, ":", "") + "00"
}
