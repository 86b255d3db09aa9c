package schedule

import "time"

// DaySchedule maps a weekday name ("Monday" .. "Sunday") to the raw
// opening-hours text scraped for that day, e.g. "07:00-14:00 16:00-21:00
// (16:30-17:30 Abercrombie loop only)". Keys that are not canonical weekday
// names are ignored by the event generator.
type DaySchedule map[string]string

// WeekSchedule is one scraped week: the heading ("Week beginning 26 May")
// plus the per-day raw hours.
type WeekSchedule struct {
	Title string      `json:"title"`
	Days  DaySchedule `json:"days"`
}

// WeeklySchedule is the full scraped schedule in page order. Week order is
// structural (a slice, not a map) because generated events must follow the
// order the weeks appear on the source page.
type WeeklySchedule []WeekSchedule

// TimeWindow is a single contiguous open period within one day. Start and
// End are wall-clock "HH:MM" strings exactly as they appeared in the source;
// End is not validated against Start (an end at or before the start is
// passed through verbatim).
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Event is one generated calendar event: a single open session on a single
// date. Events are built once per (day, time window) pair and are immutable
// afterwards; they are never persisted.
type Event struct {
	// Date is the event's calendar date at midnight UTC. The clock times
	// live in Start/End as floating local "HH:MM" strings.
	Date  time.Time
	Start string
	End   string

	// Session is the 1-based position of this window among the day's
	// windows; Sessions is how many windows that day has in total.
	Session  int
	Sessions int

	Summary     string
	Description string
	Location    string
	URL         string

	// UID is derived deterministically from date, start time and session
	// index, so regenerating from the same input yields the same UID.
	UID string
}

// weekdayNames lists the canonical weekday keys in Monday-first order.
// The index is the day's offset from the week's Monday.
var weekdayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// WeekdayNames returns the canonical weekday keys, Monday first.
func WeekdayNames() []string {
	return weekdayNames[:]
}
