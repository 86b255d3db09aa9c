package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// weekTitleRe extracts the day number and month name from a week heading
// like "Week beginning 26 May".
var weekTitleRe = regexp.MustCompile(`(?i)week beginning (\d+) ([A-Za-z]+)`)

// monthsByName maps full month names and their standard three-letter
// abbreviations (lowercased) to time.Month.
var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ResolveWeekStart turns a week heading into the concrete date of the Monday
// it names (midnight UTC), or ok=false when the heading cannot be resolved.
//
// The heading carries no year, so the year is chosen relative to ref:
//
//   - ref in December and the heading names January  -> ref year + 1
//   - ref in January/February and the heading names
//     November or December                           -> ref year - 1
//   - otherwise                                      -> ref year
//
// This single-month-adjacency rule is deliberately narrow: a heading naming
// a month far from ref still resolves to ref's year, which may be wrong for
// schedules published long in advance. Callers needing a longer horizon must
// pass an explicit ref per call rather than relying on the current clock.
//
// An unmatched heading, an unknown month name, or a day that does not exist
// in the chosen month (e.g. 31 February) all return ok=false; this function
// never errors.
func ResolveWeekStart(title string, ref time.Time) (time.Time, bool) {
	m := weekTitleRe.FindStringSubmatch(title)
	if m == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	month, ok := monthsByName[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	year := ref.Year()
	switch {
	case ref.Month() == time.December && month == time.January:
		year++
	case ref.Month() <= time.February && (month == time.November || month == time.December):
		year--
	}

	// time.Date normalizes out-of-range days (31 Feb becomes 2/3 Mar), so a
	// round-trip mismatch means the day/month combination is invalid.
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}
