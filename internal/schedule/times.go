package schedule

import (
	"regexp"
	"strings"
)

var (
	// annotationRe matches a single balanced, non-nested parenthesised
	// substring, e.g. "(Bank Holiday)".
	annotationRe = regexp.MustCompile(`\([^)]+\)`)

	// parenRe is the removal variant: it also matches empty parentheses so
	// that stripping leaves no stray "()" behind.
	parenRe = regexp.MustCompile(`\([^)]*\)`)

	spaceRunRe = regexp.MustCompile(`\s+`)

	// gluedClocksRe matches two HH:MM tokens with no delimiter between them,
	// e.g. the malformed "14:0016:00".
	gluedClocksRe = regexp.MustCompile(`(\d{2}:\d{2})(\d{2}:\d{2})`)

	// windowRe matches one "HH:MM - HH:MM" range with optional spaces
	// around the dash.
	windowRe = regexp.MustCompile(`\d{2}:\d{2}\s*-\s*\d{2}:\d{2}`)

	clockRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ParseTimeWindows turns one raw day string into its open time windows, in
// left-to-right source order.
//
// Rules, applied in order:
//
//  1. Any string containing "closed" (case-insensitive) yields no windows.
//     This check runs on the original string, so "(closed for maintenance)"
//     counts too.
//  2. Parenthesised substrings are stripped before matching; they are
//     annotations, never sessions, even when they contain HH:MM-HH:MM text.
//  3. Two HH:MM tokens glued together without a delimiter are split apart
//     so that "07:00-14:0016:00-21:00" still produces two windows.
//  4. Each matched range is split on the dash and both sides are
//     re-validated as exactly two digits, colon, two digits; ranges that
//     fail validation are dropped silently.
//
// Out-of-order or overlapping windows are passed through verbatim. A string
// with no matches is not an error; it simply yields no windows.
func ParseTimeWindows(raw string) []TimeWindow {
	if strings.Contains(strings.ToLower(raw), "closed") {
		return nil
	}

	s := parenRe.ReplaceAllString(raw, " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = gluedClocksRe.ReplaceAllString(s, "$1 $2")

	var windows []TimeWindow
	for _, m := range windowRe.FindAllString(s, -1) {
		m = strings.ReplaceAll(m, " ", "")
		start, end, ok := strings.Cut(m, "-")
		if !ok {
			continue
		}
		if !clockRe.MatchString(start) || !clockRe.MatchString(end) {
			continue
		}
		windows = append(windows, TimeWindow{Start: start, End: end})
	}
	return windows
}

// ExtractAnnotations pulls the human-readable notes out of a raw day string:
// every balanced, non-nested parenthesised substring, parentheses included,
// space-joined in source order. It operates on the original unmodified
// string, independently of ParseTimeWindows. Returns "" when there are no
// parentheses.
func ExtractAnnotations(raw string) string {
	notes := annotationRe.FindAllString(raw, -1)
	return strings.Join(notes, " ")
}
