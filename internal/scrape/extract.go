package scrape

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"velocal/internal/schedule"
)

// Schedule markup on the page:
//
//	<section class="activity-theme__third-width">
//	  <div class="activity-theme__third-width-text-only">
//	    <h3>Week beginning 26 May</h3>
//	    <ul>
//	      <li>Monday - 09:00-16:00 (Bank Holiday)</li>
//	      ...
const (
	scheduleSectionSel = "section.activity-theme__third-width"
	weekBlockSel       = "div.activity-theme__third-width-text-only"
)

var (
	// ErrNoScheduleSection means the page loaded but its schedule markup was
	// not found, usually a site redesign.
	ErrNoScheduleSection = errors.New("scrape: schedule section not found on page")

	// ErrEmptySchedule means no usable week data could be extracted. This is
	// the one pipeline condition surfaced as a hard failure: an empty
	// schedule cannot produce a meaningful calendar.
	ErrEmptySchedule = errors.New("scrape: no schedule data found")
)

// ExtractSchedule pulls the WeeklySchedule out of the rendered page HTML.
// Week blocks appear in the returned slice in page order. Blocks without a
// heading or without any parseable day rows are skipped.
func ExtractSchedule(html string) (schedule.WeeklySchedule, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	section := doc.Find(scheduleSectionSel).First()
	if section.Length() == 0 {
		return nil, ErrNoScheduleSection
	}

	var weeks schedule.WeeklySchedule
	section.Find(weekBlockSel).Each(func(_ int, block *goquery.Selection) {
		title := strings.TrimSpace(block.Find("h3").First().Text())
		if title == "" {
			return
		}

		days := schedule.DaySchedule{}
		block.Find("ul li").Each(func(_ int, li *goquery.Selection) {
			day, raw, ok := splitDayRow(li.Text())
			if ok {
				days[day] = raw
			}
		})

		if len(days) > 0 {
			weeks = append(weeks, schedule.WeekSchedule{Title: title, Days: days})
		}
	})

	if len(weeks) == 0 {
		return nil, ErrEmptySchedule
	}
	return weeks, nil
}

// splitDayRow splits a "Monday - 07:00 - 21:00" list row into the day name
// and the raw times text. Only the first " - " separates the day from the
// times; the rest belongs to the time description.
func splitDayRow(text string) (day, raw string, ok bool) {
	text = strings.TrimSpace(text)
	day, raw, ok = strings.Cut(text, " - ")
	if !ok {
		return "", "", false
	}
	day = strings.TrimSpace(day)
	raw = strings.TrimSpace(raw)
	if day == "" || raw == "" {
		return "", "", false
	}
	return day, raw, true
}
