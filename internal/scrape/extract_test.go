package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageFixture = `<!DOCTYPE html>
<html>
<body>
<section class="activity-theme__third-width">
  <div class="activity-theme__third-width-text-only">
    <h3>Week beginning 26 May</h3>
    <ul>
      <li>Monday - 09:00-16:00 (Bank Holiday)</li>
      <li>Tuesday - 07:00-21:00</li>
      <li>Friday - 07:00-14:00 16:00-21:00 (16:30-17:30 Abercrombie loop only)</li>
      <li>Sunday - Closed</li>
      <li>Please check back for updates</li>
    </ul>
  </div>
  <div class="activity-theme__third-width-text-only">
    <h3>Week beginning 2 June</h3>
    <ul>
      <li>Monday - 07:00-21:00</li>
    </ul>
  </div>
  <div class="activity-theme__third-width-text-only">
    <h3>Opening times notice</h3>
    <p>No list here.</p>
  </div>
</section>
</body>
</html>`

func TestExtractSchedule(t *testing.T) {
	weeks, err := ExtractSchedule(pageFixture)
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	first := weeks[0]
	assert.Equal(t, "Week beginning 26 May", first.Title)
	assert.Equal(t, "09:00-16:00 (Bank Holiday)", first.Days["Monday"])
	assert.Equal(t, "07:00-21:00", first.Days["Tuesday"])
	assert.Equal(t, "07:00-14:00 16:00-21:00 (16:30-17:30 Abercrombie loop only)", first.Days["Friday"])
	assert.Equal(t, "Closed", first.Days["Sunday"])
	// The row without a " - " separator is skipped.
	assert.Len(t, first.Days, 4)

	second := weeks[1]
	assert.Equal(t, "Week beginning 2 June", second.Title)
	assert.Equal(t, "07:00-21:00", second.Days["Monday"])
}

func TestExtractScheduleNoSection(t *testing.T) {
	_, err := ExtractSchedule(`<html><body><p>redesigned page</p></body></html>`)
	assert.ErrorIs(t, err, ErrNoScheduleSection)
}

func TestExtractScheduleEmptySection(t *testing.T) {
	html := `<html><body>
<section class="activity-theme__third-width">
  <div class="activity-theme__third-width-text-only">
    <h3>Week beginning 26 May</h3>
  </div>
</section>
</body></html>`

	_, err := ExtractSchedule(html)
	assert.ErrorIs(t, err, ErrEmptySchedule)
}

func TestSplitDayRow(t *testing.T) {
	tests := []struct {
		text    string
		wantDay string
		wantRaw string
		wantOK  bool
	}{
		{"Monday - 07:00 - 21:00", "Monday", "07:00 - 21:00", true},
		{"  Friday - 07:00-14:00 16:00-21:00  ", "Friday", "07:00-14:00 16:00-21:00", true},
		{"Sunday - Closed", "Sunday", "Closed", true},
		{"No separator here", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range tests {
		day, raw, ok := splitDayRow(tc.text)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.text)
		assert.Equal(t, tc.wantDay, day, "input %q", tc.text)
		assert.Equal(t, tc.wantRaw, raw, "input %q", tc.text)
	}
}
