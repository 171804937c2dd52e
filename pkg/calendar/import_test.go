package calendar

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/jarcoal/httpmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Example Corp//Calendar//EN
BEGIN:VEVENT
UID:standup@example.com
DTSTAMP:20260301T000000Z
DTSTART:20260316T091500
DTEND:20260316T093000
SUMMARY:Standup
RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR
END:VEVENT
BEGIN:VEVENT
UID:standup-copy@example.com
DTSTAMP:20260301T000000Z
DTSTART:20260317T091500
DTEND:20260317T093000
SUMMARY:Standup
END:VEVENT
BEGIN:VEVENT
UID:standup@example.com
DTSTAMP:20260301T000000Z
DTSTART:20260318T100000
SUMMARY:Standup moved
END:VEVENT
BEGIN:VEVENT
UID:holiday@example.com
DTSTAMP:20260301T000000Z
DTSTART;VALUE=DATE:20260320
DTEND;VALUE=DATE:20260321
SUMMARY:Company holiday
END:VEVENT
BEGIN:VEVENT
UID:review@example.com
DTSTAMP:20260301T000000Z
DTSTART:20260319T140000
SUMMARY:Design review
STATUS:CANCELLED
END:VEVENT
BEGIN:VEVENT
UID:retro@example.com
DTSTAMP:20260301T000000Z
DTSTART:20260319T160000
SUMMARY:Canceled: Retro
END:VEVENT
BEGIN:VEVENT
UID:lunch@example.com
DTSTAMP:20260301T000000Z
DTSTART:20260319T124530
SUMMARY:Lunch\, with team
END:VEVENT
BEGIN:VTODO
UID:todo@example.com
DTSTAMP:20260301T000000Z
SUMMARY:Not an event
END:VTODO
END:VCALENDAR
`

func TestImport(t *testing.T) {
	drafts, err := Import([]byte(strings.ReplaceAll(workCalendar, "\n", "\r\n")), nil)
	require.NoError(t, err)

	assert.Equal(t, []Draft{
		{UID: "standup@example.com", Hour12: 9, Minute: 15, Period: models.PeriodAM, Note: "Standup"},
		{UID: "lunch@example.com", Hour12: 12, Minute: 45, Second: 30, Period: models.PeriodPM, Note: "Lunch, with team"},
	}, drafts)
}

func TestImportRejectsNonCalendars(t *testing.T) {
	tests := map[string]string{
		"html":  "<!DOCTYPE html><html><body>Sign in</body></html>",
		"empty": "",
		"json":  `{"events": []}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Import([]byte(body), nil)
			assert.Error(t, err)
		})
	}
}

func TestIsCancelledTitle(t *testing.T) {
	assert.True(t, isCancelledTitle("CANCELLED - Retro"))
	assert.True(t, isCancelledTitle("[Canceled] 1:1"))
	assert.False(t, isCancelledTitle("Retro (not cancelled)"))
}

func TestWindowsTimezoneIsResolved(t *testing.T) {
	body := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Microsoft Corporation//Outlook//EN",
		"BEGIN:VEVENT",
		"UID:tz@example.com",
		"DTSTAMP:20260301T000000Z",
		"DTSTART;TZID=Tokyo Standard Time:20260316T090000",
		"SUMMARY:Tokyo sync",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	drafts, err := Import([]byte(body), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	want := time.Date(2026, 3, 16, 9, 0, 0, 0, tokyo).In(time.Local)

	assert.Equal(t, want.Hour(), models.ToHour24(drafts[0].Hour12, drafts[0].Period))
	assert.Equal(t, want.Minute(), drafts[0].Minute)
}

func TestFetch(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("GET", "https://calendar.example.com/cal.ics",
		httpmock.NewStringResponder(http.StatusOK, workCalendar))
	httpmock.RegisterResponder("GET", "https://calendar.example.com/missing.ics",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	data, err := Fetch(context.Background(), afero.NewMemMapFs(), "https://calendar.example.com/cal.ics")
	require.NoError(t, err)
	assert.Equal(t, workCalendar, string(data))

	_, err = Fetch(context.Background(), afero.NewMemMapFs(), "https://calendar.example.com/missing.ics")
	assert.ErrorContains(t, err, "404")

	_, err = Fetch(context.Background(), afero.NewMemMapFs(), "https://calendar.example.com/unknown.ics")
	assert.ErrorContains(t, err, "HTTP request failed")
	assert.Equal(t, 2, httpmock.GetTotalCallCount())

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cal/work.ics", []byte(workCalendar), 0o644))
	data, err = Fetch(context.Background(), fsys, "/cal/work.ics")
	require.NoError(t, err)
	assert.Equal(t, workCalendar, string(data))

	_, err = Fetch(context.Background(), fsys, "/cal/none.ics")
	assert.Error(t, err)
}
