package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/emersion/go-ical"
)

// Draft is an alarm read from a calendar, not yet stored
type Draft struct {
	UID    string
	Hour12 int
	Minute int
	Second int
	Period models.Period
	Note   string
}

// Key identifies drafts that would create the same alarm
func (d Draft) Key() string {
	return fmt.Sprintf("%02d:%02d:%02d %s|%s", d.Hour12, d.Minute, d.Second, d.Period, d.Note)
}

// AlarmKey is Draft.Key for a stored alarm
func AlarmKey(alarm models.Alarm) string {
	return Draft{
		Hour12: models.NormalizeHour12(alarm.Hour12),
		Minute: alarm.Minute,
		Second: alarm.Second,
		Period: alarm.Period,
		Note:   alarm.Note,
	}.Key()
}

// calendarEvent is the subset of a VEVENT an alarm can be built from
type calendarEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Status      string
}

func parseEvent(comp *ical.Component) calendarEvent {
	event := calendarEvent{}

	event.UID = textValue(comp, ical.PropUID)
	event.Summary = textValue(comp, ical.PropSummary)
	event.Description = textValue(comp, ical.PropDescription)

	loc := locationFor(comp)
	if startProp := comp.Props.Get(ical.PropDateTimeStart); startProp != nil {
		event.AllDay = startProp.ValueType() == ical.ValueDate
		if t, err := parseDateTimeProperty(startProp, loc); err == nil {
			event.Start = t
		}
	}

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := parseDateTimeProperty(endProp, loc); err == nil {
			event.End = t
		}
	}

	event.Status = strings.ToUpper(textValue(comp, ical.PropStatus))

	// Some servers only rename cancelled events
	if event.Status != statusCancelled && isCancelledTitle(event.Summary) {
		event.Status = statusCancelled
	}

	return event
}

// draft turns an event into an alarm at its local start time. Events written
// by Export carry the note in the description; anything else uses the summary.
func (e calendarEvent) draft(ownExport bool) Draft {
	start := e.Start.In(time.Local)
	hour12, period := models.FromHour24(start.Hour())

	note := e.Summary
	if ownExport {
		note = e.Description
	}

	return Draft{
		UID:    e.UID,
		Hour12: hour12,
		Minute: start.Minute(),
		Second: start.Second(),
		Period: period,
		Note:   strings.TrimSpace(note),
	}
}

// textValue returns an unescaped TEXT property, or the raw value when the
// producer wrote invalid escapes
func textValue(comp *ical.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	if text, err := prop.Text(); err == nil {
		return text
	}
	return prop.Value
}

func parseDateTimeProperty(prop *ical.Prop, loc *time.Location) (time.Time, error) {
	if t, err := prop.DateTime(loc); err == nil {
		return t, nil
	}

	// Fall back to common layouts producers get wrong
	value := prop.Value
	formats := []string{
		"20060102T150405",
		"20060102T150405Z",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", value)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func isCancelledTitle(title string) bool {
	cleanTitle := nonAlphanumeric.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(cleanTitle, "canceled") || strings.HasPrefix(cleanTitle, "cancelled")
}
