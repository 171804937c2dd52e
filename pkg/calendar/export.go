package calendar

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const (
	ProductID = "-//borgmon//desk-alarm//EN"

	statusConfirmed = "CONFIRMED"
	statusCancelled = "CANCELLED"
)

// uidNamespace scopes alarm UIDs so they never collide with other producers
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/borgmon/desk-alarm"))

// AlarmUID returns a stable UID for an alarm. Ids are never reused, so the
// id together with the creation stamp identifies an alarm across exports.
func AlarmUID(alarm models.Alarm) string {
	return uuid.NewSHA1(uidNamespace, []byte(strconv.Itoa(alarm.ID)+"|"+alarm.CreatedAt)).String()
}

// Export writes live alarms as daily events, each with a display reminder,
// and history entries as cancelled events.
func Export(w io.Writer, alarms []models.Alarm, history []models.HistoryEntry, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	for _, alarm := range alarms {
		event, err := alarmEvent(alarm, now)
		if err != nil {
			return err
		}
		if alarm.Active {
			event.Props.SetText(ical.PropStatus, statusConfirmed)
		} else {
			event.Props.SetText(ical.PropStatus, statusCancelled)
		}
		event.Children = append(event.Children, displayAlarm(alarm))
		cal.Children = append(cal.Children, event.Component)
	}

	for _, entry := range history {
		event, err := alarmEvent(entry.Alarm, now)
		if err != nil {
			return err
		}
		event.Props.SetText(ical.PropStatus, statusCancelled)
		if deleted, err := time.ParseInLocation(models.TimestampLayout, entry.DeletedAt, now.Location()); err == nil {
			event.Props.SetDateTime(ical.PropLastModified, deleted.UTC())
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		// An iCalendar object needs at least one component
		return models.Errorf(models.ErrInvalid, "nothing to export")
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func alarmEvent(alarm models.Alarm, now time.Time) (*ical.Event, error) {
	rule := Recurrence(alarm, time.Local)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, AlarmUID(alarm))
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	// Floating local time: the alarm rings at this wall-clock time wherever the machine is
	event.Props.SetDateTime(ical.PropDateTimeStart, rule.Dtstart)
	event.Props.SetRecurrenceRule(&rule)
	event.Props.SetText(ical.PropSummary, summary(alarm))
	if alarm.Note != "" {
		event.Props.SetText(ical.PropDescription, alarm.Note)
	}
	if created, err := time.ParseInLocation(models.TimestampLayout, alarm.CreatedAt, time.Local); err == nil {
		event.Props.SetDateTime(ical.PropCreated, created.UTC())
	}
	return event, nil
}

func displayAlarm(alarm models.Alarm) *ical.Component {
	valarm := ical.NewComponent(ical.CompAlarm)
	valarm.Props.SetText(ical.PropAction, "DISPLAY")
	valarm.Props.SetText(ical.PropDescription, summary(alarm))

	trigger := ical.NewProp(ical.PropTrigger)
	trigger.SetValueType(ical.ValueDuration)
	trigger.Value = "PT0S"
	valarm.Props.Set(trigger)

	return valarm
}

func summary(alarm models.Alarm) string {
	if alarm.Note == "" {
		return "Alarm " + models.FormatDisplay(alarm)
	}
	return "Alarm " + models.FormatDisplay(alarm) + ": " + alarm.Note
}
