// Package calendar projects alarms onto the calendar: next occurrences,
// iCalendar export and import.
package calendar

import (
	"sort"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/teambition/rrule-go"
)

// Occurrence pairs an alarm with the next time it fires
type Occurrence struct {
	Alarm models.Alarm
	At    time.Time
}

// Recurrence is the rule every alarm follows: once a day at its time of day,
// starting on the day it was created.
func Recurrence(alarm models.Alarm, loc *time.Location) rrule.ROption {
	start := anchor(alarm, loc)
	return rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: time.Date(start.Year(), start.Month(), start.Day(), alarm.Hour, alarm.Minute, alarm.Second, 0, loc),
	}
}

// NextOccurrence returns the first time strictly after now at which alarm
// fires. The zero time is returned for inactive alarms.
func NextOccurrence(alarm models.Alarm, now time.Time) time.Time {
	if !alarm.Active {
		return time.Time{}
	}

	opt := Recurrence(alarm, now.Location())
	// Only the time of day matters once the rule has started, so start from
	// yesterday instead of walking every day since creation. Alarms stamped
	// in the future (clock skew, imported files) are treated the same way.
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, alarm.Hour, alarm.Minute, alarm.Second, 0, now.Location())
	if opt.Dtstart.Before(yesterday) || opt.Dtstart.After(now) {
		opt.Dtstart = yesterday
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return time.Time{}
	}
	return r.After(now.Truncate(time.Second), false)
}

// Upcoming returns up to limit active alarms ordered by their next
// occurrence. A limit of zero or less returns all of them.
func Upcoming(alarms []models.Alarm, now time.Time, limit int) []Occurrence {
	upcoming := make([]Occurrence, 0, len(alarms))
	for _, alarm := range alarms {
		next := NextOccurrence(alarm, now)
		if next.IsZero() {
			continue
		}
		upcoming = append(upcoming, Occurrence{Alarm: alarm, At: next})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].At.Equal(upcoming[j].At) {
			return upcoming[i].Alarm.ID < upcoming[j].Alarm.ID
		}
		return upcoming[i].At.Before(upcoming[j].At)
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// anchor is the creation day of alarm, or the Unix epoch day when created_at
// is missing or malformed.
func anchor(alarm models.Alarm, loc *time.Location) time.Time {
	if t, err := time.ParseInLocation(models.TimestampLayout, alarm.CreatedAt, loc); err == nil {
		return t
	}
	return time.Date(1970, 1, 1, 0, 0, 0, 0, loc)
}
