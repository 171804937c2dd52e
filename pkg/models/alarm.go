package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Period disambiguates a 12-hour clock hour
type Period string

const (
	PeriodAM Period = "AM"
	PeriodPM Period = "PM"
)

// TimestampLayout is the layout used for created_at and deleted_at
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Alarm is a persisted alarm record
type Alarm struct {
	ID        int    `json:"id"`
	Hour      int    `json:"hour"`    // 0-23, used for matching
	Minute    int    `json:"minute"`  // 0-59
	Second    int    `json:"second"`  // 0-59
	Period    Period `json:"period"`  // AM or PM
	Hour12    int    `json:"hour_12"` // 1-12, used for display
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
	Active    bool   `json:"active"`
}

type alarmJSON Alarm

// UnmarshalJSON treats a missing "active" key as true
func (a *Alarm) UnmarshalJSON(data []byte) error {
	aux := alarmJSON{Active: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Alarm(aux)
	return nil
}

// HistoryEntry is an alarm that has been deleted. Entries are append-only.
type HistoryEntry struct {
	Alarm
	DeletedAt string `json:"deleted_at"`
}

// UnmarshalJSON decodes the embedded alarm and the deletion stamp. It has to be
// spelled out because Alarm.UnmarshalJSON would otherwise be promoted and drop
// deleted_at.
func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &h.Alarm); err != nil {
		return err
	}
	var stamp struct {
		DeletedAt string `json:"deleted_at"`
	}
	if err := json.Unmarshal(data, &stamp); err != nil {
		return err
	}
	h.DeletedAt = stamp.DeletedAt
	return nil
}

// NormalizeHour12 maps 0 to 12 and leaves every other value alone
func NormalizeHour12(hour12 int) int {
	if hour12 == 0 {
		return 12
	}
	return hour12
}

// ToHour24 converts a 12-hour clock hour to the 24-hour clock.
// 12 AM is 0 and 12 PM is 12.
func ToHour24(hour12 int, period Period) int {
	switch {
	case hour12 == 12 && period == PeriodAM:
		return 0
	case hour12 == 12:
		return 12
	case period == PeriodAM:
		return hour12
	case period == PeriodPM:
		return hour12 + 12
	default:
		return 12
	}
}

// FromHour24 splits a 24-hour clock hour into its 12-hour hour and period
func FromHour24(hour int) (int, Period) {
	period := PeriodAM
	if hour >= 12 {
		period = PeriodPM
	}
	return NormalizeHour12(hour % 12), period
}

// FormatDisplay renders the alarm as "HH:MM AM". Records without hour_12 fall
// back to the 24-hour value.
func FormatDisplay(a Alarm) string {
	hour := a.Hour12
	if hour == 0 {
		hour = a.Hour
	}
	period := a.Period
	if period == "" {
		period = PeriodAM
	}
	return fmt.Sprintf("%02d:%02d %s", hour, a.Minute, period)
}

// TimeOfDay returns the alarm's matching instant
func (a Alarm) TimeOfDay() TimeOfDay {
	return TimeOfDay{Hour: a.Hour, Minute: a.Minute, Second: a.Second}
}

// TimeOfDay is a wall-clock instant at second resolution
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// TimeOfDayFrom extracts the local wall-clock components of t
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// FormatTimestamp formats t the way created_at and deleted_at are stored
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
