package calendar

import (
	"testing"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func testAlarm(id, hour, minute, second int, note string) models.Alarm {
	hour12, period := models.FromHour24(hour)
	return models.Alarm{
		ID:        id,
		Hour:      hour,
		Hour12:    hour12,
		Minute:    minute,
		Second:    second,
		Period:    period,
		Note:      note,
		CreatedAt: "2026-03-01T08:15:00.000000",
		Active:    true,
	}
}

func localTime(day, hour, minute, second int) time.Time {
	return time.Date(2026, 3, day, hour, minute, second, 0, time.Local)
}

func TestNextOccurrence(t *testing.T) {
	alarm := testAlarm(1, 7, 30, 0, "")

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", localTime(14, 6, 0, 0), localTime(14, 7, 30, 0)},
		{"already passed", localTime(14, 9, 0, 0), localTime(15, 7, 30, 0)},
		{"exactly now", localTime(14, 7, 30, 0), localTime(15, 7, 30, 0)},
		{"inside the firing second", localTime(14, 7, 30, 0).Add(300 * time.Millisecond), localTime(15, 7, 30, 0)},
		{"one second before", localTime(14, 7, 29, 59), localTime(14, 7, 30, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextOccurrence(alarm, tt.now)), "got %s", NextOccurrence(alarm, tt.now))
		})
	}
}

func TestNextOccurrenceIgnoresCreationDay(t *testing.T) {
	alarm := testAlarm(1, 23, 0, 0, "")

	alarm.CreatedAt = "2030-01-01T00:00:00.000000"
	assert.True(t, localTime(14, 23, 0, 0).Equal(NextOccurrence(alarm, localTime(14, 12, 0, 0))))

	alarm.CreatedAt = "garbage"
	assert.True(t, localTime(14, 23, 0, 0).Equal(NextOccurrence(alarm, localTime(14, 12, 0, 0))))
}

func TestNextOccurrenceInactive(t *testing.T) {
	alarm := testAlarm(1, 7, 30, 0, "")
	alarm.Active = false
	assert.True(t, NextOccurrence(alarm, localTime(14, 6, 0, 0)).IsZero())
}

func TestUpcoming(t *testing.T) {
	inactive := testAlarm(9, 12, 0, 0, "off")
	inactive.Active = false

	alarms := []models.Alarm{
		testAlarm(1, 6, 0, 0, "tomorrow morning"),
		testAlarm(2, 22, 0, 0, "tonight"),
		testAlarm(3, 13, 0, 0, "lunch"),
		testAlarm(4, 13, 0, 0, "same time"),
		inactive,
	}
	now := localTime(14, 12, 30, 0)

	all := Upcoming(alarms, now, 0)
	ids := make([]int, 0, len(all))
	for _, o := range all {
		ids = append(ids, o.Alarm.ID)
	}
	assert.Equal(t, []int{3, 4, 2, 1}, ids)
	assert.True(t, localTime(15, 6, 0, 0).Equal(all[3].At))

	assert.Len(t, Upcoming(alarms, now, 2), 2)
	assert.Empty(t, Upcoming(nil, now, 5))
}

func TestRecurrenceIsDailyFromCreation(t *testing.T) {
	opt := Recurrence(testAlarm(1, 19, 45, 10, ""), time.Local)
	assert.Equal(t, rrule.DAILY, opt.Freq)
	assert.True(t, localTime(1, 19, 45, 10).Equal(opt.Dtstart))

	r, err := rrule.NewRRule(opt)
	require.NoError(t, err)
	next := r.After(localTime(10, 20, 0, 0), false)
	assert.True(t, localTime(11, 19, 45, 10).Equal(next))
}
