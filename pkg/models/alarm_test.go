package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHour24(t *testing.T) {
	tests := []struct {
		hour12 int
		period models.Period
		want   int
	}{
		{1, models.PeriodAM, 1},
		{6, models.PeriodAM, 6},
		{11, models.PeriodAM, 11},
		{12, models.PeriodAM, 0},
		{1, models.PeriodPM, 13},
		{7, models.PeriodPM, 19},
		{11, models.PeriodPM, 23},
		{12, models.PeriodPM, 12},
	}
	for _, tt := range tests {
		got := models.ToHour24(tt.hour12, tt.period)
		assert.Equal(t, tt.want, got, "%d %s", tt.hour12, tt.period)
	}
}

func TestToHour24CoversEveryHour(t *testing.T) {
	seen := make(map[int]bool)
	for _, period := range []models.Period{models.PeriodAM, models.PeriodPM} {
		for h := 1; h <= 12; h++ {
			seen[models.ToHour24(h, period)] = true
		}
	}
	for h := 0; h < 24; h++ {
		assert.True(t, seen[h], "hour %d is unreachable", h)
	}
}

func TestFromHour24RoundTrips(t *testing.T) {
	for h := 0; h < 24; h++ {
		hour12, period := models.FromHour24(h)
		assert.Equal(t, h, models.ToHour24(hour12, period), "hour %d", h)
	}
	hour12, period := models.FromHour24(0)
	assert.Equal(t, 12, hour12)
	assert.Equal(t, models.PeriodAM, period)
}

func TestNormalizeHour12(t *testing.T) {
	assert.Equal(t, 12, models.NormalizeHour12(0))
	assert.Equal(t, 7, models.NormalizeHour12(7))
	assert.Equal(t, 12, models.NormalizeHour12(12))
}

func TestFormatDisplay(t *testing.T) {
	tests := []struct {
		name  string
		alarm models.Alarm
		want  string
	}{{
		name:  "morning",
		alarm: models.Alarm{Hour: 6, Hour12: 6, Minute: 5, Period: models.PeriodAM},
		want:  "06:05 AM",
	}, {
		name:  "noon",
		alarm: models.Alarm{Hour: 12, Hour12: 12, Minute: 30, Period: models.PeriodPM},
		want:  "12:30 PM",
	}, {
		name:  "missing hour_12 falls back to hour",
		alarm: models.Alarm{Hour: 19, Minute: 0, Period: models.PeriodPM},
		want:  "19:00 PM",
	}, {
		name:  "missing period defaults to AM",
		alarm: models.Alarm{Hour: 8, Hour12: 8, Minute: 15},
		want:  "08:15 AM",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.FormatDisplay(tt.alarm))
		})
	}
}

func TestAlarmActiveDefaultsToTrue(t *testing.T) {
	var alarms []models.Alarm
	err := json.Unmarshal([]byte(`[{"id":1,"hour":6},{"id":2,"hour":7,"active":false}]`), &alarms)
	require.NoError(t, err)
	require.Len(t, alarms, 2)
	assert.True(t, alarms[0].Active)
	assert.False(t, alarms[1].Active)
}

func TestHistoryEntryKeepsDeletedAt(t *testing.T) {
	raw := `{"id":3,"hour":13,"hour_12":1,"minute":0,"second":0,"period":"PM","note":"call","created_at":"2024-01-01T10:00:00.000000","deleted_at":"2024-01-02T10:00:00.000000"}`

	var entry models.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, 3, entry.ID)
	assert.Equal(t, "call", entry.Note)
	assert.True(t, entry.Active)
	assert.Equal(t, "2024-01-02T10:00:00.000000", entry.DeletedAt)

	out, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"deleted_at":"2024-01-02T10:00:00.000000"`)
	assert.Contains(t, string(out), `"hour_12":1`)
}

func TestTimeOfDayFrom(t *testing.T) {
	tod := models.TimeOfDayFrom(time.Date(2024, 5, 1, 6, 7, 8, 999, time.Local))
	assert.Equal(t, models.TimeOfDay{Hour: 6, Minute: 7, Second: 8}, tod)
	assert.Equal(t, "06:07:08", tod.String())
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 5, 1, 6, 7, 8, 123456000, time.Local)
	assert.Equal(t, "2024-05-01T06:07:08.123456", models.FormatTimestamp(ts))
}
