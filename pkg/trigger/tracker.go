// Package trigger decides which alarms fire on a given clock tick.
package trigger

import "github.com/borgmon/desk-alarm/pkg/models"

// Tracker remembers which alarms already fired during the second that is
// currently matching, so that several ticks inside one second fire an alarm
// only once. The memory lives for the process only.
//
// A Tracker is not safe for concurrent use; the checker owns it.
type Tracker struct {
	fired map[int]struct{}
}

// NewTracker returns a tracker with an empty fired-set
func NewTracker() *Tracker {
	return &Tracker{fired: make(map[int]struct{})}
}

// Check returns the alarms that should fire at now. An alarm fires when its
// hour, minute and second equal now and it has not fired yet for this
// instant. Once the clock no longer matches, the alarm is re-armed for its next
// occurrence. Inactive alarms are ignored.
func (t *Tracker) Check(now models.TimeOfDay, alarms []models.Alarm) []models.Alarm {
	var triggered []models.Alarm

	for _, alarm := range alarms {
		if !alarm.Active {
			continue
		}

		_, fired := t.fired[alarm.ID]
		if alarm.TimeOfDay() == now {
			if !fired {
				triggered = append(triggered, alarm)
				t.fired[alarm.ID] = struct{}{}
			}
		} else if fired {
			delete(t.fired, alarm.ID)
		}
	}

	return triggered
}

// Fired reports whether id is in the fired-set
func (t *Tracker) Fired(id int) bool {
	_, ok := t.fired[id]
	return ok
}

// Len returns the size of the fired-set
func (t *Tracker) Len() int {
	return len(t.fired)
}
