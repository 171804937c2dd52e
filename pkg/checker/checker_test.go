package checker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	mu     sync.Mutex
	alarms []models.Alarm
}

func (s *fakeStore) ReadActive() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Alarm(nil), s.alarms...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type countingCue struct {
	mu    sync.Mutex
	plays int
}

func (c *countingCue) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plays++
}

func (c *countingCue) Plays() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plays
}

type recordingNotifier struct {
	mu   sync.Mutex
	ids  []int
	err  error
	hook func(ctx context.Context)
}

func (n *recordingNotifier) Notify(ctx context.Context, alarm models.Alarm) error {
	if n.hook != nil {
		n.hook(ctx)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, alarm.ID)
	return n.err
}

func (n *recordingNotifier) IDs() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int(nil), n.ids...)
}

type panickingCue struct{}

func (panickingCue) Play() { panic("speaker on fire") }

type panickingNotifier struct{}

func (panickingNotifier) Notify(context.Context, models.Alarm) error { panic("no display") }

func alarmAt(id, hour, minute, second int) models.Alarm {
	period := models.PeriodAM
	hour12 := hour
	if hour >= 12 {
		period = models.PeriodPM
		hour12 -= 12
	}
	return models.Alarm{
		ID:     id,
		Hour:   hour,
		Hour12: models.NormalizeHour12(hour12),
		Minute: minute,
		Second: second,
		Period: period,
		Active: true,
	}
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, second, 0, time.Local)
}

func TestTickFiresOncePerMatchingSecond(t *testing.T) {
	store := &fakeStore{alarms: []models.Alarm{alarmAt(1, 7, 30, 0)}}
	clock := &fakeClock{}
	cue := &countingCue{}
	notifier := &recordingNotifier{}

	c := New(store, Options{Cue: cue, Notifier: notifier})
	c.Now = clock.Now

	ticks := []struct {
		now   time.Time
		fired int
	}{
		{at(7, 29, 59), 0},
		{at(7, 30, 0), 1},
		{at(7, 30, 0).Add(400 * time.Millisecond), 0},
		{at(7, 30, 1), 0},
		{at(7, 30, 0), 1},
	}
	for i, tick := range ticks {
		clock.Set(tick.now)
		assert.Len(t, c.Tick(context.Background()), tick.fired, "tick %d", i)
	}

	assert.Equal(t, 2, cue.Plays())
	assert.Equal(t, []int{1, 1}, notifier.IDs())
}

func TestTickFiresEveryDueAlarm(t *testing.T) {
	store := &fakeStore{alarms: []models.Alarm{
		alarmAt(1, 18, 0, 0),
		alarmAt(2, 18, 0, 0),
		alarmAt(3, 6, 0, 0),
	}}
	notifier := &recordingNotifier{}
	var onFire []int

	c := New(store, Options{Notifier: notifier})
	c.Now = func() time.Time { return at(18, 0, 0) }
	c.OnFire = func(a models.Alarm) { onFire = append(onFire, a.ID) }

	c.Tick(context.Background())

	assert.Equal(t, []int{1, 2}, notifier.IDs())
	assert.Equal(t, []int{1, 2}, onFire)
}

func TestTickSeesNewAlarmsWithoutRestart(t *testing.T) {
	store := &fakeStore{}
	notifier := &recordingNotifier{}
	c := New(store, Options{Notifier: notifier})
	c.Now = func() time.Time { return at(9, 15, 0) }

	assert.Empty(t, c.Tick(context.Background()))

	store.mu.Lock()
	store.alarms = append(store.alarms, alarmAt(4, 9, 15, 0))
	store.mu.Unlock()

	assert.Len(t, c.Tick(context.Background()), 1)
}

func TestCollaboratorFailuresAreIsolated(t *testing.T) {
	tests := map[string]Options{
		"cue panics":      {Cue: panickingCue{}, Notifier: &recordingNotifier{}},
		"notifier panics": {Cue: &countingCue{}, Notifier: panickingNotifier{}},
		"notifier errors": {Cue: &countingCue{}, Notifier: &recordingNotifier{err: errors.New("smtp down")}},
	}

	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{alarms: []models.Alarm{alarmAt(1, 12, 0, 0), alarmAt(2, 12, 0, 0)}}
			c := New(store, opts)
			c.Now = func() time.Time { return at(12, 0, 0) }

			var fired []int
			c.OnFire = func(a models.Alarm) { fired = append(fired, a.ID) }

			require.NotPanics(t, func() { c.Tick(context.Background()) })
			assert.Equal(t, []int{1, 2}, fired)
		})
	}
}

func TestFireHookPanicDoesNotStopTick(t *testing.T) {
	store := &fakeStore{alarms: []models.Alarm{alarmAt(1, 12, 0, 0), alarmAt(2, 12, 0, 0)}}
	notifier := &recordingNotifier{}
	c := New(store, Options{Notifier: notifier})
	c.Now = func() time.Time { return at(12, 0, 0) }
	c.OnFire = func(models.Alarm) { panic("tray gone") }

	var fired []models.Alarm
	require.NotPanics(t, func() { fired = c.Tick(context.Background()) })
	assert.Len(t, fired, 2)
	assert.Equal(t, []int{1, 2}, notifier.IDs())
}

func TestNotifyIsBounded(t *testing.T) {
	store := &fakeStore{alarms: []models.Alarm{alarmAt(1, 8, 0, 0)}}
	var deadline time.Time
	notifier := &recordingNotifier{hook: func(ctx context.Context) {
		deadline, _ = ctx.Deadline()
		<-ctx.Done()
	}}

	c := New(store, Options{Notifier: notifier, NotifyTimeout: 20 * time.Millisecond})
	c.Now = func() time.Time { return at(8, 0, 0) }

	start := time.Now()
	c.Tick(context.Background())

	assert.False(t, deadline.IsZero())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &fakeStore{alarms: []models.Alarm{alarmAt(1, 23, 59, 59)}}
	clock := &fakeClock{now: at(23, 59, 59)}
	notifier := &recordingNotifier{}

	c := New(store, Options{Interval: 5 * time.Millisecond, Notifier: notifier})
	c.Now = clock.Now

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return len(notifier.IDs()) == 1 }, time.Second, 5*time.Millisecond)

	// Many more ticks inside the same second must not fire again.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, []int{1}, notifier.IDs())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("checker did not stop")
	}
}

func TestNewDefaults(t *testing.T) {
	c := New(&fakeStore{}, Options{})
	assert.Equal(t, DefaultInterval, c.interval)
	assert.Equal(t, DefaultNotifyTimeout, c.notifyTimeout)
	assert.Equal(t, Silent{}, c.cue)
	assert.NotNil(t, c.notifier)
	assert.NotPanics(t, c.cue.Play)
}
