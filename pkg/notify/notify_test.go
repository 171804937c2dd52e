package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wakeUp = models.Alarm{ID: 1, Hour: 6, Hour12: 6, Period: models.PeriodAM, Note: "wake up", Active: true}

type recorder struct {
	got []int
	err error
}

func (r *recorder) Notify(_ context.Context, alarm models.Alarm) error {
	r.got = append(r.got, alarm.ID)
	return r.err
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Time: 06:00 AM\nNote: wake up", Message(wakeUp))

	silent := wakeUp
	silent.Note = ""
	assert.Equal(t, "Time: 06:00 AM", Message(silent))
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	l := Log{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, l.Notify(context.Background(), wakeUp))
	assert.Contains(t, buf.String(), "msg=Alarm!")
	assert.Contains(t, buf.String(), `at="06:00 AM"`)
	assert.Contains(t, buf.String(), `note="wake up"`)
}

func TestMultiContinuesPastFailures(t *testing.T) {
	failing := &recorder{err: errors.New("offline")}
	ok := &recorder{}

	err := Multi{failing, ok}.Notify(context.Background(), wakeUp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
	assert.Equal(t, []int{1}, failing.got)
	assert.Equal(t, []int{1}, ok.got)

	assert.NoError(t, Multi{ok}.Notify(context.Background(), wakeUp))
	assert.NoError(t, Multi{}.Notify(context.Background(), wakeUp))
}

func TestNewShoutrrrValidatesURLs(t *testing.T) {
	_, err := NewShoutrrr(nil, time.Second)
	assert.Error(t, err)

	_, err = NewShoutrrr([]string{"nosuchservice://token@host"}, time.Second)
	assert.Error(t, err)
}
