package main

import (
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertWindowHoldsQuitShortcutWhileOpen(t *testing.T) {
	var held, released atomic.Int32
	orig := blockQuitShortcut
	blockQuitShortcut = func() func() {
		held.Add(1)
		return func() { released.Add(1) }
	}
	t.Cleanup(func() { blockQuitShortcut = orig })

	a := test.NewTempApp(t)
	alarm := models.Alarm{ID: 1, Hour: 7, Hour12: 7, Minute: 30, Period: models.PeriodAM, Note: "wake up"}

	aw := NewAlertWindow(a, alarm)
	aw.Show()
	aw.Show()
	require.Eventually(t, func() bool { return held.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Zero(t, released.Load())

	fyne.Do(aw.window.Close)
	require.Eventually(t, func() bool { return released.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), held.Load())
}
