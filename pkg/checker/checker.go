// Package checker drives alarms: it polls the clock, asks the tracker which
// alarms are due and hands each one to the sound cue and the notifier.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/borgmon/desk-alarm/pkg/logger"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/borgmon/desk-alarm/pkg/notify"
	"github.com/borgmon/desk-alarm/pkg/trigger"
)

const (
	DefaultInterval      = time.Second
	DefaultNotifyTimeout = 10 * time.Second
)

// Cue plays the alarm sound. Play must not block.
type Cue interface {
	Play()
}

// Silent is the cue used when sound is disabled
type Silent struct{}

func (Silent) Play() {}

// AlarmReader is the slice of the alarm store the checker needs
type AlarmReader interface {
	ReadActive() []models.Alarm
}

// Options configures a Checker. Zero values fall back to defaults.
type Options struct {
	Interval      time.Duration
	NotifyTimeout time.Duration
	Cue           Cue
	Notifier      notify.Notifier
	Logger        *slog.Logger
}

// Checker owns the poll loop and the trigger tracker
type Checker struct {
	store    AlarmReader
	tracker  *trigger.Tracker
	cue      Cue
	notifier notify.Notifier
	logger   *slog.Logger

	interval      time.Duration
	notifyTimeout time.Duration

	// Now is read once per tick
	Now func() time.Time

	// OnFire, when set, is called after an alarm was dispatched
	OnFire func(models.Alarm)
}

// New creates a checker reading alarms from store
func New(store AlarmReader, opts Options) *Checker {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = DefaultNotifyTimeout
	}
	if opts.Cue == nil {
		opts.Cue = Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Log{Logger: opts.Logger}
	}

	return &Checker{
		store:         store,
		tracker:       trigger.NewTracker(),
		cue:           opts.Cue,
		notifier:      opts.Notifier,
		logger:        opts.Logger.With("component", "checker"),
		interval:      opts.Interval,
		notifyTimeout: opts.NotifyTimeout,
		Now:           time.Now,
	}
}

// Run ticks until ctx is cancelled. Cancellation is observed between ticks,
// so a tick that has started always completes.
func (c *Checker) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("Alarm checker started", "interval", c.interval)
	c.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Alarm checker stopped")
			return nil
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick runs a single poll: read the clock, read active alarms, fire what is
// due. It returns the alarms that fired.
func (c *Checker) Tick(ctx context.Context) []models.Alarm {
	now := models.TimeOfDayFrom(c.Now())
	triggered := c.tracker.Check(now, c.store.ReadActive())

	for _, alarm := range triggered {
		c.fire(ctx, alarm)
	}
	return triggered
}

func (c *Checker) fire(ctx context.Context, alarm models.Alarm) {
	c.logger.Info("Alarm triggered", "id", alarm.ID, "at", models.FormatDisplay(alarm), "note", alarm.Note)

	if err := safely(func() error { c.cue.Play(); return nil }); err != nil {
		c.logger.Error("Sound cue failed", "id", alarm.ID, logger.Err(err))
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.notifyTimeout)
	defer cancel()
	if err := safely(func() error { return c.notifier.Notify(notifyCtx, alarm) }); err != nil {
		c.logger.Error("Notification failed", "id", alarm.ID, logger.Err(err))
	}

	if c.OnFire != nil {
		if err := safely(func() error { c.OnFire(alarm); return nil }); err != nil {
			c.logger.Error("Fire hook failed", "id", alarm.ID, logger.Err(err))
		}
	}
}

// safely runs fn and turns a panic into an error
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
