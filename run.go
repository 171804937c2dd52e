package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/borgmon/desk-alarm/pkg/audio"
	"github.com/borgmon/desk-alarm/pkg/checker"
	"github.com/borgmon/desk-alarm/pkg/logger"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/borgmon/desk-alarm/pkg/notify"
	"github.com/spf13/cobra"
)

func runCommand(da *DeskAlarm) *cobra.Command {
	var tray bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the clock and fire alarms until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("tray") {
				da.config.Tray = tray
			}
			return da.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&tray, "tray", false, "show a system tray icon, alarm windows and desktop notifications")

	return cmd
}

func (da *DeskAlarm) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sync autostart state with config on startup
	if err := setupAutostart(da.config.AutoStart, da.config.Tray, da.logger); err != nil {
		da.logger.Warn("Failed to set up autostart", logger.Err(err))
	}

	cue, stopCue := da.newCue()
	defer stopCue()

	notifiers, err := da.newNotifiers()
	if err != nil {
		return err
	}

	if da.config.Tray {
		return da.runTray(ctx, cue, notifiers)
	}

	da.logger.Info("Running headless", "data_dir", da.config.DataDir, "alarms", len(da.alarms.ReadActive()))
	return da.newChecker(cue, notifiers).Run(ctx)
}

func (da *DeskAlarm) newCue() (checker.Cue, func()) {
	if !da.config.Sound.Enabled {
		return checker.Silent{}, func() {}
	}
	player := audio.NewPlayer(da.config.Sound.File, da.logger)
	return player, player.Stop
}

// newNotifiers returns the sinks every mode uses: the log, plus shoutrrr when
// URLs are configured.
func (da *DeskAlarm) newNotifiers() (notify.Multi, error) {
	notifiers := notify.Multi{notify.Log{Logger: da.logger}}

	if da.config.NeedsRemoteNotify() {
		remote, err := notify.NewShoutrrr(da.config.Notify.URLs, da.config.Notify.Timeout)
		if err != nil {
			return nil, models.Errorf(models.ErrInvalid, "notify.urls: %v", err)
		}
		notifiers = append(notifiers, remote)
		da.logger.Info("Remote notifications enabled", "services", len(da.config.Notify.URLs))
	}

	return notifiers, nil
}

func (da *DeskAlarm) newChecker(cue checker.Cue, notifier notify.Notifier) *checker.Checker {
	c := checker.New(da.alarms, checker.Options{
		Interval:      da.config.PollInterval,
		NotifyTimeout: da.config.Notify.Timeout,
		Cue:           cue,
		Notifier:      notifier,
		Logger:        da.logger,
	})
	c.Now = da.now
	return c
}
