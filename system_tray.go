package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/desk-alarm/pkg/calendar"
	"github.com/borgmon/desk-alarm/pkg/checker"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/borgmon/desk-alarm/pkg/notify"
	"github.com/borgmon/desk-alarm/pkg/platform"
	"golang.org/x/sync/errgroup"
)

const (
	appID             = "io.github.borgmon.desk-alarm"
	trayUpcomingLimit = 5
	trayRefreshEvery  = 30 * time.Second
)

type systemTray struct {
	app          fyne.App
	da           *DeskAlarm
	alarmsWindow *AlarmsWindow
}

// runTray hosts the checker behind a system tray icon. fyne owns the main
// goroutine; the checker and the menu refresher run in an errgroup that is
// cancelled when the app quits, and the app quits when ctx is cancelled.
func (da *DeskAlarm) runTray(ctx context.Context, cue checker.Cue, notifiers notify.Multi) error {
	fyneApp := app.NewWithID(appID)
	tray := &systemTray{app: fyneApp, da: da}

	notifiers = append(notifiers,
		notify.Desktop{App: fyneApp},
		alertNotifier{app: fyneApp},
	)
	c := da.newChecker(cue, notifiers)
	c.OnFire = func(models.Alarm) { tray.refresh() }

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Run(gctx) })
	g.Go(func() error { return tray.refreshLoop(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		fyne.Do(fyneApp.Quit)
		return nil
	})

	fyneApp.Lifecycle().SetOnStarted(func() {
		platform.SetAccessoryPolicy()
		tray.updateSystemTrayMenu()
	})

	da.logger.Info("Running in the system tray", "data_dir", da.config.DataDir)
	fyneApp.Run()

	cancel()
	return g.Wait()
}

// refresh rebuilds the menu on the fyne goroutine
func (t *systemTray) refresh() {
	fyne.Do(t.updateSystemTrayMenu)
}

func (t *systemTray) refreshLoop(ctx context.Context) error {
	ticker := time.NewTicker(trayRefreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.refresh()
		}
	}
}

func (t *systemTray) updateSystemTrayMenu() {
	desk, ok := t.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	now := t.da.now()
	upcoming := calendar.Upcoming(t.da.alarms.ReadActive(), now, trayUpcomingLimit)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, o := range upcoming {
			item := fyne.NewMenuItem(upcomingLabel(o, now), nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Alarms...", t.showAlarmsWindow),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", t.app.Quit),
	)

	desk.SetSystemTrayMenu(fyne.NewMenu("Desk Alarm", menuItems...))
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

func (t *systemTray) showAlarmsWindow() {
	// If the window already exists, just bring it to front
	if t.alarmsWindow != nil && t.alarmsWindow.window != nil {
		t.alarmsWindow.Reload()
		t.alarmsWindow.window.Show()
		t.alarmsWindow.window.RequestFocus()
		return
	}

	t.alarmsWindow = NewAlarmsWindow(t.app, t.da.alarms, t.updateSystemTrayMenu)
	t.alarmsWindow.window.SetOnClosed(func() {
		t.alarmsWindow = nil
	})
	t.alarmsWindow.window.Show()
}

func upcomingLabel(o calendar.Occurrence, now time.Time) string {
	day := "today"
	if o.At.YearDay() != now.YearDay() || o.At.Year() != now.Year() {
		day = "tomorrow"
	}
	label := fmt.Sprintf("  %s %s", o.At.Format("3:04:05 PM"), day)
	if o.Alarm.Note != "" {
		label += " - " + truncateString(o.Alarm.Note, 35)
	}
	return label
}

// truncateString truncates a string to maxLen runes, adding "..." if needed
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
