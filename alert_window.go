package main

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/borgmon/desk-alarm/pkg/notify"
	"github.com/borgmon/desk-alarm/pkg/platform"
	"github.com/borgmon/desk-alarm/pkg/ui/components"
)

const dismissHold = 1500 * time.Millisecond

// blockQuitShortcut is swapped out in tests
var blockQuitShortcut = platform.BlockQuitShortcut

// alertNotifier opens an AlertWindow for every fired alarm
type alertNotifier struct {
	app fyne.App
}

func (n alertNotifier) Notify(_ context.Context, alarm models.Alarm) error {
	NewAlertWindow(n.app, alarm).Show()
	return nil
}

// AlertWindow shows a fired alarm until the user holds the dismiss button
type AlertWindow struct {
	window fyne.Window
	app    fyne.App
	alarm  models.Alarm

	// releaseQuit gives the quit shortcut back once the window closes
	releaseQuit func()
}

func NewAlertWindow(app fyne.App, alarm models.Alarm) *AlertWindow {
	aw := &AlertWindow{
		app:   app,
		alarm: alarm,
	}

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		aw.window = app.NewWindow(notify.Title)
		aw.buildUI()
		aw.window.SetFixedSize(true)
		aw.window.SetOnClosed(func() {
			if aw.releaseQuit != nil {
				aw.releaseQuit()
				aw.releaseQuit = nil
			}
		})
	})

	return aw
}

func (aw *AlertWindow) buildUI() {
	title := canvas.NewText(models.FormatDisplay(aw.alarm), nil)
	title.TextSize = 48
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(container.NewPadded(title))

	if aw.alarm.Note != "" {
		note := widget.NewLabel(aw.alarm.Note)
		note.Wrapping = fyne.TextWrapWord
		note.Alignment = fyne.TextAlignCenter
		content.Add(container.NewPadded(note))
	}

	content.Add(widget.NewSeparator())
	content.Add(components.NewHoldButton("Hold to dismiss", dismissHold, func() {
		fyne.Do(aw.window.Close)
	}))

	aw.window.SetContent(container.NewPadded(container.NewCenter(content)))
}

// Show raises the window, pulling the app to the front if it is in the background
func (aw *AlertWindow) Show() {
	fyne.Do(func() {
		if aw.window == nil {
			return
		}
		if !platform.IsAppActive() {
			platform.ActivateApp()
		}
		if aw.releaseQuit == nil {
			aw.releaseQuit = blockQuitShortcut()
		}
		aw.window.Show()
		aw.window.RequestFocus()
	})
}
