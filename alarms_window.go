package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/borgmon/desk-alarm/pkg/store"
	"github.com/borgmon/desk-alarm/pkg/ui/components"
)

// AlarmsWindow lists live and deleted alarms and edits the live ones
type AlarmsWindow struct {
	window   fyne.Window
	app      fyne.App
	store    *store.AlarmStore
	onChange func()

	alarms      []models.Alarm
	history     []models.HistoryEntry
	alarmList   *components.ListManager
	historyList *components.ListManager
}

func NewAlarmsWindow(app fyne.App, alarmStore *store.AlarmStore, onChange func()) *AlarmsWindow {
	aw := &AlarmsWindow{
		app:      app,
		store:    alarmStore,
		onChange: onChange,
	}

	aw.window = app.NewWindow("Desk Alarm - Alarms")
	aw.buildUI()
	aw.window.Resize(fyne.NewSize(480, 360))

	return aw
}

func (aw *AlarmsWindow) buildUI() {
	aw.alarms = aw.store.ReadAll()
	aw.history = aw.store.History()

	editButton := widget.NewButton("Edit...", aw.showEditDialog)

	var alarmsTab fyne.CanvasObject
	aw.alarmList, alarmsTab = components.NewListManager(components.ListManagerConfig{
		Len: func() int { return len(aw.alarms) },
		RenderItem: func(i int) string {
			return alarmRow(aw.alarms[i])
		},
		OnAdd:      aw.showAddDialog,
		OnRemove:   aw.deleteAlarm,
		AddControl: container.NewHBox(editButton),
	})

	var historyTab fyne.CanvasObject
	aw.historyList, historyTab = components.NewListManager(components.ListManagerConfig{
		Len: func() int { return len(aw.history) },
		RenderItem: func(i int) string {
			entry := aw.history[i]
			return fmt.Sprintf("%s  (deleted %s)", alarmRow(entry.Alarm), entry.DeletedAt[:min(len(entry.DeletedAt), 19)])
		},
	})

	tabs := container.NewAppTabs(
		container.NewTabItem("Alarms", alarmsTab),
		container.NewTabItem("History", historyTab),
	)
	aw.window.SetContent(tabs)
}

// Reload re-reads both collections from the store
func (aw *AlarmsWindow) Reload() {
	aw.alarms = aw.store.ReadAll()
	aw.history = aw.store.History()
	aw.alarmList.Refresh()
	aw.historyList.Refresh()
}

func (aw *AlarmsWindow) changed() {
	aw.Reload()
	if aw.onChange != nil {
		aw.onChange()
	}
}

func (aw *AlarmsWindow) showAddDialog() {
	showAlarmDialog("Add Alarm", "Create", alarmInput{Hour12: 7, Period: models.PeriodAM}, aw.window, func(in alarmInput) error {
		if _, err := aw.store.Create(in.Hour12, in.Minute, in.Second, in.Period, in.Note); err != nil {
			return err
		}
		aw.changed()
		return nil
	})
}

func (aw *AlarmsWindow) showEditDialog() {
	idx := aw.alarmList.Selected()
	if idx < 0 || idx >= len(aw.alarms) {
		dialog.ShowInformation("No Selection", "Please select an alarm from the list to edit.", aw.window)
		return
	}
	alarm := aw.alarms[idx]

	initial := alarmInput{
		Hour12: alarm.Hour12,
		Minute: alarm.Minute,
		Second: alarm.Second,
		Period: alarm.Period,
		Note:   alarm.Note,
	}
	showAlarmDialog(fmt.Sprintf("Edit Alarm #%d", alarm.ID), "Save", initial, aw.window, func(in alarmInput) error {
		_, found, err := aw.store.Update(alarm.ID, store.UpdateFields{
			Hour12: &in.Hour12,
			Minute: &in.Minute,
			Second: &in.Second,
			Period: &in.Period,
			Note:   &in.Note,
		})
		if err != nil {
			return err
		}
		if !found {
			aw.changed()
			return fmt.Errorf("alarm #%d no longer exists", alarm.ID)
		}
		aw.changed()
		return nil
	})
}

func (aw *AlarmsWindow) deleteAlarm(idx int) {
	alarm := aw.alarms[idx]
	if _, err := aw.store.Delete(alarm.ID); err != nil {
		dialog.ShowError(err, aw.window)
	}
	aw.changed()
}

func alarmRow(alarm models.Alarm) string {
	row := fmt.Sprintf("#%d  %s :%02d", alarm.ID, models.FormatDisplay(alarm), alarm.Second)
	if alarm.Note != "" {
		row += "  " + alarm.Note
	}
	return row
}
