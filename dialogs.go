package main

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/desk-alarm/pkg/models"
)

// alarmInput is what the add and edit dialogs collect
type alarmInput struct {
	Hour12 int
	Minute int
	Second int
	Period models.Period
	Note   string
}

// alarmForm holds the widgets shared by the add and edit dialogs
type alarmForm struct {
	hourSelect   *widget.Select
	minuteEntry  *widget.Entry
	secondEntry  *widget.Entry
	periodRadio  *widget.RadioGroup
	noteEntry    *widget.Entry
	hourOptions  []string
	periodLabels []string
}

func newAlarmForm(initial alarmInput) *alarmForm {
	f := &alarmForm{periodLabels: []string{string(models.PeriodAM), string(models.PeriodPM)}}
	for h := 1; h <= 12; h++ {
		f.hourOptions = append(f.hourOptions, strconv.Itoa(h))
	}

	f.hourSelect = widget.NewSelect(f.hourOptions, nil)
	f.hourSelect.SetSelected(strconv.Itoa(models.NormalizeHour12(initial.Hour12)))

	f.minuteEntry = widget.NewEntry()
	f.minuteEntry.SetText(fmt.Sprintf("%02d", initial.Minute))
	f.minuteEntry.Validator = rangeValidator("minute", models.ValidateMinute)

	f.secondEntry = widget.NewEntry()
	f.secondEntry.SetText(fmt.Sprintf("%02d", initial.Second))
	f.secondEntry.Validator = rangeValidator("second", models.ValidateSecond)

	f.periodRadio = widget.NewRadioGroup(f.periodLabels, nil)
	f.periodRadio.Horizontal = true
	f.periodRadio.Required = true
	period := initial.Period
	if period == "" {
		period = models.PeriodAM
	}
	f.periodRadio.SetSelected(string(period))

	f.noteEntry = widget.NewEntry()
	f.noteEntry.SetPlaceHolder("optional")
	f.noteEntry.SetText(initial.Note)

	return f
}

func (f *alarmForm) items() []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem("Hour", f.hourSelect),
		widget.NewFormItem("Minute", f.minuteEntry),
		widget.NewFormItem("Second", f.secondEntry),
		widget.NewFormItem("Period", f.periodRadio),
		widget.NewFormItem("Note", f.noteEntry),
	}
}

// read parses and validates the form
func (f *alarmForm) read() (alarmInput, error) {
	var in alarmInput
	var err error

	if in.Hour12, err = strconv.Atoi(f.hourSelect.Selected); err != nil {
		return in, models.Errorf(models.ErrInvalid, "please select an hour")
	}
	if in.Minute, err = parseField("minute", f.minuteEntry.Text); err != nil {
		return in, err
	}
	if in.Second, err = parseField("second", f.secondEntry.Text); err != nil {
		return in, err
	}
	if in.Period, err = models.ParsePeriod(f.periodRadio.Selected); err != nil {
		return in, err
	}
	in.Note = strings.TrimSpace(f.noteEntry.Text)

	return in, models.ValidateTime(in.Hour12, in.Minute, in.Second, in.Period)
}

func parseField(name, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, models.Errorf(models.ErrInvalid, "%s must be a number", name)
	}
	return v, nil
}

func rangeValidator(name string, validate func(int) error) fyne.StringValidator {
	return func(text string) error {
		v, err := parseField(name, text)
		if err != nil {
			return err
		}
		return validate(v)
	}
}

// showAlarmDialog asks for an alarm's fields and hands them to onSubmit. An
// error from onSubmit is shown to the user.
func showAlarmDialog(title, confirm string, initial alarmInput, parent fyne.Window, onSubmit func(alarmInput) error) {
	form := newAlarmForm(initial)

	dialog.ShowForm(title, confirm, "Cancel", form.items(), func(confirmed bool) {
		if !confirmed {
			return
		}

		in, err := form.read()
		if err != nil {
			dialog.ShowError(fmt.Errorf("%s", models.ErrorDescription(err)), parent)
			return
		}
		if err := onSubmit(in); err != nil {
			dialog.ShowError(err, parent)
		}
	}, parent)
}
