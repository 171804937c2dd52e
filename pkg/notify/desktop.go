package notify

import (
	"context"

	"fyne.io/fyne/v2"
	"github.com/borgmon/desk-alarm/pkg/models"
)

// Desktop shows alarms as native desktop notifications through a fyne app
type Desktop struct {
	App fyne.App
}

func (d Desktop) Notify(_ context.Context, alarm models.Alarm) error {
	n := fyne.NewNotification(Title, Message(alarm))
	fyne.Do(func() {
		d.App.SendNotification(n)
	})
	return nil
}
