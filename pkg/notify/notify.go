// Package notify delivers fired alarms to the user.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/borgmon/desk-alarm/pkg/models"
)

// Title is the headline of every alarm notification
const Title = "Alarm!"

// Notifier delivers one fired alarm. Implementations should honor ctx.
type Notifier interface {
	Notify(ctx context.Context, alarm models.Alarm) error
}

// Message renders the notification body
func Message(alarm models.Alarm) string {
	body := "Time: " + models.FormatDisplay(alarm)
	if alarm.Note != "" {
		body += "\nNote: " + alarm.Note
	}
	return body
}

// Log writes notifications to a logger. It is the sink of last resort when
// nothing else is configured.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(ctx context.Context, alarm models.Alarm) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, Title, "id", alarm.ID, "at", models.FormatDisplay(alarm), "note", alarm.Note)
	return nil
}

// Multi fans a notification out to every notifier. One failing sink does not
// stop the others; all errors are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, alarm models.Alarm) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alarm); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}
