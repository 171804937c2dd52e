package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/borgmon/desk-alarm/pkg/models"
	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// Shoutrrr sends alarms to any service shoutrrr understands (ntfy, telegram,
// pushover, generic webhooks ...)
type Shoutrrr struct {
	sender *router.ServiceRouter
}

// NewShoutrrr builds a single sender for all urls
func NewShoutrrr(urls []string, timeout time.Duration) (*Shoutrrr, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one URL is required")
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("invalid notification URL: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &Shoutrrr{sender: sender}, nil
}

func (s *Shoutrrr) Notify(ctx context.Context, alarm models.Alarm) error {
	params := stypes.Params{}
	params.SetTitle(Title)

	done := make(chan []error, 1)
	go func() {
		done <- s.sender.Send(Message(alarm), &params)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case errs := <-done:
		return errors.Join(errs...)
	}
}
