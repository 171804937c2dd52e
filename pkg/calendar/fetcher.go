package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/spf13/afero"
)

const maxCalendarSize = 10 << 20

// Fetch reads an iCalendar document from an http(s) URL or a file on fsys
func Fetch(ctx context.Context, fsys afero.Fs, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := afero.ReadFile(fsys, source)
		if err != nil {
			return nil, fmt.Errorf("failed to read calendar file: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar URL: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCalendarSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// Import parses an iCalendar document into alarm drafts, one per timed event
// at its local start time. Cancelled, all-day and duplicate events are
// skipped; recurrence rules are ignored since every alarm repeats daily.
func Import(data []byte, logger *slog.Logger) ([]Draft, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "calendar")

	if err := validateICalFormat(string(data)); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(bytes.NewReader(data))
	drafts := []Draft{}
	seenUIDs := make(map[string]bool)
	seenKeys := make(map[string]bool)
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		ownExport := false
		if prodID := cal.Props.Get(ical.PropProductID); prodID != nil {
			ownExport = prodID.Value == ProductID
		}

		for _, comp := range cal.Children {
			stats.totalComponents++
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			normalizeTimezones(comp)
			event := parseEvent(comp)
			if !shouldImport(event, stats, logger) {
				continue
			}

			draft := event.draft(ownExport)
			if isDuplicate(draft, seenUIDs, seenKeys) {
				stats.filteredDuplicates++
				logger.Debug("Skipping duplicate event", "uid", draft.UID, "summary", event.Summary)
				continue
			}
			drafts = append(drafts, draft)
		}
	}

	stats.logSummary(logger, len(drafts))
	return drafts, nil
}

func validateICalFormat(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", preview)
	}

	return nil
}

func isDuplicate(draft Draft, seenUIDs, seenKeys map[string]bool) bool {
	if draft.UID != "" && seenUIDs[draft.UID] {
		return true
	}
	if seenKeys[draft.Key()] {
		return true
	}

	if draft.UID != "" {
		seenUIDs[draft.UID] = true
	}
	seenKeys[draft.Key()] = true
	return false
}
