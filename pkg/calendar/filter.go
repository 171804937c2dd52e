package calendar

import (
	"log/slog"
	"time"
)

func shouldImport(event calendarEvent, stats *filterStats, logger *slog.Logger) bool {
	if event.Start.IsZero() {
		stats.filteredMissingTime++
		logger.Debug("Skipping event without start time", "summary", event.Summary)
		return false
	}

	if event.Status == statusCancelled {
		stats.filteredCancelled++
		logger.Debug("Skipping cancelled event", "summary", event.Summary, "start", event.Start.Format("2006-01-02 15:04"))
		return false
	}

	if isAllDayEvent(event) {
		stats.filteredAllDay++
		logger.Debug("Skipping all-day event", "summary", event.Summary, "start", event.Start.Format("2006-01-02"))
		return false
	}

	return true
}

// isAllDayEvent reports date-valued starts and timed events lasting a day or more
func isAllDayEvent(event calendarEvent) bool {
	if event.AllDay {
		return true
	}
	if event.End.IsZero() {
		return false
	}
	startDate := event.Start.Format("2006-01-02")
	endDate := event.End.Format("2006-01-02")
	return startDate != endDate && event.End.Sub(event.Start) >= 24*time.Hour
}

type filterStats struct {
	totalComponents     int
	totalEvents         int
	filteredMissingTime int
	filteredCancelled   int
	filteredAllDay      int
	filteredDuplicates  int
}

func (s *filterStats) logSummary(logger *slog.Logger, imported int) {
	filtered := s.filteredMissingTime + s.filteredCancelled + s.filteredAllDay + s.filteredDuplicates
	logger.Info("Calendar parsed",
		"components", s.totalComponents,
		"events", s.totalEvents,
		"imported", imported,
		"filtered", filtered)
	if filtered > 0 {
		logger.Debug("Filtered breakdown",
			"cancelled", s.filteredCancelled,
			"all_day", s.filteredAllDay,
			"missing_time", s.filteredMissingTime,
			"duplicates", s.filteredDuplicates)
	}
}
