package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/borgmon/desk-alarm/pkg/logger"
	"github.com/borgmon/desk-alarm/pkg/models"
	"github.com/spf13/afero"
)

const (
	AlarmsFile  = "alarms.json"
	HistoryFile = "history.json"
)

// AlarmStore persists live alarms and the history of deleted alarms as two
// JSON files. Every operation loads the files it needs and every mutation
// rewrites them in full, so the files are always the source of truth.
type AlarmStore struct {
	// Serializes every load-modify-save round trip
	mu sync.Mutex

	fs          afero.Fs
	dir         string
	alarmsPath  string
	historyPath string
	logger      *slog.Logger

	// Now stamps created_at and deleted_at
	Now func() time.Time
}

// UpdateFields selects which alarm fields an update replaces. Nil fields are
// left unchanged.
type UpdateFields struct {
	Hour12 *int
	Minute *int
	Second *int
	Period *models.Period
	Note   *string
}

// NewAlarmStore creates a store rooted at dir on the given filesystem
func NewAlarmStore(fsys afero.Fs, dir string, logger *slog.Logger) *AlarmStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlarmStore{
		fs:          fsys,
		dir:         dir,
		alarmsPath:  filepath.Join(dir, AlarmsFile),
		historyPath: filepath.Join(dir, HistoryFile),
		logger:      logger.With("component", "store"),
		Now:         time.Now,
	}
}

// Init creates the data directory and empty collections if they are missing
func (s *AlarmStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	for _, path := range []string{s.alarmsPath, s.historyPath} {
		exists, err := afero.Exists(s.fs, path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if exists {
			continue
		}
		if err := afero.WriteFile(s.fs, path, []byte("[]"), 0o644); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		s.logger.Debug("Created empty collection", "path", path)
	}
	return nil
}

// Create appends a new alarm and persists it. The caller is expected to have
// validated the inputs with models.ValidateTime; an hour12 of 0 is stored as 12.
func (s *AlarmStore) Create(hour12, minute, second int, period models.Period, note string) (models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarms := s.loadAlarms()
	history := s.loadHistory()

	hour12 = models.NormalizeHour12(hour12)
	alarm := models.Alarm{
		ID:        nextID(alarms, history),
		Hour:      models.ToHour24(hour12, period),
		Minute:    minute,
		Second:    second,
		Period:    period,
		Hour12:    hour12,
		Note:      note,
		CreatedAt: models.FormatTimestamp(s.Now()),
		Active:    true,
	}

	alarms = append(alarms, alarm)
	if err := s.save(s.alarmsPath, alarms); err != nil {
		return models.Alarm{}, err
	}

	s.logger.Info("Alarm created", "id", alarm.ID, "at", models.FormatDisplay(alarm), "second", alarm.Second)
	return alarm, nil
}

// ReadActive returns live alarms with active set, in storage order
func (s *AlarmStore) ReadActive() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarms := s.loadAlarms()
	active := make([]models.Alarm, 0, len(alarms))
	for _, a := range alarms {
		if a.Active {
			active = append(active, a)
		}
	}
	return active
}

// ReadAll returns every live alarm regardless of the active flag
func (s *AlarmStore) ReadAll() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadAlarms()
}

// GetByID looks up a live alarm
func (s *AlarmStore) GetByID(id int) (models.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.loadAlarms() {
		if a.ID == id {
			return a, true
		}
	}
	return models.Alarm{}, false
}

// Update replaces the supplied fields of alarm id. When the hour or the period
// changes, the 24-hour value is recomputed from the stored hour_12 and period
// after both have been applied. Returns false if id does not exist.
func (s *AlarmStore) Update(id int, fields UpdateFields) (models.Alarm, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarms := s.loadAlarms()
	idx := indexOf(alarms, id)
	if idx < 0 {
		return models.Alarm{}, false, nil
	}

	alarm := &alarms[idx]
	recompute := fields.Hour12 != nil || fields.Period != nil
	if recompute {
		// Records written before hour_12/period existed only carry hour
		hour12, period := models.FromHour24(alarm.Hour)
		if alarm.Hour12 == 0 {
			alarm.Hour12 = hour12
		}
		if alarm.Period == "" {
			alarm.Period = period
		}
	}
	if fields.Hour12 != nil {
		alarm.Hour12 = models.NormalizeHour12(*fields.Hour12)
	}
	if fields.Minute != nil {
		alarm.Minute = *fields.Minute
	}
	if fields.Second != nil {
		alarm.Second = *fields.Second
	}
	if fields.Period != nil {
		alarm.Period = *fields.Period
	}
	if fields.Note != nil {
		alarm.Note = *fields.Note
	}
	if recompute {
		alarm.Hour = models.ToHour24(alarm.Hour12, alarm.Period)
	}

	if err := s.save(s.alarmsPath, alarms); err != nil {
		return models.Alarm{}, true, err
	}

	s.logger.Info("Alarm updated", "id", id, "at", models.FormatDisplay(*alarm), "second", alarm.Second)
	return *alarm, true, nil
}

// Delete moves alarm id into the history. Returns false without touching
// either collection if id does not exist.
func (s *AlarmStore) Delete(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarms := s.loadAlarms()
	idx := indexOf(alarms, id)
	if idx < 0 {
		return false, nil
	}
	history := s.loadHistory()

	entry := models.HistoryEntry{
		Alarm:     alarms[idx],
		DeletedAt: models.FormatTimestamp(s.Now()),
	}
	remaining := make([]models.Alarm, 0, len(alarms)-1)
	remaining = append(remaining, alarms[:idx]...)
	remaining = append(remaining, alarms[idx+1:]...)

	// History first: if the live write then fails, the history write is undone
	// so the alarm is never in both collections.
	if err := s.save(s.historyPath, append(history, entry)); err != nil {
		return true, err
	}
	if err := s.save(s.alarmsPath, remaining); err != nil {
		if rbErr := s.save(s.historyPath, history); rbErr != nil {
			s.logger.Error("Failed to roll back history", "id", id, logger.Err(rbErr))
		}
		return true, err
	}

	s.logger.Info("Alarm moved to history", "id", id, "at", models.FormatDisplay(entry.Alarm))
	return true, nil
}

// History returns every deleted alarm, oldest first
func (s *AlarmStore) History() []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadHistory()
}

// nextID returns one more than the largest id ever handed out. History is
// included so ids of deleted alarms are never reused.
func nextID(alarms []models.Alarm, history []models.HistoryEntry) int {
	maxID := 0
	for _, a := range alarms {
		maxID = max(maxID, a.ID)
	}
	for _, h := range history {
		maxID = max(maxID, h.ID)
	}
	return maxID + 1
}

func indexOf(alarms []models.Alarm, id int) int {
	for i, a := range alarms {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *AlarmStore) loadAlarms() []models.Alarm {
	return load[models.Alarm](s, s.alarmsPath)
}

func (s *AlarmStore) loadHistory() []models.HistoryEntry {
	return load[models.HistoryEntry](s, s.historyPath)
}

// load reads a JSON array. A missing, empty or corrupt file is an empty
// collection.
func load[T any](s *AlarmStore, path string) []T {
	records := []T{}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read collection, treating as empty", "path", path, logger.Err(err))
		}
		return records
	}
	if len(data) == 0 {
		return records
	}
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Corrupt collection, treating as empty", "path", path, logger.Err(err))
		return []T{}
	}
	if records == nil {
		// "null" on disk
		return []T{}
	}
	return records
}

// save rewrites a collection through a temporary file so readers never see a
// half-written file.
func (s *AlarmStore) save(path string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
