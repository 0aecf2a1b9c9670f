// Package storage persists the habit and timer documents as JSON files in
// the data directory. Writes are atomic with a best-effort .bak alongside
// each file; loads recover from the backup when the primary is corrupt.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cadence/internal/fsutil"
	"cadence/internal/habit"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	habitsFile = "habits.json"
	timersFile = "timers.json"
)

// Storage handles all file I/O operations.
type Storage struct {
	dataDir string
}

// New creates a Storage instance rooted at dataDir, creating the directory
// and empty data files on first run.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir}
	if err := s.initFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

// DataDir returns the path to the data directory.
func (s *Storage) DataDir() string {
	return s.dataDir
}

// initFiles creates default JSON files if they don't exist.
func (s *Storage) initFiles() error {
	if !fileExists(s.path(habitsFile)) {
		if err := s.SaveAll(map[string]habit.Habit{}); err != nil {
			return err
		}
	}
	if !fileExists(s.path(timersFile)) {
		if err := s.SaveTimers(map[string]map[string]habit.ActiveTimer{}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeJSONAtomic(filename, v)
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
}

func (s *Storage) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)

	// Try backup first.
	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if err := json.Unmarshal(bakData, v); err == nil {
			corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(filename, v)
			return fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), filename)
		}
	}

	// No usable backup: preserve the broken file (best effort) and reset.
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	return fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}

// ============================================================================
// Habits
// ============================================================================

// LoadAll reads the habit map from disk. Habits with a nil history get an
// empty one so callers never index into nil.
func (s *Storage) LoadAll() (map[string]habit.Habit, error) {
	habits := map[string]habit.Habit{}
	if err := s.loadJSONWithRecovery(habitsFile, &habits); err != nil {
		return nil, err
	}
	for id, h := range habits {
		if h.History == nil {
			h.History = map[string]habit.Record{}
			habits[id] = h
		}
	}
	return habits, nil
}

// SaveAll writes the whole habit map to disk.
func (s *Storage) SaveAll(habits map[string]habit.Habit) error {
	return s.writeJSONAtomic(habitsFile, habits)
}

// SaveOne merges a single habit into the on-disk map. An empty id is
// rejected rather than silently creating an unkeyed entry.
func (s *Storage) SaveOne(h habit.Habit) error {
	if h.ID == "" {
		return fmt.Errorf("habit id is required")
	}
	habits, err := s.LoadAll()
	if err != nil {
		return err
	}
	habits[h.ID] = h
	return s.SaveAll(habits)
}

// ============================================================================
// Timers
// ============================================================================

// LoadTimers reads the active-timer map from disk, keyed by habit id and
// then by date stamp.
func (s *Storage) LoadTimers() (map[string]map[string]habit.ActiveTimer, error) {
	timers := map[string]map[string]habit.ActiveTimer{}
	if err := s.loadJSONWithRecovery(timersFile, &timers); err != nil {
		return nil, err
	}
	return timers, nil
}

// SaveTimers writes the active-timer map to disk.
func (s *Storage) SaveTimers(timers map[string]map[string]habit.ActiveTimer) error {
	return s.writeJSONAtomic(timersFile, timers)
}
