// Package backup snapshots the data directory into timestamped
// subdirectories and restores from them. Every restore is preceded by a
// safety snapshot so a bad restore can itself be undone.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"cadence/internal/fsutil"
)

const (
	ManifestVersion = "1.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	// Backup directories are named stampFormat plus a _XXX millisecond
	// suffix, e.g. 2026-03-10_090000_041.
	stampFormat = "2006-01-02_150405"
	nameLen     = len(stampFormat) + 4
)

// Data files included in every snapshot.
var dataFiles = []string{"habits.json", "timers.json"}

// Manager snapshots and restores the data files under dataDir.
type Manager struct {
	dataDir    string
	backupDir  string
	appVersion string
}

// Manifest records what a snapshot contains.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Files      []string       `json:"files"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo is a listing entry for one snapshot.
type BackupInfo struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Stats     map[string]int
}

func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
	}
}

// Create snapshots all present data files and returns the snapshot name.
// Missing data files are skipped, not treated as errors.
func (m *Manager) Create() (string, error) {
	now := time.Now()
	name := fmt.Sprintf("%s_%03d", now.Format(stampFormat), now.Nanosecond()/1e6)
	dir := filepath.Join(m.backupDir, name)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Stats:      make(map[string]int),
	}

	for _, filename := range dataFiles {
		src := filepath.Join(m.dataDir, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyPrivate(src, filepath.Join(dir, filename)); err != nil {
			_ = os.RemoveAll(dir)
			return "", fmt.Errorf("failed to copy %s: %w", filename, err)
		}
		manifest.Files = append(manifest.Files, filename)
		if n, err := countItems(src, filename); err == nil {
			manifest.Stats[statsKeyForFile(filename)] = n
		}
	}

	if err := writeJSON(filepath.Join(dir, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return name, nil
}

// List returns all snapshots, newest first. An empty or missing backup
// directory yields an empty list.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.describe(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore copies the named snapshot's files back into the data directory.
// A safety snapshot of the current state is taken first; its name is
// included in any error so the pre-restore state can be recovered.
func (m *Manager) Restore(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	dir := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(dir, ManifestFile), &manifest); err != nil {
		// No manifest; restore whatever data files the snapshot holds.
		manifest.Files = dataFiles
	}

	safety, err := m.Create()
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, filename := range manifest.Files {
		src := filepath.Join(dir, filename)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(m.dataDir, filename)
		if err := copyPrivate(src, dst); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safety, err)
		}
		if err := validateJSON(dst); err != nil {
			return fmt.Errorf("restored file %s is invalid (safety backup: %s): %w", filename, safety, err)
		}
	}
	return nil
}

// RestoreLatest restores from the most recent snapshot.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(backups[0].Name)
}

// Delete removes one snapshot.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	dir := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(dir)
}

// Prune deletes all but the keepCount newest snapshots and reports how
// many were removed.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// GetBackup returns listing info for one snapshot.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.describe(name)
}

// describe builds a BackupInfo from a snapshot's manifest, falling back
// to the timestamp encoded in its directory name when the manifest is
// missing or unreadable.
func (m *Manager) describe(name string) (*BackupInfo, error) {
	dir := filepath.Join(m.backupDir, name)
	var manifest Manifest
	if err := readJSON(filepath.Join(dir, ManifestFile), &manifest); err != nil {
		createdAt, nameErr := parseBackupName(name)
		if nameErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = make(map[string]int)
	}
	return &BackupInfo{
		Name:      name,
		Path:      dir,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// validateBackupName rejects anything that is not a bare snapshot name,
// so Restore and Delete can never reach outside the backup directory.
func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// parseBackupName recovers the creation instant from a snapshot
// directory name.
func parseBackupName(name string) (time.Time, error) {
	if len(name) != nameLen || name[len(stampFormat)] != '_' {
		return time.Time{}, fmt.Errorf("invalid backup name format")
	}
	base, err := time.Parse(stampFormat, name[:len(stampFormat)])
	if err != nil {
		return time.Time{}, err
	}
	ms, err := strconv.Atoi(name[len(stampFormat)+1:])
	if err != nil || ms < 0 || ms > 999 {
		return time.Time{}, fmt.Errorf("invalid backup name format")
	}
	return base.Add(time.Duration(ms) * time.Millisecond), nil
}

// copyPrivate copies a file with owner-only permissions, writing the
// destination atomically.
func copyPrivate(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(dst, data, 0600)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// validateJSON checks that a restored file parses. A missing file is
// fine; Restore skips files the snapshot never had.
func validateJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var v interface{}
	return json.Unmarshal(data, &v)
}

// countItems counts the entries in a data file for the manifest stats.
func countItems(path, filename string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, err
	}

	switch filename {
	case "habits.json":
		// Top-level object keyed by habit id.
		return len(result), nil
	case "timers.json":
		// Habit id -> date -> session; count sessions.
		count := 0
		for _, dates := range result {
			if inner, ok := dates.(map[string]interface{}); ok {
				count += len(inner)
			}
		}
		return count, nil
	}
	return 0, nil
}

func statsKeyForFile(filename string) string {
	switch filename {
	case "habits.json":
		return "habits"
	case "timers.json":
		return "active_timers"
	default:
		return filename
	}
}
