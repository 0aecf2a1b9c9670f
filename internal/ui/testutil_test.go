package ui

import (
	"testing"
	"time"

	"cadence/internal/config"
	"cadence/internal/habit"
	"cadence/internal/notify"
	"cadence/internal/storage"
	"cadence/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testNow is a Tuesday.
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// fixedClock pins the store's notion of now for deterministic rendering.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
func (c fixedClock) Today() string  { return c.now.Format("2006-01-02") }

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStore builds a hydrated store over a temp-dir storage backend
// with notifications disabled.
func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	backend, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	reminders := notify.NewReminders(notify.NewNoop(), false)
	s := store.New(backend, reminders)
	s.SetClock(fixedClock{now: testNow})
	if err := s.Hydrate(); err != nil {
		t.Fatalf("failed to hydrate store: %v", err)
	}
	t.Cleanup(s.Flush)
	return s
}

// addTestHabit inserts a daily simple habit and returns it.
func addTestHabit(t *testing.T, s *store.Store, title string) habit.Habit {
	t.Helper()
	h, err := s.AddHabit(title, "", habit.Repetition{Kind: habit.RepeatDaily}, habit.Goal{Kind: habit.GoalSimple})
	if err != nil {
		t.Fatalf("failed to add habit %q: %v", title, err)
	}
	return h
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}
