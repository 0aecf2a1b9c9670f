// Package store owns the canonical in-memory habit map and the active-timer
// map. All mutations go through a Store instance; the pure engines in the
// habit package compute next states, the store swaps them in and fires
// persistence and reminder side effects without blocking the mutation.
//
// In-memory state is the source of truth: it is updated first, persistence is
// fire-and-forget, and a crash between the two loses at most the latest
// action.
package store

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"cadence/internal/habit"

	"github.com/google/uuid"
)

const maxTitleLen = 60

// Persistence is the external document store. Failures are logged, never
// surfaced into the mutation path.
type Persistence interface {
	SaveAll(habits map[string]habit.Habit) error
	SaveOne(h habit.Habit) error
	LoadAll() (map[string]habit.Habit, error)
	SaveTimers(timers map[string]map[string]habit.ActiveTimer) error
	LoadTimers() (map[string]map[string]habit.ActiveTimer, error)
}

// ReminderService schedules goal-reached reminders for running timers.
// Best-effort: failures are logged only.
type ReminderService interface {
	Schedule(id, title string, at time.Time) error
	Cancel(id string) error
	CancelAll() error
}

// Clock supplies wall-clock instants and local calendar-day stamps,
// injectable for deterministic tests.
type Clock interface {
	Now() time.Time
	Today() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
func (systemClock) Today() string  { return habit.Stamp(time.Now()) }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Patch is a partial habit update. Nil fields are left untouched. The goal
// variant of a habit is immutable after creation and so has no patch field.
type Patch struct {
	Title  *string
	Icon   *string
	Repeat *habit.Repetition
}

// Store coordinates habits, active timers and the external collaborators.
type Store struct {
	mu       sync.Mutex
	habits   map[string]habit.Habit
	timers   map[string]map[string]habit.ActiveTimer
	selected string
	lastErr  string
	hydrated bool
	tick     time.Time

	persist   Persistence
	reminders ReminderService
	clock     Clock
	logf      func(format string, args ...any)

	persistMu sync.Mutex // serializes fire-and-forget writes
	pending   sync.WaitGroup
}

// New creates a store bound to its collaborators. The clock defaults to the
// system clock; override it with SetClock before use in tests.
func New(persist Persistence, reminders ReminderService) *Store {
	return &Store{
		habits:    make(map[string]habit.Habit),
		timers:    make(map[string]map[string]habit.ActiveTimer),
		persist:   persist,
		reminders: reminders,
		clock:     systemClock{},
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// SetClock overrides the clock. Passing nil resets to the system clock.
func (s *Store) SetClock(c Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		c = systemClock{}
	}
	s.clock = c
}

// SetLogf overrides where fire-and-forget failures are reported.
func (s *Store) SetLogf(logf func(format string, args ...any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logf != nil {
		s.logf = logf
	}
}

// Hydrate loads habits and active timers from persistence. It must run once
// before the store is used; callers follow it with ReconcileActiveTimers so
// time elapsed while the process was down is credited.
func (s *Store) Hydrate() error {
	habits, err := s.persist.LoadAll()
	if err != nil {
		return fmt.Errorf("load habits: %w", err)
	}
	timers, err := s.persist.LoadTimers()
	if err != nil {
		return fmt.Errorf("load timers: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if habits == nil {
		habits = make(map[string]habit.Habit)
	}
	if timers == nil {
		timers = make(map[string]map[string]habit.ActiveTimer)
	}
	s.habits = habits
	s.timers = timers
	s.selected = s.clock.Today()
	s.hydrated = true
	return nil
}

// Hydrated reports whether Hydrate has completed.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Flush waits for all pending fire-and-forget writes. Used on shutdown and in
// tests; correctness never depends on it running (the next launch reconciles).
func (s *Store) Flush() {
	s.pending.Wait()
}

// =============================================================================
// CRUD
// =============================================================================

// AddHabit creates a habit stamped with today's date and an empty history.
func (s *Store) AddHabit(title, icon string, rep habit.Repetition, goal habit.Goal) (habit.Habit, error) {
	title = strings.TrimSpace(title)
	icon = strings.TrimSpace(icon)

	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		return habit.Habit{}, s.fail("habit title is required")
	}
	if len(title) > maxTitleLen {
		return habit.Habit{}, s.fail("habit title too long (max %d)", maxTitleLen)
	}
	if !rep.Valid() {
		return habit.Habit{}, s.fail("invalid repetition config")
	}
	if !goal.Valid() {
		return habit.Habit{}, s.fail("invalid goal config")
	}

	id := uuid.NewString()
	for s.habits[id].ID != "" { // id generation should never collide; stay defensive
		id = uuid.NewString()
	}

	h := habit.Habit{
		ID:        id,
		Title:     title,
		Icon:      icon,
		Repeat:    rep,
		Goal:      goal,
		History:   make(map[string]habit.Record),
		CreatedAt: s.clock.Today(),
	}
	s.habits[id] = h
	s.lastErr = ""
	s.persistOne(h)
	return h.Clone(), nil
}

// UpdateHabit shallow-merges a patch into an existing habit. Unknown ids are
// a silent no-op.
func (s *Store) UpdateHabit(id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[id]
	if !ok {
		return nil
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return s.fail("habit title is required")
		}
		if len(title) > maxTitleLen {
			return s.fail("habit title too long (max %d)", maxTitleLen)
		}
		h.Title = title
	}
	if patch.Icon != nil {
		h.Icon = strings.TrimSpace(*patch.Icon)
	}
	if patch.Repeat != nil {
		if !patch.Repeat.Valid() {
			return s.fail("invalid repetition config")
		}
		h.Repeat = *patch.Repeat
	}

	s.habits[id] = h
	s.lastErr = ""
	s.persistOne(h)
	return nil
}

// DeleteHabit removes a habit along with its active timers and their
// reminders. Unknown ids are a silent no-op.
func (s *Store) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.habits[id]; !ok {
		return nil
	}
	for _, timer := range s.timers[id] {
		s.cancelReminder(timer.ID)
	}
	delete(s.timers, id)
	delete(s.habits, id)
	s.lastErr = ""
	s.persistAll()
	s.persistTimers()
	return nil
}

// ImportHabits replaces the entire habit map with the given payload. Entries
// missing an id or title are skipped with a warning; the count of entries
// actually imported is returned. Active timers and reminders are cleared,
// since they reference habits that no longer exist.
func (s *Store) ImportHabits(in map[string]habit.Habit) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in == nil {
		return 0, s.fail("import payload must be a keyed object")
	}

	imported := make(map[string]habit.Habit, len(in))
	for key, h := range in {
		if h.ID == "" || strings.TrimSpace(h.Title) == "" {
			s.logf("import: skipping entry %q: missing id or title", key)
			continue
		}
		if h.History == nil {
			h.History = make(map[string]habit.Record)
		}
		imported[h.ID] = h
	}

	s.habits = imported
	s.timers = make(map[string]map[string]habit.ActiveTimer)
	s.cancelAllReminders()
	s.lastErr = ""
	s.persistAll()
	s.persistTimers()
	return len(imported), nil
}

// Reset clears habits, active timers and the error state. Used for logout
// and test-reset scenarios.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.habits = make(map[string]habit.Habit)
	s.timers = make(map[string]map[string]habit.ActiveTimer)
	s.lastErr = ""
	s.cancelAllReminders()
	s.persistAll()
	s.persistTimers()
}

// =============================================================================
// Completion
// =============================================================================

// ApplyCompletion mutates one habit's record for one date. value and forced
// follow the completion engine's Update semantics; unknown ids are a silent
// no-op.
func (s *Store) ApplyCompletion(id, stamp string, value *int64, forced *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[id]
	if !ok {
		return nil
	}

	next, err := habit.ApplyCompletion(h, habit.Update{
		Stamp:       stamp,
		Value:       value,
		Forced:      forced,
		TimerActive: s.timerActiveLocked(id, stamp),
	})
	if err != nil {
		return s.fail("%v", err)
	}

	s.habits[id] = next
	s.lastErr = ""
	s.persistOne(next)
	return nil
}

// =============================================================================
// Queries
// =============================================================================

// Habit returns a copy of one habit.
func (s *Store) Habit(id string) (habit.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok {
		return habit.Habit{}, false
	}
	return h.Clone(), true
}

// Habits returns a deep copy of the whole habit map.
func (s *Store) Habits() map[string]habit.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.habitsCopyLocked()
}

func (s *Store) habitsCopyLocked() map[string]habit.Habit {
	out := make(map[string]habit.Habit, len(s.habits))
	for id, h := range s.habits {
		out[id] = h.Clone()
	}
	return out
}

// DueOn returns the habits due on a date, ordered by creation date then
// title so the list is stable across renders.
func (s *Store) DueOn(stamp string) []habit.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []habit.Habit
	for _, h := range s.habits {
		if habit.IsDue(h, stamp) {
			due = append(due, h.Clone())
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].CreatedAt != due[j].CreatedAt {
			return due[i].CreatedAt < due[j].CreatedAt
		}
		if due[i].Title != due[j].Title {
			return due[i].Title < due[j].Title
		}
		return due[i].ID < due[j].ID
	})
	return due
}

// Stats returns the derived analytics for one habit.
func (s *Store) Stats(id string) (habit.HabitStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok {
		return habit.HabitStats{}, false
	}
	return habit.Stats(h, s.clock.Today()), true
}

// Overall returns collection-wide analytics as of today.
func (s *Store) Overall() habit.OverallStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return habit.Overall(s.habits, s.clock.Today())
}

// Today returns the clock's current calendar-day stamp.
func (s *Store) Today() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Today()
}

// SelectedDate returns the date the UI is scrolled to.
func (s *Store) SelectedDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SetSelectedDate scrolls the habit list to a date.
func (s *Store) SetSelectedDate(stamp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !habit.IsStamp(stamp) {
		return s.fail("invalid date %q: expected YYYY-MM-DD", stamp)
	}
	s.selected = stamp
	s.lastErr = ""
	return nil
}

// ShiftSelectedDate moves the selected date by n days and returns it.
func (s *Store) ShiftSelectedDate(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next := habit.AddDays(s.selected, n); next != "" {
		s.selected = next
	}
	return s.selected
}

// LastError returns the human-readable error from the most recent failed
// operation, cleared by the next successful one.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// =============================================================================
// Internal helpers
// =============================================================================

// fail records and returns a validation error. Callers hold the mutex.
func (s *Store) fail(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	s.lastErr = err.Error()
	return err
}

// persistOne saves a single habit without blocking the mutation.
func (s *Store) persistOne(h habit.Habit) {
	snapshot := h.Clone()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if err := s.persist.SaveOne(snapshot); err != nil {
			s.logf("save habit %s: %v", snapshot.ID, err)
		}
	}()
}

// persistAll saves the whole habit map without blocking the mutation.
// Callers hold the mutex.
func (s *Store) persistAll() {
	snapshot := s.habitsCopyLocked()
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if err := s.persist.SaveAll(snapshot); err != nil {
			s.logf("save habits: %v", err)
		}
	}()
}

// persistTimers saves the active-timer map without blocking the mutation.
// Callers hold the mutex.
func (s *Store) persistTimers() {
	snapshot := make(map[string]map[string]habit.ActiveTimer, len(s.timers))
	for id, dates := range s.timers {
		inner := make(map[string]habit.ActiveTimer, len(dates))
		for stamp, timer := range dates {
			inner[stamp] = timer
		}
		snapshot[id] = inner
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if err := s.persist.SaveTimers(snapshot); err != nil {
			s.logf("save timers: %v", err)
		}
	}()
}

func (s *Store) scheduleReminder(id, title string, at time.Time) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.reminders.Schedule(id, title, at); err != nil {
			s.logf("schedule reminder %s: %v", id, err)
		}
	}()
}

func (s *Store) cancelReminder(id string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.reminders.Cancel(id); err != nil {
			s.logf("cancel reminder %s: %v", id, err)
		}
	}()
}

func (s *Store) cancelAllReminders() {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.reminders.CancelAll(); err != nil {
			s.logf("cancel reminders: %v", err)
		}
	}()
}
