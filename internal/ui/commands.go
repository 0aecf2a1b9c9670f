// Package ui provides the terminal user interface for cadence.
// This file contains tea.Cmd factories that wrap store operations. The store
// applies changes in memory and persists in the background, so these commands
// stay fast; they exist to keep mutation results flowing through the Bubble
// Tea event loop as messages defined in messages.go.
package ui

import (
	"cadence/internal/habit"
	"cadence/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Habit Commands
// =============================================================================

// addHabitCmd returns a command that creates a new habit.
func addHabitCmd(s *store.Store, title, icon string, rep habit.Repetition, goal habit.Goal) tea.Cmd {
	return func() tea.Msg {
		h, err := s.AddHabit(title, icon, rep, goal)
		return habitAddedMsg{habit: h, err: err}
	}
}

// updateHabitCmd returns a command that patches a habit's definition.
func updateHabitCmd(s *store.Store, id string, patch store.Patch) tea.Cmd {
	return func() tea.Msg {
		err := s.UpdateHabit(id, patch)
		return habitUpdatedMsg{id: id, err: err}
	}
}

// deleteHabitCmd returns a command that removes a habit and its history.
func deleteHabitCmd(s *store.Store, id, title string) tea.Cmd {
	return func() tea.Msg {
		err := s.DeleteHabit(id)
		return habitDeletedMsg{id: id, title: title, err: err}
	}
}

// =============================================================================
// Completion Commands
// =============================================================================

// toggleHabitCmd returns a command that flips a simple habit's record for
// the given date.
func toggleHabitCmd(s *store.Store, id, stamp string) tea.Cmd {
	return func() tea.Msg {
		err := s.ApplyCompletion(id, stamp, nil, nil)
		return completionAppliedMsg{id: id, stamp: stamp, err: err}
	}
}

// setValueCmd returns a command that sets a measured habit's value for the
// given date. Done state follows from the habit's target.
func setValueCmd(s *store.Store, id, stamp string, value int64) tea.Cmd {
	return func() tea.Msg {
		err := s.ApplyCompletion(id, stamp, &value, nil)
		return completionAppliedMsg{id: id, stamp: stamp, err: err}
	}
}

// skipHabitCmd returns a command that records an explicit skip: progress is
// reset to zero and the done flag pinned false, so a skipped day never reads
// as partially complete.
func skipHabitCmd(s *store.Store, id, stamp string) tea.Cmd {
	return func() tea.Msg {
		var zero int64
		done := false
		err := s.ApplyCompletion(id, stamp, &zero, &done)
		return completionAppliedMsg{id: id, stamp: stamp, err: err}
	}
}

// markDoneCmd returns a command that pins a habit done regardless of
// progress. Measured goals get their value snapped to the target so the
// done == (value >= target) rule keeps holding for this path.
func markDoneCmd(s *store.Store, h habit.Habit, stamp string) tea.Cmd {
	return func() tea.Msg {
		done := true
		var value *int64
		if h.Goal.Measured() {
			v := h.Goal.Target
			value = &v
		}
		err := s.ApplyCompletion(h.ID, stamp, value, &done)
		return completionAppliedMsg{id: h.ID, stamp: stamp, err: err}
	}
}

// =============================================================================
// Timer Commands
// =============================================================================

// startTimerCmd returns a command that starts a session timer for a timed
// habit on the given date.
func startTimerCmd(s *store.Store, id, stamp string) tea.Cmd {
	return func() tea.Msg {
		since, err := s.ActivateTimer(id, stamp)
		return timerStartedMsg{id: id, stamp: stamp, since: since, err: err}
	}
}

// stopTimerCmd returns a command that stops the session timer and folds the
// elapsed time into the day's record.
func stopTimerCmd(s *store.Store, id, stamp string) tea.Cmd {
	return func() tea.Msg {
		err := s.RemoveTimer(id, stamp)
		return timerStoppedMsg{id: id, stamp: stamp, err: err}
	}
}
