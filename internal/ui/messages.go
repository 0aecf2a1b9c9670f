// Package ui provides the terminal user interface for cadence.
// This file defines message types for store operations using the Bubble Tea
// command pattern. The store itself is memory-first, so these commands return
// quickly; messages exist to route results and errors through the event loop.
package ui

import (
	"time"

	"cadence/internal/habit"
)

// =============================================================================
// Habit Messages
// =============================================================================

// habitAddedMsg is sent when a new habit is created.
type habitAddedMsg struct {
	habit habit.Habit
	err   error
}

// habitUpdatedMsg is sent when a habit's definition is patched.
type habitUpdatedMsg struct {
	id  string
	err error
}

// habitDeletedMsg is sent when a habit is removed.
type habitDeletedMsg struct {
	id    string
	title string
	err   error
}

// =============================================================================
// Completion Messages
// =============================================================================

// completionAppliedMsg is sent when a completion action lands on a record.
type completionAppliedMsg struct {
	id    string
	stamp string
	err   error
}

// =============================================================================
// Timer Messages
// =============================================================================

// timerStartedMsg is sent when a session timer starts for a timed habit.
type timerStartedMsg struct {
	id    string
	stamp string
	since time.Time
	err   error
}

// timerStoppedMsg is sent when a session timer is stopped and folded into
// the day's record.
type timerStoppedMsg struct {
	id    string
	stamp string
	err   error
}
