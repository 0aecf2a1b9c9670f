package habit

import (
	"time"

	"github.com/google/uuid"
)

// NewTimer creates a running timer resumed at now.
func NewTimer(now time.Time) ActiveTimer {
	return ActiveTimer{
		ID:            uuid.NewString(),
		LastResumedAt: now,
	}
}

// FoldValue converts a running timer's elapsed wall-clock duration into the
// next stored value: the milliseconds accumulated so far plus the elapsed
// span. Elapsed spans are expected pre-clamped (ActiveTimer.Elapsed).
func FoldValue(stored int64, elapsed time.Duration) int64 {
	return stored + elapsed.Milliseconds()
}

// ReminderAt computes the instant a timer started at now would reach the
// habit's goal, given the day's stored record. ok is false when no reminder
// should be scheduled: the goal is not timed, the day is already at or past
// the goal, or the record was force-completed below it.
func ReminderAt(g Goal, rec Record, now time.Time) (at time.Time, ok bool) {
	if g.Kind != GoalTimed || rec.Done || rec.Value >= g.Target {
		return time.Time{}, false
	}
	remaining := time.Duration(g.Target-rec.Value) * time.Millisecond
	return now.Add(remaining), true
}
