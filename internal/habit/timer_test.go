package habit

import (
	"testing"
	"time"
)

func TestElapsed_ClampsNegative(t *testing.T) {
	resumed := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)
	timer := ActiveTimer{ID: "t1", LastResumedAt: resumed}

	if got := timer.Elapsed(resumed.Add(5 * time.Second)); got != 5*time.Second {
		t.Errorf("Elapsed = %v, want 5s", got)
	}
	// Clock skew: now before the resume point must not yield negative time.
	if got := timer.Elapsed(resumed.Add(-time.Minute)); got != 0 {
		t.Errorf("Elapsed with skewed clock = %v, want 0", got)
	}
}

func TestFoldValue(t *testing.T) {
	if got := FoldValue(2000, 5*time.Second); got != 7000 {
		t.Errorf("FoldValue = %d, want 7000", got)
	}
	if got := FoldValue(100, 0); got != 100 {
		t.Errorf("FoldValue with zero elapsed = %d, want 100", got)
	}
}

func TestReminderAt(t *testing.T) {
	now := time.Date(2026, 2, 16, 9, 59, 55, 0, time.UTC)
	goal := Goal{Kind: GoalTimed, Target: 5000}

	at, ok := ReminderAt(goal, Record{Value: 2000}, now)
	if !ok {
		t.Fatal("expected a reminder time")
	}
	if want := now.Add(3 * time.Second); !at.Equal(want) {
		t.Errorf("ReminderAt = %v, want %v", at, want)
	}

	if _, ok := ReminderAt(goal, Record{Value: 5000}, now); ok {
		t.Error("no reminder once the day is already at goal")
	}
	if _, ok := ReminderAt(goal, Record{Done: true, Value: 2000}, now); ok {
		t.Error("no reminder when the day was force-completed below goal")
	}
	if _, ok := ReminderAt(Goal{Kind: GoalRepetitions, Target: 5}, Record{}, now); ok {
		t.Error("no reminder for non-timed goals")
	}
}

func TestNewTimer(t *testing.T) {
	now := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)
	a := NewTimer(now)
	b := NewTimer(now)

	if a.ID == "" || a.ID == b.ID {
		t.Error("timer ids must be unique and non-empty")
	}
	if !a.LastResumedAt.Equal(now) {
		t.Errorf("LastResumedAt = %v, want %v", a.LastResumedAt, now)
	}
}
