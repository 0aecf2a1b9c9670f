// Package habit holds the habit data model and the pure engines that operate
// on it: the visibility rule, the completion engine, timer folding, and
// statistics. Nothing in this package mutates its inputs or touches I/O;
// state ownership lives in the store package.
package habit

import "time"

// RepeatKind discriminates the repetition variants.
type RepeatKind string

const (
	RepeatDaily    RepeatKind = "daily"
	RepeatWeekdays RepeatKind = "weekdays"
	RepeatInterval RepeatKind = "interval"
)

// Repetition describes on which days a habit is due.
// Days is used by RepeatWeekdays (0=Sunday .. 6=Saturday);
// EveryNDays by RepeatInterval.
type Repetition struct {
	Kind       RepeatKind `json:"kind"`
	Days       []int      `json:"days,omitempty"`
	EveryNDays int        `json:"every_n_days,omitempty"`
}

// Valid reports whether the repetition is well-formed.
func (r Repetition) Valid() bool {
	switch r.Kind {
	case RepeatDaily:
		return true
	case RepeatWeekdays:
		if len(r.Days) == 0 {
			return false
		}
		for _, d := range r.Days {
			if d < 0 || d > 6 {
				return false
			}
		}
		return true
	case RepeatInterval:
		return r.EveryNDays >= 1
	}
	return false
}

// GoalKind discriminates how a day's completion is measured.
type GoalKind string

const (
	GoalSimple      GoalKind = "simple"
	GoalRepetitions GoalKind = "repetitions"
	GoalTimed       GoalKind = "timed"
)

// Goal is the completion mode of a habit. Target is the repetition count for
// GoalRepetitions and milliseconds for GoalTimed; unused for GoalSimple.
// The goal of a habit is fixed at creation and never changes.
type Goal struct {
	Kind   GoalKind `json:"kind"`
	Target int64    `json:"target,omitempty"`
}

// Valid reports whether the goal is well-formed.
func (g Goal) Valid() bool {
	switch g.Kind {
	case GoalSimple:
		return true
	case GoalRepetitions, GoalTimed:
		return g.Target >= 1
	}
	return false
}

// Measured reports whether the goal carries a numeric value
// (repetitions or milliseconds).
func (g Goal) Measured() bool {
	return g.Kind == GoalRepetitions || g.Kind == GoalTimed
}

// Record is one day's outcome for one habit. A missing record means the day
// was never acted upon, which is distinct from an explicitly incomplete one.
// Value is the repetition count or accumulated milliseconds; always zero for
// simple habits.
type Record struct {
	Done  bool  `json:"done"`
	Value int64 `json:"value,omitempty"`
}

// Habit is one user-defined recurring task. History maps calendar-day stamps
// (YYYY-MM-DD) to records; keys carry no ordering guarantee, consumers sort
// when order matters. CreatedAt is a day stamp: the habit is hidden on earlier
// dates unless a date already holds a completed record.
type Habit struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Icon      string            `json:"icon,omitempty"`
	Repeat    Repetition        `json:"repeat"`
	Goal      Goal              `json:"goal"`
	History   map[string]Record `json:"history"`
	CreatedAt string            `json:"created_at"`
}

// Clone returns a deep copy. Engines operate on clones so callers never see
// partially applied mutations.
func (h Habit) Clone() Habit {
	next := h
	next.History = make(map[string]Record, len(h.History))
	for stamp, rec := range h.History {
		next.History[stamp] = rec
	}
	if h.Repeat.Days != nil {
		next.Repeat.Days = append([]int(nil), h.Repeat.Days...)
	}
	return next
}

// Record returns the stored record for a stamp, defaulting to the zero record
// for days never acted upon.
func (h Habit) Record(stamp string) Record {
	return h.History[stamp]
}

// ActiveTimer is a running stopwatch for one habit on one date. ID correlates
// the timer with its external reminder. LastResumedAt marks the point from
// which elapsed wall-clock time has not yet been folded into the stored value.
type ActiveTimer struct {
	ID            string    `json:"id"`
	LastResumedAt time.Time `json:"last_resumed_at"`
}

// Elapsed returns wall-clock time since the timer last resumed, clamped to
// zero so clock skew can never shrink a stored value.
func (t ActiveTimer) Elapsed(now time.Time) time.Duration {
	d := now.Sub(t.LastResumedAt)
	if d < 0 {
		return 0
	}
	return d
}
