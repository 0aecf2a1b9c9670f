package habit

import (
	"math"
	"sort"
)

// HabitStats are analytics derived from a single habit's history. The
// repetition fields are populated only for GoalRepetitions habits and the
// time fields only for GoalTimed ones; GoalRate covers both.
type HabitStats struct {
	TotalCompletions int    `json:"total_completions"`
	CompletionRate   int    `json:"completion_rate"`
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	LastCompleted    string `json:"last_completed,omitempty"`
	SinceCreation    int    `json:"since_creation"`

	TotalReps   int64   `json:"total_repetitions,omitempty"`
	AverageReps float64 `json:"average_repetitions,omitempty"`
	BestReps    int64   `json:"best_repetitions,omitempty"`

	TotalTime      int64 `json:"total_time_ms,omitempty"`
	AverageSession int64 `json:"average_session_ms,omitempty"`
	LongestSession int64 `json:"longest_session_ms,omitempty"`

	GoalRate int `json:"goal_achievement_rate,omitempty"`
}

// Stats derives analytics from a habit's history. today is used only for the
// since-creation rate; an empty history yields all-zero stats.
func Stats(h Habit, today string) HabitStats {
	var s HabitStats
	if len(h.History) == 0 {
		return s
	}

	dates := sortedStampsDesc(h.History)

	for _, stamp := range dates {
		rec := h.History[stamp]
		if rec.Done {
			s.TotalCompletions++
			if s.LastCompleted == "" || stamp > s.LastCompleted {
				s.LastCompleted = stamp
			}
		}
	}
	s.CompletionRate = roundPercent(s.TotalCompletions, len(dates))
	s.CurrentStreak, s.BestStreak = streaks(h, dates)

	if h.CreatedAt != "" && IsStamp(today) {
		span := DaysBetween(h.CreatedAt, today) + 1
		if span < 1 {
			span = 1
		}
		s.SinceCreation = clampPercent(roundPercent(s.TotalCompletions, span))
	}

	if h.Goal.Measured() {
		reached := 0
		for _, stamp := range dates {
			rec := h.History[stamp]
			s.TotalReps += rec.Value
			if rec.Value > s.BestReps {
				s.BestReps = rec.Value
			}
			if rec.Value >= h.Goal.Target {
				reached++
			}
		}
		s.GoalRate = roundPercent(reached, len(dates))

		switch h.Goal.Kind {
		case GoalRepetitions:
			s.AverageReps = math.Round(float64(s.TotalReps)/float64(len(dates))*10) / 10
		case GoalTimed:
			s.TotalTime = s.TotalReps
			s.LongestSession = s.BestReps
			s.AverageSession = int64(math.Round(float64(s.TotalTime) / float64(len(dates))))
			s.TotalReps, s.BestReps = 0, 0
		}
	}

	return s
}

// streaks walks history entries newest first. Completed entries on adjacent
// calendar days extend a run; a missing day or an explicitly incomplete entry
// breaks it. The current streak is the leading run at the first break, or the
// whole run when nothing ever breaks.
func streaks(h Habit, datesDesc []string) (current, best int) {
	run := 0
	current = -1
	prevDone := ""

	finalize := func() {
		if run > best {
			best = run
		}
		if current == -1 {
			current = run
		}
	}

	for _, stamp := range datesDesc {
		rec := h.History[stamp]
		if !rec.Done {
			finalize()
			run = 0
			prevDone = ""
			continue
		}
		switch {
		case run == 0:
			run = 1
		case prevDone != "" && AddDays(stamp, 1) == prevDone:
			run++
		default:
			finalize()
			run = 1
		}
		prevDone = stamp
	}
	finalize()
	if current == -1 {
		current = 0
	}
	return current, best
}

// OverallStats aggregates across the whole habit collection.
type OverallStats struct {
	TotalHabits    int `json:"total_habits"`
	CompletedToday int `json:"completed_today"`
	WeekRate       int `json:"week_rate"`
	CurrentStreak  int `json:"current_streak"`
	BestStreak     int `json:"best_streak"`
}

// Overall derives collection-wide analytics as of today. The streak counts a
// day when every habit due that day was completed; days where nothing was due
// neither break nor extend the streak.
func Overall(habits map[string]Habit, today string) OverallStats {
	var s OverallStats
	s.TotalHabits = len(habits)
	if len(habits) == 0 || !IsStamp(today) {
		return s
	}

	earliest := ""
	for _, h := range habits {
		if h.History[today].Done {
			s.CompletedToday++
		}
		if h.CreatedAt != "" && (earliest == "" || h.CreatedAt < earliest) {
			earliest = h.CreatedAt
		}
		for stamp := range h.History {
			if IsStamp(stamp) && (earliest == "" || stamp < earliest) {
				earliest = stamp
			}
		}
	}

	due, done := 0, 0
	for _, stamp := range LastNDays(today, 7) {
		for _, h := range habits {
			if !IsDue(h, stamp) {
				continue
			}
			due++
			if h.History[stamp].Done {
				done++
			}
		}
	}
	s.WeekRate = roundPercent(done, due)

	if earliest == "" {
		return s
	}
	run := 0
	current := -1
	for stamp := today; stamp >= earliest; stamp = AddDays(stamp, -1) {
		dueCount, doneCount := 0, 0
		for _, h := range habits {
			if !IsDue(h, stamp) {
				continue
			}
			dueCount++
			if h.History[stamp].Done {
				doneCount++
			}
		}
		if dueCount == 0 {
			continue
		}
		if doneCount == dueCount {
			run++
			continue
		}
		if run > s.BestStreak {
			s.BestStreak = run
		}
		if current == -1 {
			current = run
		}
		run = 0
	}
	if run > s.BestStreak {
		s.BestStreak = run
	}
	if current == -1 {
		current = run
	}
	s.CurrentStreak = current
	return s
}

func sortedStampsDesc(history map[string]Record) []string {
	dates := make([]string, 0, len(history))
	for stamp := range history {
		dates = append(dates, stamp)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
