package habit

import "testing"

func TestStats_EmptyHistory(t *testing.T) {
	s := Stats(simpleHabit(), "2026-02-01")
	if s != (HabitStats{}) {
		t.Errorf("Stats() = %+v, want zero value", s)
	}
}

func TestStats_Counts(t *testing.T) {
	h := simpleHabit()
	h.History = map[string]Record{
		"2026-01-10": {Done: true},
		"2026-01-11": {Done: true},
		"2026-01-12": {Done: false},
		"2026-01-14": {Done: true},
	}

	s := Stats(h, "2026-01-14")

	if s.TotalCompletions != 3 {
		t.Errorf("TotalCompletions = %d, want 3", s.TotalCompletions)
	}
	if s.CompletionRate != 75 {
		t.Errorf("CompletionRate = %d, want 75", s.CompletionRate)
	}
	if s.LastCompleted != "2026-01-14" {
		t.Errorf("LastCompleted = %q, want 2026-01-14", s.LastCompleted)
	}
	// Created 2026-01-01, today 2026-01-14: 14 days inclusive, 3 completed.
	if s.SinceCreation != 21 {
		t.Errorf("SinceCreation = %d, want 21", s.SinceCreation)
	}
}

func TestStats_Streaks(t *testing.T) {
	tests := []struct {
		name        string
		history     map[string]Record
		wantCurrent int
		wantBest    int
	}{
		{
			name: "single unbroken run",
			history: map[string]Record{
				"2026-01-10": {Done: true},
				"2026-01-11": {Done: true},
				"2026-01-12": {Done: true},
			},
			wantCurrent: 3,
			wantBest:    3,
		},
		{
			name: "gap breaks leading run",
			history: map[string]Record{
				"2026-01-05": {Done: true},
				"2026-01-06": {Done: true},
				"2026-01-07": {Done: true},
				"2026-01-10": {Done: true},
			},
			wantCurrent: 1,
			wantBest:    3,
		},
		{
			name: "skip entry breaks run",
			history: map[string]Record{
				"2026-01-05": {Done: true},
				"2026-01-06": {Done: false},
				"2026-01-07": {Done: true},
				"2026-01-08": {Done: true},
			},
			wantCurrent: 2,
			wantBest:    2,
		},
		{
			name: "newest entry incomplete",
			history: map[string]Record{
				"2026-01-05": {Done: true},
				"2026-01-06": {Done: true},
				"2026-01-07": {Done: false},
			},
			wantCurrent: 0,
			wantBest:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := simpleHabit()
			h.History = tt.history

			s := Stats(h, "2026-01-31")
			if s.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", s.CurrentStreak, tt.wantCurrent)
			}
			if s.BestStreak != tt.wantBest {
				t.Errorf("BestStreak = %d, want %d", s.BestStreak, tt.wantBest)
			}
			if s.BestStreak < s.CurrentStreak {
				t.Error("BestStreak must never be below CurrentStreak")
			}
		})
	}
}

func TestStats_Repetitions(t *testing.T) {
	h := repsHabit(5)
	h.History = map[string]Record{
		"2026-01-10": {Done: true, Value: 5},
		"2026-01-11": {Done: false, Value: 2},
		"2026-01-12": {Done: true, Value: 8},
	}

	s := Stats(h, "2026-01-12")

	if s.TotalReps != 15 {
		t.Errorf("TotalReps = %d, want 15", s.TotalReps)
	}
	if s.AverageReps != 5.0 {
		t.Errorf("AverageReps = %v, want 5.0", s.AverageReps)
	}
	if s.BestReps != 8 {
		t.Errorf("BestReps = %d, want 8", s.BestReps)
	}
	if s.GoalRate != 67 {
		t.Errorf("GoalRate = %d, want 67", s.GoalRate)
	}
	if s.TotalTime != 0 || s.LongestSession != 0 {
		t.Error("time fields must stay zero for repetition habits")
	}
}

func TestStats_Timed(t *testing.T) {
	h := timedHabit(60000)
	h.History = map[string]Record{
		"2026-01-10": {Done: true, Value: 60000},
		"2026-01-11": {Done: false, Value: 30000},
	}

	s := Stats(h, "2026-01-11")

	if s.TotalTime != 90000 {
		t.Errorf("TotalTime = %d, want 90000", s.TotalTime)
	}
	if s.AverageSession != 45000 {
		t.Errorf("AverageSession = %d, want 45000", s.AverageSession)
	}
	if s.LongestSession != 60000 {
		t.Errorf("LongestSession = %d, want 60000", s.LongestSession)
	}
	if s.GoalRate != 50 {
		t.Errorf("GoalRate = %d, want 50", s.GoalRate)
	}
	if s.TotalReps != 0 || s.BestReps != 0 {
		t.Error("repetition fields must stay zero for timed habits")
	}
}

func TestOverall_DueAwareStreak(t *testing.T) {
	// 2026-02-16 is a Monday. A is due daily and completed today; B is due
	// only on Tuesdays. The Monday counts toward the streak because the only
	// due habit was completed.
	a := Habit{
		ID: "a", Title: "A",
		Repeat:    Repetition{Kind: RepeatDaily},
		Goal:      Goal{Kind: GoalSimple},
		History:   map[string]Record{"2026-02-16": {Done: true}},
		CreatedAt: "2026-02-16",
	}
	b := Habit{
		ID: "b", Title: "B",
		Repeat:    Repetition{Kind: RepeatWeekdays, Days: []int{2}},
		Goal:      Goal{Kind: GoalSimple},
		History:   map[string]Record{},
		CreatedAt: "2026-02-16",
	}

	s := Overall(map[string]Habit{"a": a, "b": b}, "2026-02-16")

	if s.TotalHabits != 2 {
		t.Errorf("TotalHabits = %d, want 2", s.TotalHabits)
	}
	if s.CompletedToday != 1 {
		t.Errorf("CompletedToday = %d, want 1", s.CompletedToday)
	}
	if s.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", s.CurrentStreak)
	}
}

func TestOverall_SkipsDaysWithNothingDue(t *testing.T) {
	// Weekday habit due Mon/Wed only; done both days. Tuesday must neither
	// break nor extend the streak.
	h := Habit{
		ID: "h", Title: "H",
		Repeat: Repetition{Kind: RepeatWeekdays, Days: []int{1, 3}},
		Goal:   Goal{Kind: GoalSimple},
		History: map[string]Record{
			"2026-02-16": {Done: true}, // Monday
			"2026-02-18": {Done: true}, // Wednesday
		},
		CreatedAt: "2026-02-16",
	}

	s := Overall(map[string]Habit{"h": h}, "2026-02-18")
	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2 (Tuesday skipped)", s.CurrentStreak)
	}
	if s.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", s.BestStreak)
	}
}

func TestOverall_Empty(t *testing.T) {
	s := Overall(nil, "2026-02-18")
	if s != (OverallStats{}) {
		t.Errorf("Overall(nil) = %+v, want zero value", s)
	}
}

func TestOverall_WeekRate(t *testing.T) {
	// Daily habit over the trailing 7 days, completed on 5 of them.
	h := Habit{
		ID: "h", Title: "H",
		Repeat: Repetition{Kind: RepeatDaily},
		Goal:   Goal{Kind: GoalSimple},
		History: map[string]Record{
			"2026-02-12": {Done: true},
			"2026-02-13": {Done: true},
			"2026-02-14": {Done: true},
			"2026-02-16": {Done: true},
			"2026-02-18": {Done: true},
		},
		CreatedAt: "2026-02-12",
	}

	s := Overall(map[string]Habit{"h": h}, "2026-02-18")
	if s.WeekRate != 71 { // 5/7 rounded
		t.Errorf("WeekRate = %d, want 71", s.WeekRate)
	}
}

func TestChartData(t *testing.T) {
	h := repsHabit(5)
	h.History = map[string]Record{
		"2026-02-12": {Done: false, Value: 2},
		"2026-02-18": {Done: true, Value: 6},
	}

	c := ChartData(h, "2026-02-18")

	if len(c.Days) != 7 || len(c.Values) != 7 {
		t.Fatalf("chart length = %d/%d, want 7/7", len(c.Days), len(c.Values))
	}
	if c.Days[0] != "2026-02-12" || c.Days[6] != "2026-02-18" {
		t.Errorf("days = %v, want oldest-first window ending today", c.Days)
	}
	if c.Values[0] != 2 || c.Values[6] != 6 {
		t.Errorf("values = %v, want raw stored values", c.Values)
	}
	if c.Values[3] != 0 {
		t.Errorf("missing day value = %d, want 0", c.Values[3])
	}
}

func TestChartData_SimpleIsBinary(t *testing.T) {
	h := simpleHabit()
	h.History = map[string]Record{"2026-02-18": {Done: true}}

	c := ChartData(h, "2026-02-18")
	if c.Values[6] != 1 {
		t.Errorf("done day = %d, want 1", c.Values[6])
	}
}
