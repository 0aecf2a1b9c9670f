package habit

import "testing"

func intervalHabit(created string, n int, history map[string]Record) Habit {
	return Habit{
		ID:        "h1",
		Title:     "Stretch",
		Repeat:    Repetition{Kind: RepeatInterval, EveryNDays: n},
		Goal:      Goal{Kind: GoalSimple},
		History:   history,
		CreatedAt: created,
	}
}

func TestIsDue_Interval_AnchorsOnCreation(t *testing.T) {
	h := intervalHabit("2026-01-10", 3, nil)

	tests := []struct {
		stamp string
		want  bool
	}{
		{"2026-01-10", true},  // creation day itself
		{"2026-01-11", false},
		{"2026-01-12", false},
		{"2026-01-13", true},
		{"2026-01-14", true}, // past due stays shown
	}

	for _, tt := range tests {
		if got := IsDue(h, tt.stamp); got != tt.want {
			t.Errorf("IsDue(%s) = %v, want %v", tt.stamp, got, tt.want)
		}
	}
}

func TestIsDue_Interval_ReanchorsOnLoggedEntry(t *testing.T) {
	// The lone history entry predates creation, so the whole due window
	// (anchor+3 onward) sits before the creation date and must still show.
	h := intervalHabit("2026-01-10", 3, map[string]Record{
		"2026-01-04": {Done: true},
	})

	tests := []struct {
		stamp string
		want  bool
	}{
		{"2026-01-05", false},
		{"2026-01-06", false},
		{"2026-01-07", true},
		{"2026-01-08", true},
		{"2026-01-09", true},
		{"2026-01-10", true},
	}

	for _, tt := range tests {
		if got := IsDue(h, tt.stamp); got != tt.want {
			t.Errorf("IsDue(%s) = %v, want %v", tt.stamp, got, tt.want)
		}
	}
}

func TestIsDue_Interval_SkipAlsoReanchors(t *testing.T) {
	// An explicitly incomplete entry still moves the anchor.
	h := intervalHabit("2026-01-01", 2, map[string]Record{
		"2026-01-05": {Done: false},
	})

	if IsDue(h, "2026-01-06") {
		t.Error("IsDue the day after a skip should be false")
	}
	if !IsDue(h, "2026-01-07") {
		t.Error("IsDue(anchor+2) should be true")
	}
}

func TestIsDue_Weekdays(t *testing.T) {
	// 2026-02-16 is a Monday.
	h := Habit{
		ID:        "h1",
		Title:     "Gym",
		Repeat:    Repetition{Kind: RepeatWeekdays, Days: []int{1, 3, 5}}, // Mon/Wed/Fri
		Goal:      Goal{Kind: GoalSimple},
		CreatedAt: "2026-02-01",
	}

	tests := []struct {
		stamp string
		want  bool
	}{
		{"2026-02-16", true},  // Monday
		{"2026-02-17", false}, // Tuesday
		{"2026-02-18", true},  // Wednesday
		{"2026-02-21", false}, // Saturday
		{"2026-02-20", true},  // Friday
	}

	for _, tt := range tests {
		if got := IsDue(h, tt.stamp); got != tt.want {
			t.Errorf("IsDue(%s) = %v, want %v", tt.stamp, got, tt.want)
		}
	}
}

func TestIsDue_Daily(t *testing.T) {
	h := Habit{
		ID:        "h1",
		Title:     "Read",
		Repeat:    Repetition{Kind: RepeatDaily},
		Goal:      Goal{Kind: GoalSimple},
		CreatedAt: "2026-03-01",
	}

	if IsDue(h, "2026-02-28") {
		t.Error("not due before creation date")
	}
	if !IsDue(h, "2026-03-01") || !IsDue(h, "2026-12-31") {
		t.Error("daily habit due on every date from creation on")
	}
}

func TestIsDue_CompletedRecordAlwaysVisible(t *testing.T) {
	// Backdated imports: a done entry before creation stays visible.
	h := Habit{
		ID:        "h1",
		Title:     "Run",
		Repeat:    Repetition{Kind: RepeatWeekdays, Days: []int{2}},
		Goal:      Goal{Kind: GoalSimple},
		History:   map[string]Record{"2025-12-25": {Done: true}},
		CreatedAt: "2026-01-01",
	}

	if !IsDue(h, "2025-12-25") {
		t.Error("completed record before creation should stay visible")
	}
}

func TestIsDue_MalformedInput(t *testing.T) {
	h := Habit{ID: "h1", Repeat: Repetition{Kind: RepeatDaily}, CreatedAt: "2026-01-01"}

	for _, stamp := range []string{"", "not-a-date", "2026-1-1", "2026-13-40"} {
		if IsDue(h, stamp) {
			t.Errorf("IsDue(%q) = true for malformed stamp", stamp)
		}
	}
	if IsDue(Habit{}, "2026-01-01") {
		t.Error("IsDue should be false for a zero habit")
	}
}
