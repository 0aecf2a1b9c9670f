package reports

import (
	"testing"

	"cadence/internal/habit"
	"cadence/internal/storage"
)

func testGenerator(t *testing.T, habits map[string]habit.Habit) *Generator {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if err := store.SaveAll(habits); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	return NewGenerator(store)
}

func reportHabits() map[string]habit.Habit {
	return map[string]habit.Habit{
		"h1": {
			ID:     "h1",
			Title:  "Meditate",
			Repeat: habit.Repetition{Kind: habit.RepeatDaily},
			Goal:   habit.Goal{Kind: habit.GoalSimple},
			History: map[string]habit.Record{
				// 2026-03-09 is a Monday.
				"2026-03-09": {Done: true},
				"2026-03-10": {Done: true},
			},
			CreatedAt: "2026-03-01",
		},
		"h2": {
			ID:    "h2",
			Title: "Gym",
			Repeat: habit.Repetition{
				Kind: habit.RepeatWeekdays,
				Days: []int{1, 3, 5}, // Mon, Wed, Fri
			},
			Goal:      habit.Goal{Kind: habit.GoalSimple},
			History:   map[string]habit.Record{},
			CreatedAt: "2026-03-01",
		},
	}
}

func TestGenerateDaily(t *testing.T) {
	g := testGenerator(t, reportHabits())

	report, err := g.GenerateDaily("2026-03-09")
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}

	if report.Date != "2026-03-09" {
		t.Errorf("Date = %q", report.Date)
	}
	// Monday: both habits are due.
	if report.DueCount != 2 {
		t.Fatalf("DueCount = %d, want 2", report.DueCount)
	}
	if report.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", report.CompletedCount)
	}
	if report.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", report.CompletionRate)
	}

	// Sorted by title: Gym before Meditate.
	if report.Habits[0].Title != "Gym" || report.Habits[0].Done {
		t.Errorf("habits[0] = %+v", report.Habits[0])
	}
	if report.Habits[1].Title != "Meditate" || !report.Habits[1].Done {
		t.Errorf("habits[1] = %+v", report.Habits[1])
	}
}

func TestGenerateDailyExcludesNotDue(t *testing.T) {
	g := testGenerator(t, reportHabits())

	// 2026-03-10 is a Tuesday: the weekday habit is not due.
	report, err := g.GenerateDaily("2026-03-10")
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}
	if report.DueCount != 1 {
		t.Fatalf("DueCount = %d, want 1", report.DueCount)
	}
	if report.Habits[0].Title != "Meditate" {
		t.Errorf("habits[0].Title = %q", report.Habits[0].Title)
	}
}

func TestGenerateDailyInvalidDate(t *testing.T) {
	g := testGenerator(t, reportHabits())
	if _, err := g.GenerateDaily("yesterday"); err == nil {
		t.Fatal("GenerateDaily() accepted malformed date")
	}
}

func TestGenerateWeekly(t *testing.T) {
	g := testGenerator(t, reportHabits())

	// Any date inside the week aligns to its Sunday.
	report, err := g.GenerateWeekly("2026-03-11")
	if err != nil {
		t.Fatalf("GenerateWeekly() error = %v", err)
	}

	if report.StartDate != "2026-03-08" {
		t.Errorf("StartDate = %q, want 2026-03-08 (Sunday)", report.StartDate)
	}
	if report.EndDate != "2026-03-14" {
		t.Errorf("EndDate = %q, want 2026-03-14", report.EndDate)
	}
	if len(report.DailyBreakdown) != 7 {
		t.Fatalf("breakdown has %d days, want 7", len(report.DailyBreakdown))
	}
	if report.DailyBreakdown[0].DayOfWeek != "Sun" {
		t.Errorf("breakdown[0].DayOfWeek = %q, want Sun", report.DailyBreakdown[0].DayOfWeek)
	}

	// Daily habit: due all 7 days, done Mon+Tue. Weekday habit: due Mon/Wed/Fri.
	if report.TotalDue != 10 {
		t.Errorf("TotalDue = %d, want 10", report.TotalDue)
	}
	if report.TotalCompleted != 2 {
		t.Errorf("TotalCompleted = %d, want 2", report.TotalCompleted)
	}
	if report.OverallRate != 20 {
		t.Errorf("OverallRate = %v, want 20", report.OverallRate)
	}

	gym := report.Habits[0]
	if gym.Title != "Gym" {
		t.Fatalf("habits[0].Title = %q", gym.Title)
	}
	if gym.DueCount != 3 || gym.CompletedCount != 0 {
		t.Errorf("gym due/completed = %d/%d, want 3/0", gym.DueCount, gym.CompletedCount)
	}
	wantDue := []bool{false, true, false, true, false, true, false}
	for i, due := range wantDue {
		if gym.DaysDue[i] != due {
			t.Errorf("gym.DaysDue[%d] = %v, want %v", i, gym.DaysDue[i], due)
		}
	}

	med := report.Habits[1]
	if med.DueCount != 7 || med.CompletedCount != 2 {
		t.Errorf("meditate due/completed = %d/%d, want 7/2", med.DueCount, med.CompletedCount)
	}
	// Monday (index 1) and Tuesday (index 2) are completed.
	if !med.DaysCompleted[1] || !med.DaysCompleted[2] || med.DaysCompleted[3] {
		t.Errorf("meditate.DaysCompleted = %v", med.DaysCompleted)
	}
}

func TestFormatDailyJSON(t *testing.T) {
	g := testGenerator(t, reportHabits())
	report, err := g.GenerateDaily("2026-03-09")
	if err != nil {
		t.Fatalf("GenerateDaily() error = %v", err)
	}

	data, err := FormatDailyJSON(report)
	if err != nil {
		t.Fatalf("FormatDailyJSON() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty JSON output")
	}
}
