// Package reports provides daily and weekly report generation for the cadence app.
package reports

import (
	"fmt"
	"sort"
	"time"

	"cadence/internal/habit"
	"cadence/internal/storage"
)

// Generator creates reports from persisted habit data.
type Generator struct {
	store *storage.Storage
}

// NewGenerator creates a new report generator.
func NewGenerator(store *storage.Storage) *Generator {
	return &Generator{store: store}
}

// GenerateDaily generates a report for a specific date. The report lists the
// habits due or completed on that date.
func (g *Generator) GenerateDaily(date string) (*DailyReport, error) {
	if !habit.IsStamp(date) {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	habits, err := g.store.LoadAll()
	if err != nil {
		return nil, err
	}

	var statuses []HabitStatus
	completedCount := 0
	for _, h := range sortedByTitle(habits) {
		if !habit.IsDue(h, date) {
			continue
		}
		rec := h.Record(date)
		if rec.Done {
			completedCount++
		}
		statuses = append(statuses, HabitStatus{
			ID:     h.ID,
			Title:  h.Title,
			Icon:   h.Icon,
			Goal:   string(h.Goal.Kind),
			Done:   rec.Done,
			Value:  rec.Value,
			Target: h.Goal.Target,
			Streak: habit.Stats(h, date).CurrentStreak,
		})
	}

	rate := 0.0
	if len(statuses) > 0 {
		rate = float64(completedCount) / float64(len(statuses)) * 100
	}

	return &DailyReport{
		Date:           date,
		Habits:         statuses,
		CompletedCount: completedCount,
		DueCount:       len(statuses),
		CompletionRate: rate,
		GeneratedAt:    time.Now(),
	}, nil
}

// GenerateWeekly generates a report for the week containing the given date,
// aligned to start on Sunday.
func (g *Generator) GenerateWeekly(date string) (*WeeklyReport, error) {
	wd, ok := habit.WeekdayOf(date)
	if !ok {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	start := habit.AddDays(date, -wd)
	end := habit.AddDays(start, 6)

	habits, err := g.store.LoadAll()
	if err != nil {
		return nil, err
	}

	days := make([]string, 7)
	for i := range days {
		days[i] = habit.AddDays(start, i)
	}

	var statuses []WeeklyHabitStatus
	totalCompleted := 0
	totalDue := 0
	breakdown := make([]DailySummary, 7)
	for i, day := range days {
		breakdown[i] = DailySummary{
			Date:      day,
			DayOfWeek: dayOfWeekName(day),
		}
	}

	for _, h := range sortedByTitle(habits) {
		daysDue := make([]bool, 7)
		daysCompleted := make([]bool, 7)
		dueCount := 0
		completedCount := 0

		for i, day := range days {
			due := habit.IsDue(h, day)
			done := h.Record(day).Done
			daysDue[i] = due
			daysCompleted[i] = done
			if due {
				dueCount++
				breakdown[i].Due++
			}
			if done {
				completedCount++
				breakdown[i].Completed++
			}
		}
		totalDue += dueCount
		totalCompleted += completedCount

		rate := 0.0
		if dueCount > 0 {
			rate = float64(completedCount) / float64(dueCount) * 100
		}

		statuses = append(statuses, WeeklyHabitStatus{
			ID:             h.ID,
			Title:          h.Title,
			Icon:           h.Icon,
			DaysDue:        daysDue,
			DaysCompleted:  daysCompleted,
			CompletedCount: completedCount,
			DueCount:       dueCount,
			CompletionRate: rate,
			Streak:         habit.Stats(h, end).CurrentStreak,
		})
	}

	overallRate := 0.0
	if totalDue > 0 {
		overallRate = float64(totalCompleted) / float64(totalDue) * 100
	}

	return &WeeklyReport{
		StartDate:      start,
		EndDate:        end,
		Habits:         statuses,
		DailyBreakdown: breakdown,
		OverallRate:    overallRate,
		TotalCompleted: totalCompleted,
		TotalDue:       totalDue,
		GeneratedAt:    time.Now(),
	}, nil
}

// Helper functions

func sortedByTitle(habits map[string]habit.Habit) []habit.Habit {
	out := make([]habit.Habit, 0, len(habits))
	for _, h := range habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func dayOfWeekName(stamp string) string {
	t, err := time.Parse(habit.StampLayout, stamp)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}
