// Package reports provides daily and weekly report generation for the cadence app.
// Reports aggregate habit schedules, completions and timer values.
package reports

import (
	"time"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date           string        `json:"date"`
	Habits         []HabitStatus `json:"habits"`
	CompletedCount int           `json:"completed_count"`
	DueCount       int           `json:"due_count"`
	CompletionRate float64       `json:"completion_rate"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// HabitStatus represents a habit's state on a report day.
type HabitStatus struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
	Goal   string `json:"goal"`
	Done   bool   `json:"done"`
	Value  int64  `json:"value,omitempty"`
	Target int64  `json:"target,omitempty"`
	Streak int    `json:"streak"`
}

// WeeklyReport contains aggregated data for a week.
type WeeklyReport struct {
	StartDate      string              `json:"start_date"`
	EndDate        string              `json:"end_date"`
	Habits         []WeeklyHabitStatus `json:"habits"`
	DailyBreakdown []DailySummary      `json:"daily_breakdown"`
	OverallRate    float64             `json:"overall_rate"`
	TotalCompleted int                 `json:"total_completed"`
	TotalDue       int                 `json:"total_due"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

// WeeklyHabitStatus represents a habit's completion over a week.
type WeeklyHabitStatus struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Icon           string  `json:"icon,omitempty"`
	DaysDue        []bool  `json:"days_due"`       // 7 bools, Sunday first
	DaysCompleted  []bool  `json:"days_completed"` // 7 bools, Sunday first
	CompletedCount int     `json:"completed_count"`
	DueCount       int     `json:"due_count"`
	CompletionRate float64 `json:"completion_rate"`
	Streak         int     `json:"streak"`
}

// DailySummary provides a quick overview of a single day within a week.
type DailySummary struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Completed int    `json:"completed"`
	Due       int    `json:"due"`
}
