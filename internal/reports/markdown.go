package reports

import (
	"fmt"
	"strings"
)

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(report *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Report: %s\n\n", report.Date)
	fmt.Fprintf(&b, "**Completed:** %d/%d (%.0f%%)\n\n",
		report.CompletedCount, report.DueCount, report.CompletionRate)

	if len(report.Habits) == 0 {
		b.WriteString("Nothing due on this day.\n")
		return b.String()
	}

	for _, h := range report.Habits {
		b.WriteString("- ")
		if h.Done {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
		if h.Icon != "" {
			fmt.Fprintf(&b, "%s ", h.Icon)
		}
		b.WriteString(h.Title)
		if h.Target > 0 {
			fmt.Fprintf(&b, " (%s)", progressLabel(h))
		}
		if h.Streak > 1 {
			fmt.Fprintf(&b, " — %d day streak", h.Streak)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatWeeklyMarkdown renders a weekly report as Markdown with a
// per-day completion grid.
func FormatWeeklyMarkdown(report *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report: %s to %s\n\n", report.StartDate, report.EndDate)
	fmt.Fprintf(&b, "**Completed:** %d/%d (%.0f%%)\n\n",
		report.TotalCompleted, report.TotalDue, report.OverallRate)

	if len(report.Habits) > 0 {
		b.WriteString("| Habit | Su | Mo | Tu | We | Th | Fr | Sa |\n")
		b.WriteString("|-------|----|----|----|----|----|----|----|\n")
		for _, h := range report.Habits {
			title := h.Title
			if h.Icon != "" {
				title = h.Icon + " " + title
			}
			fmt.Fprintf(&b, "| %s |", strings.ReplaceAll(title, "|", "\\|"))
			for i := 0; i < 7; i++ {
				b.WriteString(" " + dayCell(h, i) + " |")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Daily Breakdown\n\n")
	for _, day := range report.DailyBreakdown {
		fmt.Fprintf(&b, "- **%s** %s: %d/%d\n", day.DayOfWeek, day.Date, day.Completed, day.Due)
	}
	return b.String()
}

func progressLabel(h HabitStatus) string {
	if h.Goal == "timed" {
		return fmt.Sprintf("%s / %s", formatDuration(h.Value), formatDuration(h.Target))
	}
	return fmt.Sprintf("%d/%d", h.Value, h.Target)
}

// dayCell marks a day as done, missed, or out of schedule.
func dayCell(h WeeklyHabitStatus, day int) string {
	switch {
	case day < len(h.DaysCompleted) && h.DaysCompleted[day]:
		return "x"
	case day < len(h.DaysDue) && h.DaysDue[day]:
		return "·"
	default:
		return " "
	}
}

func formatDuration(ms int64) string {
	totalSec := ms / 1000
	if totalSec >= 3600 {
		return fmt.Sprintf("%dh%02dm", totalSec/3600, (totalSec%3600)/60)
	}
	if totalSec >= 60 {
		return fmt.Sprintf("%dm", totalSec/60)
	}
	return fmt.Sprintf("%ds", totalSec)
}
