// Package ui provides the terminal user interface for cadence.
package ui

import (
	"fmt"
	"strings"

	"cadence/internal/habit"
	"cadence/internal/store"
)

// chartGlyphs are the bar heights for the seven-day chart, lowest to tallest.
var chartGlyphs = []rune("▁▂▃▄▅▆▇█")

// StatsPane shows collection-wide analytics and a per-habit breakdown with
// a seven-day chart for the habit selected in the habits pane.
type StatsPane struct {
	store   *store.Store
	focused bool
	width   int
	height  int
	styles  *Styles

	// selected habit, fed by the app from the habits pane cursor
	selectedID string
}

// NewStatsPane creates a new stats pane.
func NewStatsPane(s *store.Store, styles *Styles) *StatsPane {
	return &StatsPane{
		store:  s,
		styles: styles,
	}
}

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) {
	p.focused = focused
}

// SetSelected points the per-habit breakdown at a habit.
func (p *StatsPane) SetSelected(id string) {
	p.selectedID = id
}

// View renders the stats pane.
func (p *StatsPane) View() string {
	var b strings.Builder

	title := p.styles.PaneTitleStyle.Render("STATS")
	b.WriteString(title)
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 20
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n\n")

	overall := p.store.Overall()
	b.WriteString(p.statLine("Habits", fmt.Sprintf("%d", overall.TotalHabits)))
	b.WriteString(p.statLine("Done today", fmt.Sprintf("%d", overall.CompletedToday)))
	b.WriteString(p.statLine("Week rate", fmt.Sprintf("%d%%", overall.WeekRate)))
	b.WriteString(p.statLine("Streak", fmt.Sprintf("%d", overall.CurrentStreak)))
	b.WriteString(p.statLine("Best streak", fmt.Sprintf("%d", overall.BestStreak)))

	if h, ok := p.store.Habit(p.selectedID); ok {
		b.WriteString("\n")
		b.WriteString(p.styles.StatValueStyle.Render("  " + h.Title))
		b.WriteString("\n\n")

		if stats, ok := p.store.Stats(h.ID); ok {
			b.WriteString(p.statLine("Completions", fmt.Sprintf("%d", stats.TotalCompletions)))
			b.WriteString(p.statLine("Rate", fmt.Sprintf("%d%%", stats.CompletionRate)))
			b.WriteString(p.statLine("Streak", fmt.Sprintf("%d (best %d)", stats.CurrentStreak, stats.BestStreak)))
			switch h.Goal.Kind {
			case habit.GoalRepetitions:
				b.WriteString(p.statLine("Total reps", fmt.Sprintf("%d", stats.TotalReps)))
				b.WriteString(p.statLine("Avg reps", fmt.Sprintf("%.1f", stats.AverageReps)))
			case habit.GoalTimed:
				b.WriteString(p.statLine("Total time", formatMillis(stats.TotalTime)))
				b.WriteString(p.statLine("Avg session", formatMillis(stats.AverageSession)))
			}
		}

		b.WriteString("\n")
		b.WriteString(p.renderChart(habit.ChartData(h, p.store.Today())))
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// statLine renders one "label: value" line.
func (p *StatsPane) statLine(label, value string) string {
	return "  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%-12s", label)) +
		p.styles.StatValueStyle.Render(value) + "\n"
}

// renderChart renders the seven-day bar chart with weekday initials.
func (p *StatsPane) renderChart(c habit.Chart) string {
	var peak int64
	for _, v := range c.Values {
		if v > peak {
			peak = v
		}
	}

	var bars, labels strings.Builder
	for i, v := range c.Values {
		if v == 0 {
			bars.WriteString(p.styles.ChartEmptyStyle.Render("▁"))
		} else {
			idx := int(v * int64(len(chartGlyphs)-1) / peak)
			bars.WriteString(p.styles.ChartBarStyle.Render(string(chartGlyphs[idx])))
		}
		bars.WriteString(" ")
		labels.WriteString(dayInitial(c.Days[i]))
		labels.WriteString(" ")
	}

	return "  " + strings.TrimSuffix(bars.String(), " ") + "\n" +
		"  " + p.styles.StatLabelStyle.Render(strings.TrimSuffix(labels.String(), " ")) + "\n"
}

// dayInitial returns the first letter of a stamp's weekday.
func dayInitial(stamp string) string {
	wd, ok := habit.WeekdayOf(stamp)
	if !ok {
		return "?"
	}
	return []string{"S", "M", "T", "W", "T", "F", "S"}[wd]
}
