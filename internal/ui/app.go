// Package ui provides the terminal user interface for cadence.
// This file contains the main App model which coordinates the habit list and
// stats panes and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"cadence/internal/config"
	"cadence/internal/store"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows the habit list and stats panel side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow collapses the stats panel; 's' swaps it in.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
}

// App is the main application model that coordinates the panes.
type App struct {
	store       *store.Store
	styles      *Styles
	config      *AppConfig
	habitsPane  *HabitsPane
	statsPane   *StatsPane
	helpOverlay *HelpOverlay
	confirmDel  *confirmDeleteState
	layoutMode  LayoutMode
	statsOnly   bool // narrow mode: stats shown instead of the list
	showHelp    bool
	showWelcome bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool
	lastToday   string

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	habitsPaneStart int
	habitsPaneEnd   int
	statsPaneStart  int
	statsPaneEnd    int
	contentTop      int // Y coordinate where content starts
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application over a hydrated store.
func NewApp(s *store.Store, styles *Styles, cfg *AppConfig) *App {
	// Use default config if nil
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	habitsPane := NewHabitsPaneWithKeys(s, styles, cfg.Keys)
	statsPane := NewStatsPane(s, styles)
	helpOverlay := NewHelpOverlay(styles)

	showWelcome := cfg.ShowOnboarding && len(s.Habits()) == 0

	app := &App{
		store:       s,
		styles:      styles,
		config:      cfg,
		habitsPane:  habitsPane,
		statsPane:   statsPane,
		helpOverlay: helpOverlay,
		showWelcome: showWelcome,
		lastToday:   s.Today(),
		keys:        NewGlobalKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
	}

	habitsPane.SetFocused(true)
	statsPane.SetFocused(false)

	return app
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the clock and settles any timers left running from a previous
// session.
func (a *App) Init() tea.Cmd {
	a.store.ReconcileActiveTimers(time.Now())
	a.habitsPane.Refresh()
	return tickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Store mutation results: surface errors, then let the habits pane
	// re-read its rows.
	switch msg := msg.(type) {
	case habitAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add habit: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Added "+msg.habit.Title, false)
		}
		return a, a.habitsPane.Update(msg)

	case habitUpdatedMsg:
		if msg.err != nil {
			a.SetStatus("Edit habit: "+msg.err.Error(), true)
		}
		return a, a.habitsPane.Update(msg)

	case habitDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete habit: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Deleted "+msg.title, false)
		}
		return a, a.habitsPane.Update(msg)

	case completionAppliedMsg:
		if msg.err != nil {
			a.SetStatus("Update: "+msg.err.Error(), true)
		}
		return a, a.habitsPane.Update(msg)

	case timerStartedMsg:
		if msg.err != nil {
			a.SetStatus("Start timer: "+msg.err.Error(), true)
		}
		return a, a.habitsPane.Update(msg)

	case timerStoppedMsg:
		if msg.err != nil {
			a.SetStatus("Stop timer: "+msg.err.Error(), true)
		}
		return a, a.habitsPane.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.showWelcome {
			a.showWelcome = false
			return a, nil
		}

		if a.confirmDel != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirmDel.cmd
				a.confirmDel = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		if !a.habitsPane.IsAdding() {
			// Deletion goes through the confirmation overlay when enabled.
			if key.Matches(msg, a.habitsPane.keys.Delete) {
				h, ok := a.habitsPane.Selected()
				if !ok {
					a.SetStatus("No habit selected", true)
					return a, nil
				}
				cmd := deleteHabitCmd(a.store, h.ID, h.Title)
				if !a.config.ConfirmDeletions {
					return a, cmd
				}
				a.confirmDel = &confirmDeleteState{
					title: "Delete habit?",
					body:  truncateText(h.Title, 60),
					cmd:   cmd,
				}
				return a, nil
			}

			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				a.store.Flush()
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.Stats):
				if a.layoutMode == LayoutNarrow {
					a.statsOnly = !a.statsOnly
				}
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.FocusMsg:
		// Returning to the foreground may be hours later: fold elapsed
		// time into records and roll the displayed date if midnight passed.
		a.reconcile(time.Now())
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		now := time.Time(msg)
		a.store.TickForeground(now)

		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}

		// Day rollover and goal crossings need a reconcile pass so
		// records flip without a manual stop.
		if a.store.Today() != a.lastToday || a.timerCrossedGoal(now) {
			a.reconcile(now)
		}
		return a, tickCmd()
	}

	// Forward everything else to the habits pane
	cmd := a.habitsPane.Update(msg)
	if h, ok := a.habitsPane.Selected(); ok {
		a.statsPane.SetSelected(h.ID)
	} else {
		a.statsPane.SetSelected("")
	}
	return a, cmd
}

// reconcile folds running timers into their records and refreshes the list.
func (a *App) reconcile(now time.Time) {
	a.store.ReconcileActiveTimers(now)
	if today := a.store.Today(); today != a.lastToday {
		a.lastToday = today
		// Follow the calendar when the user was looking at the old today.
		if a.store.SelectedDate() < today {
			_ = a.store.SetSelectedDate(today)
		}
	}
	a.habitsPane.Refresh()
}

// timerCrossedGoal reports whether any running timer has reached its
// habit's target without the record being marked done yet.
func (a *App) timerCrossedGoal(now time.Time) bool {
	for id, sessions := range a.store.ActiveTimers() {
		h, ok := a.store.Habit(id)
		if !ok {
			continue
		}
		for stamp := range sessions {
			if h.Record(stamp).Done {
				continue
			}
			if a.store.DisplayedValue(id, stamp, now) >= h.Goal.Target {
				return true
			}
		}
	}
	return false
}

// handleMouse routes mouse events to the panes.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showWelcome {
		if msg.Action == tea.MouseActionPress {
			a.showWelcome = false
		}
		return nil
	}

	if a.confirmDel != nil {
		if msg.Action == tea.MouseActionPress {
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	if a.showHelp {
		if msg.Action == tea.MouseActionPress {
			a.showHelp = false
		}
		return nil
	}

	// The habits pane owns all row interactions; clicks on the stats
	// panel have nothing to act on.
	if msg.X >= a.statsPaneStart && a.layoutMode == LayoutWide {
		return nil
	}

	localMsg := msg
	localMsg.Y = msg.Y - a.contentTop
	localMsg.X = msg.X - a.habitsPaneStart
	return a.habitsPane.Update(localMsg)
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (2) and help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	// Content starts after title bar (1 line title + 1 line space)
	a.contentTop = 2

	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		// Narrow mode: the stats panel collapses, 's' swaps it in
		a.layoutMode = LayoutNarrow

		paneWidth := totalWidth
		if paneWidth < 20 {
			paneWidth = 20
		}
		a.habitsPane.SetSize(paneWidth, contentHeight)
		a.statsPane.SetSize(paneWidth, contentHeight)

		a.habitsPaneStart = 0
		a.habitsPaneEnd = a.width
		a.statsPaneStart = 0
		a.statsPaneEnd = a.width
	} else {
		// Wide mode: list and stats side-by-side
		a.layoutMode = LayoutWide
		a.statsOnly = false

		habitsWidth := min((totalWidth*62)/100, 70)
		statsWidth := totalWidth - habitsWidth - 1

		a.habitsPane.SetSize(habitsWidth, contentHeight)
		a.statsPane.SetSize(statsWidth, contentHeight)

		a.habitsPaneStart = 0
		a.habitsPaneEnd = habitsWidth
		a.statsPaneStart = habitsWidth + 1
		a.statsPaneEnd = a.statsPaneStart + statsWidth
	}
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	switch {
	case a.layoutMode == LayoutNarrow && a.statsOnly:
		b.WriteString(a.statsPane.View())
	case a.layoutMode == LayoutNarrow:
		b.WriteString(a.habitsPane.View())
	default:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			a.habitsPane.View(), " ", a.statsPane.View()))
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to cadence"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Add your first habit with 'a'.\n"))
	b.WriteString(bodyStyle.Render("Space toggles, h/l scroll days, ? opens help.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderGoodbye shows an exit message with the day's progress.
func (a *App) renderGoodbye() string {
	done, total := a.habitsPane.CompletionRate()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you tomorrow!\n")
	b.WriteString("\n")

	if total > 0 {
		pct := (done * 100) / total
		b.WriteString(fmt.Sprintf("  Habits today: %d/%d (%d%%)\n", done, total, pct))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with the day's progress.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" cadence ")

	done, total := a.habitsPane.CompletionRate()
	var stats string
	if total > 0 {
		stats = a.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d done", done, total))
	}

	now := time.Now()
	dateStr := now.Format("Mon Jan 2 · 15:04")
	date := a.styles.DateStyle.Render(dateStr)

	titleWidth := lipgloss.Width(title)
	statsWidth := lipgloss.Width(stats)
	dateWidth := lipgloss.Width(date)

	spacerWidth := a.width - titleWidth - statsWidth - dateWidth - 4
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	var parts []string
	parts = append(parts, title)
	if stats != "" {
		parts = append(parts, "  "+stats)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth), date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.habitsPane.IsAdding() {
		return a.styles.RenderHelp(
			"enter", "next/save",
			"esc", "cancel",
		)
	}

	return a.styles.RenderHelp(
		"a", "add",
		"space", "toggle",
		"h/l", "day",
		"x", "del",
		"j/k", "nav",
		"?", "help",
	)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// truncateText shortens a string for overlay display.
func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// Run starts the Bubble Tea program over a hydrated store.
func Run(s *store.Store, styles *Styles, cfg *AppConfig) error {
	app := NewApp(s, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
