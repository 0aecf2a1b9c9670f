// Package ui provides the terminal user interface for cadence.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"cadence/internal/config"
	"cadence/internal/habit"
	"cadence/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// addStep enumerates the stages of the multi-step add/edit flow.
type addStep int

const (
	stepTitle addStep = iota
	stepIcon
	stepRepeat
	stepGoal
)

// HabitsPane shows the habits due on the displayed date and handles all
// habit and completion interactions.
type HabitsPane struct {
	store   *store.Store
	rows    []habit.Habit
	cursor  int
	focused bool
	width   int
	height  int

	adding  bool
	editing string // habit id being edited, empty when adding
	step    addStep
	input   textinput.Model
	draft   draftHabit

	styles *Styles

	// Key bindings
	keys      HabitKeyMap
	dateKeys  DateKeyMap
	inputKeys InputKeyMap
}

// draftHabit accumulates the add/edit flow's answers.
type draftHabit struct {
	title string
	icon  string
	rep   habit.Repetition
	goal  habit.Goal
}

// NewHabitsPane creates a new habits pane.
func NewHabitsPane(s *store.Store, styles *Styles) *HabitsPane {
	return NewHabitsPaneWithKeys(s, styles, &config.KeysConfig{})
}

// NewHabitsPaneWithKeys creates a new habits pane with custom key bindings.
func NewHabitsPaneWithKeys(s *store.Store, styles *Styles, keyCfg *config.KeysConfig) *HabitsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "Habit name (e.g., Meditate)"
	ti.CharLimit = 60
	ti.Width = 30

	p := &HabitsPane{
		store:     s,
		styles:    styles,
		input:     ti,
		keys:      NewHabitKeyMap(keyCfg),
		dateKeys:  NewDateKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.Refresh()
	return p
}

// Refresh recomputes the visible rows from the store and clamps the cursor.
func (p *HabitsPane) Refresh() {
	p.rows = p.store.DueOn(p.store.SelectedDate())
	if p.cursor >= len(p.rows) {
		p.cursor = max(0, len(p.rows)-1)
	}
}

// SetSize sets the pane dimensions.
func (p *HabitsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused.
func (p *HabitsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *HabitsPane) IsFocused() bool {
	return p.focused
}

// IsAdding returns whether the add/edit flow is active.
func (p *HabitsPane) IsAdding() bool {
	return p.adding
}

// Selected returns the habit under the cursor.
func (p *HabitsPane) Selected() (habit.Habit, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return habit.Habit{}, false
	}
	return p.rows[p.cursor], true
}

// Update handles messages for the habits pane.
func (p *HabitsPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	// Store mutation results: the store already holds the new state, just
	// re-read the visible rows.
	switch msg.(type) {
	case habitAddedMsg, habitUpdatedMsg, habitDeletedMsg,
		completionAppliedMsg, timerStartedMsg, timerStoppedMsg:
		p.Refresh()
		return nil
	}

	if p.adding {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				return p.advanceFlow()
			case key.Matches(msg, p.inputKeys.Cancel):
				p.resetFlow()
				return nil
			}
		}
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		stamp := p.store.SelectedDate()

		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.rows) > 0 {
				p.cursor = min(p.cursor+1, len(p.rows)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.rows) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			p.cursor = max(0, len(p.rows)-1)

		case key.Matches(msg, p.dateKeys.PrevDay):
			p.store.ShiftSelectedDate(-1)
			p.Refresh()

		case key.Matches(msg, p.dateKeys.NextDay):
			p.store.ShiftSelectedDate(1)
			p.Refresh()

		case key.Matches(msg, p.dateKeys.Today):
			_ = p.store.SetSelectedDate(p.store.Today())
			p.Refresh()

		case key.Matches(msg, p.keys.Add):
			p.startAddFlow()
			return textinput.Blink

		case key.Matches(msg, p.keys.Edit):
			if h, ok := p.Selected(); ok {
				p.startEditFlow(h)
				return textinput.Blink
			}

		case key.Matches(msg, p.keys.Toggle):
			if h, ok := p.Selected(); ok {
				return p.advanceHabit(h, stamp)
			}

		case key.Matches(msg, p.keys.Increment):
			if h, ok := p.Selected(); ok && h.Goal.Measured() {
				return setValueCmd(p.store, h.ID, stamp, p.stepValue(h, stamp, 1))
			}

		case key.Matches(msg, p.keys.Decrement):
			if h, ok := p.Selected(); ok && h.Goal.Measured() {
				return setValueCmd(p.store, h.ID, stamp, p.stepValue(h, stamp, -1))
			}

		case key.Matches(msg, p.keys.Skip):
			if h, ok := p.Selected(); ok {
				return skipHabitCmd(p.store, h.ID, stamp)
			}

		case key.Matches(msg, p.keys.MarkDone):
			if h, ok := p.Selected(); ok {
				return markDoneCmd(p.store, h, stamp)
			}

		case key.Matches(msg, p.keys.Delete):
			// Deletion (and confirmation) is handled by the app so the
			// overlay can sit above both panes.
		}
	}

	return nil
}

// handleMouse processes mouse events for the habits pane.
func (p *HabitsPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.rows) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) + blank (1)
	const headerRows = 3

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
		return nil

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.rows)-1)
		return nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}

		row := msg.Y - headerRows
		if row < 0 || row >= len(p.rows) {
			return nil
		}
		p.cursor = row

		// A click on the checkbox area performs the primary action.
		if msg.X < 6 {
			return p.advanceHabit(p.rows[row], p.store.SelectedDate())
		}
	}

	return nil
}

// advanceHabit performs the primary action for a habit row, by goal kind:
// simple habits toggle, repetition habits count one more, timed habits
// start or stop the session timer.
func (p *HabitsPane) advanceHabit(h habit.Habit, stamp string) tea.Cmd {
	switch h.Goal.Kind {
	case habit.GoalRepetitions:
		return setValueCmd(p.store, h.ID, stamp, h.Record(stamp).Value+1)
	case habit.GoalTimed:
		if p.store.TimerActive(h.ID, stamp) {
			return stopTimerCmd(p.store, h.ID, stamp)
		}
		return startTimerCmd(p.store, h.ID, stamp)
	default:
		return toggleHabitCmd(p.store, h.ID, stamp)
	}
}

// stepValue computes the next value for an increment or decrement. One step
// is a repetition for counted habits and a minute for timed ones; values
// never go below zero.
func (p *HabitsPane) stepValue(h habit.Habit, stamp string, direction int64) int64 {
	step := int64(1)
	if h.Goal.Kind == habit.GoalTimed {
		step = 60_000
	}
	v := h.Record(stamp).Value + direction*step
	if v < 0 {
		v = 0
	}
	return v
}

// =============================================================================
// Add / Edit flow
// =============================================================================

func (p *HabitsPane) startAddFlow() {
	p.adding = true
	p.editing = ""
	p.step = stepTitle
	p.draft = draftHabit{}
	p.input.Reset()
	p.input.Placeholder = "Habit name (e.g., Meditate)"
	p.input.CharLimit = 60
	p.input.Focus()
}

func (p *HabitsPane) startEditFlow(h habit.Habit) {
	p.adding = true
	p.editing = h.ID
	p.step = stepTitle
	p.draft = draftHabit{title: h.Title, icon: h.Icon, rep: h.Repeat, goal: h.Goal}
	p.input.Reset()
	p.input.SetValue(h.Title)
	p.input.Placeholder = "Habit name"
	p.input.CharLimit = 60
	p.input.Focus()
}

// advanceFlow moves the add/edit flow to the next step, or submits.
func (p *HabitsPane) advanceFlow() tea.Cmd {
	value := strings.TrimSpace(p.input.Value())

	switch p.step {
	case stepTitle:
		if value == "" {
			return nil
		}
		p.draft.title = value
		p.step = stepIcon
		p.input.Reset()
		p.input.SetValue(p.draft.icon)
		p.input.Placeholder = "Icon (emoji, optional)"
		p.input.CharLimit = 4

	case stepIcon:
		p.draft.icon = value
		if p.editing != "" {
			// Edits only touch title and icon; schedule and goal changes
			// would rewrite history semantics.
			id := p.editing
			title, icon := p.draft.title, p.draft.icon
			p.resetFlow()
			return updateHabitCmd(p.store, id, store.Patch{Title: &title, Icon: &icon})
		}
		p.step = stepRepeat
		p.input.Reset()
		p.input.Placeholder = "Repeat: daily | weekdays:mwf | every:3"
		p.input.CharLimit = 30

	case stepRepeat:
		rep, err := parseRepetition(value)
		if err != nil {
			p.input.Reset()
			p.input.Placeholder = err.Error()
			return nil
		}
		p.draft.rep = rep
		p.step = stepGoal
		p.input.Reset()
		p.input.Placeholder = "Goal: simple | reps:5 | time:30m"
		p.input.CharLimit = 30

	case stepGoal:
		goal, err := parseGoal(value)
		if err != nil {
			p.input.Reset()
			p.input.Placeholder = err.Error()
			return nil
		}
		p.draft.goal = goal
		d := p.draft
		p.resetFlow()
		return addHabitCmd(p.store, d.title, d.icon, d.rep, d.goal)
	}

	return nil
}

// resetFlow resets the add/edit state.
func (p *HabitsPane) resetFlow() {
	p.adding = false
	p.editing = ""
	p.step = stepTitle
	p.draft = draftHabit{}
	p.input.Reset()
	p.input.Placeholder = "Habit name (e.g., Meditate)"
	p.input.CharLimit = 60
}

// parseRepetition parses the repeat answer of the add flow. Empty means
// daily. Weekday letters follow u/m/t/w/r/f/a for Sunday through Saturday.
func parseRepetition(s string) (habit.Repetition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "daily":
		return habit.Repetition{Kind: habit.RepeatDaily}, nil

	case strings.HasPrefix(s, "weekdays:"):
		letters := strings.TrimPrefix(s, "weekdays:")
		dayFor := map[rune]int{'u': 0, 'm': 1, 't': 2, 'w': 3, 'r': 4, 'f': 5, 'a': 6}
		var days []int
		seen := make(map[int]bool)
		for _, r := range letters {
			d, ok := dayFor[r]
			if !ok {
				return habit.Repetition{}, fmt.Errorf("unknown day %q (use umtwrfa)", string(r))
			}
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
		if len(days) == 0 {
			return habit.Repetition{}, fmt.Errorf("pick at least one day (umtwrfa)")
		}
		return habit.Repetition{Kind: habit.RepeatWeekdays, Days: days}, nil

	case strings.HasPrefix(s, "every:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "every:"))
		if err != nil || n < 1 {
			return habit.Repetition{}, fmt.Errorf("every:N needs a positive number")
		}
		return habit.Repetition{Kind: habit.RepeatInterval, EveryNDays: n}, nil
	}
	return habit.Repetition{}, fmt.Errorf("use daily, weekdays:mwf, or every:3")
}

// parseGoal parses the goal answer of the add flow. Empty means simple.
// Timed targets are minutes.
func parseGoal(s string) (habit.Goal, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "simple":
		return habit.Goal{Kind: habit.GoalSimple}, nil

	case strings.HasPrefix(s, "reps:"):
		n, err := strconv.ParseInt(strings.TrimPrefix(s, "reps:"), 10, 64)
		if err != nil || n < 1 {
			return habit.Goal{}, fmt.Errorf("reps:N needs a positive number")
		}
		return habit.Goal{Kind: habit.GoalRepetitions, Target: n}, nil

	case strings.HasPrefix(s, "time:"):
		raw := strings.TrimSuffix(strings.TrimPrefix(s, "time:"), "m")
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			return habit.Goal{}, fmt.Errorf("time:N needs minutes, e.g., time:30m")
		}
		return habit.Goal{Kind: habit.GoalTimed, Target: n * 60_000}, nil
	}
	return habit.Goal{}, fmt.Errorf("use simple, reps:5, or time:30m")
}

// =============================================================================
// Rendering
// =============================================================================

// View renders the habits pane.
func (p *HabitsPane) View() string {
	var b strings.Builder

	title := p.styles.PaneTitleStyle.Render("HABITS · " + p.dateLabel())
	b.WriteString(title)
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.rows) == 0 && !p.adding {
		b.WriteString("\n")
		b.WriteString(p.styles.StatLabelStyle.Render("  Nothing due on this day."))
		b.WriteString("\n")
		b.WriteString(p.styles.StatLabelStyle.Render("  Press 'a' to add a habit."))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		stamp := p.store.SelectedDate()
		for i, h := range p.rows {
			b.WriteString(p.renderRow(h, stamp, i == p.cursor && p.focused && !p.adding))
			b.WriteString("\n")
		}
	}

	if p.adding {
		b.WriteString("\n")
		b.WriteString("  " + p.styles.InputPromptStyle.Render(p.flowPrompt()) + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderRow renders a single habit line for the given date.
func (p *HabitsPane) renderRow(h habit.Habit, stamp string, selected bool) string {
	rec := h.Record(stamp)

	prefix := "  "
	if selected {
		prefix = "▶ "
	}

	checkbox := p.styles.CheckboxPending
	if rec.Done {
		checkbox = p.styles.CheckboxDone
	} else if _, skipped := h.History[stamp]; skipped && !h.Goal.Measured() {
		// An explicit not-done record on a simple habit is a skip.
		checkbox = p.styles.CheckboxSkipped
	}

	icon := h.Icon
	if icon == "" {
		icon = " "
	}

	line := fmt.Sprintf("%s%s %s %s", prefix, checkbox, icon, h.Title)

	// Progress for measured goals
	if h.Goal.Measured() {
		value := rec.Value
		running := false
		if h.Goal.Kind == habit.GoalTimed {
			running = p.store.TimerActive(h.ID, stamp)
			if running {
				value = p.store.DisplayedValue(h.ID, stamp, p.store.LastTick())
			}
		}
		progress := formatProgress(h.Goal, value)
		if running {
			progress = "▶ " + progress
			line += "  " + p.styles.TimerRunningStyle.Render(progress)
		} else {
			line += "  " + p.styles.ProgressStyle.Render(progress)
		}
	}

	// Streak badge
	if stats, ok := p.store.Stats(h.ID); ok && stats.CurrentStreak > 1 {
		line += " " + p.styles.StreakStyle.Render(fmt.Sprintf("🔥%d", stats.CurrentStreak))
	}

	if selected {
		return p.styles.HabitSelectedStyle.Render(line)
	}
	return line
}

// dateLabel renders the displayed date relative to today.
func (p *HabitsPane) dateLabel() string {
	stamp := p.store.SelectedDate()
	today := p.store.Today()
	switch stamp {
	case today:
		return "Today"
	case habit.AddDays(today, -1):
		return "Yesterday"
	case habit.AddDays(today, 1):
		return "Tomorrow"
	}
	return stamp
}

// flowPrompt returns the prompt label for the current add/edit step.
func (p *HabitsPane) flowPrompt() string {
	switch p.step {
	case stepIcon:
		return "Icon: "
	case stepRepeat:
		return "Repeat: "
	case stepGoal:
		return "Goal: "
	}
	return "Name: "
}

// formatProgress renders "3/5" for repetition goals and "12m/30m" for timed.
func formatProgress(g habit.Goal, value int64) string {
	if g.Kind == habit.GoalTimed {
		return formatMillis(value) + "/" + formatMillis(g.Target)
	}
	return fmt.Sprintf("%d/%d", value, g.Target)
}

// formatMillis renders a millisecond count compactly.
func formatMillis(ms int64) string {
	totalSec := ms / 1000
	switch {
	case totalSec >= 3600:
		return fmt.Sprintf("%dh%02dm", totalSec/3600, (totalSec%3600)/60)
	case totalSec >= 60:
		return fmt.Sprintf("%dm%02ds", totalSec/60, totalSec%60)
	default:
		return fmt.Sprintf("%ds", totalSec)
	}
}

// CompletionRate returns how many due habits were completed on the
// displayed date.
func (p *HabitsPane) CompletionRate() (done, total int) {
	stamp := p.store.SelectedDate()
	total = len(p.rows)
	for _, h := range p.rows {
		if h.Record(stamp).Done {
			done++
		}
	}
	return done, total
}
