// This file contains tests for the main App model, including layout behavior
// and the deletion confirmation overlay.
package ui

import (
	"strings"
	"testing"
	"time"

	"cadence/internal/config"
	"cadence/internal/habit"

	tea "github.com/charmbracelet/bubbletea"
)

// driveApp sends a message to the app and runs any resulting command,
// feeding its message back.
func driveApp(a *App, msg tea.Msg) {
	if _, cmd := a.Update(msg); cmd != nil {
		if result := cmd(); result != nil {
			a.Update(result)
		}
	}
}

func newTestApp(t *testing.T, cfg *AppConfig) *App {
	t.Helper()
	setupTest(t)
	s := createTestStore(t)
	app := NewApp(s, createTestStyles(), cfg)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

// TestApp_LayoutModeTransitions verifies layout mode changes based on width.
func TestApp_LayoutModeTransitions(t *testing.T) {
	app := newTestApp(t, &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
	})

	tests := []struct {
		name         string
		width        int
		expectedMode LayoutMode
	}{
		{"Very narrow (40)", 40, LayoutNarrow},
		{"Below threshold (79)", 79, LayoutNarrow},
		{"At threshold (80)", 80, LayoutWide},
		{"Wide (120)", 120, LayoutWide},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app.Update(tea.WindowSizeMsg{Width: tc.width, Height: 30})
			if app.layoutMode != tc.expectedMode {
				t.Errorf("Width %d: expected layout mode %v, got %v",
					tc.width, tc.expectedMode, app.layoutMode)
			}
		})
	}
}

// TestApp_NarrowLayoutCollapsesStats verifies the stats panel disappears
// below the threshold and 's' swaps it in.
func TestApp_NarrowLayoutCollapsesStats(t *testing.T) {
	app := newTestApp(t, &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
	})
	addTestHabit(t, app.store, "Meditate")
	app.habitsPane.Refresh()

	app.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	view := app.View()
	if strings.Contains(view, "STATS") {
		t.Error("Narrow layout should hide the stats panel")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	view = app.View()
	if !strings.Contains(view, "STATS") {
		t.Error("'s' should swap the stats panel in when narrow")
	}
	if strings.Contains(view, "HABITS") {
		t.Error("Stats view replaces the list in narrow mode")
	}
}

// TestApp_WideLayoutShowsBothPanes verifies side-by-side rendering.
func TestApp_WideLayoutShowsBothPanes(t *testing.T) {
	app := newTestApp(t, &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
	})
	addTestHabit(t, app.store, "Meditate")
	app.habitsPane.Refresh()

	view := app.View()
	if !strings.Contains(view, "HABITS") || !strings.Contains(view, "STATS") {
		t.Error("Wide layout should show both panes")
	}
}

// TestApp_ConfirmDeleteFlow verifies the deletion confirmation overlay.
func TestApp_ConfirmDeleteFlow(t *testing.T) {
	app := newTestApp(t, &AppConfig{
		Keys:             &config.KeysConfig{},
		ConfirmDeletions: true,
	})
	h := addTestHabit(t, app.store, "Meditate")
	app.habitsPane.Refresh()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if app.confirmDel == nil {
		t.Fatal("Expected confirmation overlay after delete key")
	}
	if !strings.Contains(app.View(), "Delete habit?") {
		t.Error("Overlay should ask for confirmation")
	}

	// 'n' cancels
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if app.confirmDel != nil {
		t.Fatal("Expected 'n' to dismiss the overlay")
	}
	if _, ok := app.store.Habit(h.ID); !ok {
		t.Fatal("Canceled delete should keep the habit")
	}

	// 'y' confirms
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	driveApp(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if _, ok := app.store.Habit(h.ID); ok {
		t.Error("Confirmed delete should remove the habit")
	}
}

// TestApp_DeleteWithoutConfirmation verifies direct deletion when disabled.
func TestApp_DeleteWithoutConfirmation(t *testing.T) {
	app := newTestApp(t, &AppConfig{
		Keys:             &config.KeysConfig{},
		ConfirmDeletions: false,
	})
	h := addTestHabit(t, app.store, "Meditate")
	app.habitsPane.Refresh()

	driveApp(app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if app.confirmDel != nil {
		t.Error("No overlay expected when confirmations are off")
	}
	if _, ok := app.store.Habit(h.ID); ok {
		t.Error("Delete should apply immediately")
	}
}

// TestApp_WelcomeDismissal verifies the onboarding overlay.
func TestApp_WelcomeDismissal(t *testing.T) {
	app := newTestApp(t, &AppConfig{
		Keys:           &config.KeysConfig{},
		ShowOnboarding: true,
	})

	if !app.showWelcome {
		t.Fatal("Empty store with onboarding enabled should show welcome")
	}
	if !strings.Contains(app.View(), "Welcome to cadence") {
		t.Error("Welcome overlay should render")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if app.showWelcome {
		t.Error("Any key should dismiss the welcome overlay")
	}
}

// TestApp_NoWelcomeWithHabits verifies onboarding is skipped for existing data.
func TestApp_NoWelcomeWithHabits(t *testing.T) {
	setupTest(t)
	s := createTestStore(t)
	addTestHabit(t, s, "Meditate")

	app := NewApp(s, createTestStyles(), &AppConfig{
		Keys:           &config.KeysConfig{},
		ShowOnboarding: true,
	})
	if app.showWelcome {
		t.Error("Welcome should not show when habits exist")
	}
}

// TestApp_StatusExpiry verifies status messages clear after their TTL.
func TestApp_StatusExpiry(t *testing.T) {
	app := newTestApp(t, &AppConfig{Keys: &config.KeysConfig{}})

	app.SetStatus("saved", false)
	if app.status != "saved" {
		t.Fatal("Expected status to be set")
	}

	app.statusUntil = time.Now().Add(-time.Second)
	app.Update(tickMsg(time.Now()))
	if app.status != "" {
		t.Error("Expected status to clear after TTL")
	}
}

// TestApp_ReconcileOnFocus verifies a focus event folds running timers.
func TestApp_ReconcileOnFocus(t *testing.T) {
	app := newTestApp(t, &AppConfig{Keys: &config.KeysConfig{}})
	s := app.store

	h, err := s.AddHabit("Read", "", habit.Repetition{Kind: habit.RepeatDaily},
		habit.Goal{Kind: habit.GoalTimed, Target: 60_000})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ActivateTimer(h.ID, s.Today()); err != nil {
		t.Fatal(err)
	}

	// Regaining focus 90 seconds later folds elapsed time into the record.
	future := testNow.Add(90 * time.Second)
	s.SetClock(fixedClock{now: future})
	app.Update(tea.FocusMsg{})

	got, _ := s.Habit(h.ID)
	rec := got.Record(s.Today())
	if rec.Value < 60_000 || !rec.Done {
		t.Errorf("After reconcile: value=%d done=%v, want >=60000/true", rec.Value, rec.Done)
	}
	if !s.TimerActive(h.ID, s.Today()) {
		t.Error("Reconcile keeps the timer running past the goal")
	}
}

// TestApp_QuitRendersGoodbye verifies the exit screen.
func TestApp_QuitRendersGoodbye(t *testing.T) {
	app := newTestApp(t, &AppConfig{Keys: &config.KeysConfig{}})
	addTestHabit(t, app.store, "Meditate")
	app.habitsPane.Refresh()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !app.quitting {
		t.Fatal("Expected q to quit")
	}
	if !strings.Contains(app.View(), "See you") {
		t.Error("Expected goodbye screen")
	}
}
