package reports

import (
	"strings"
	"testing"
)

func TestFormatDailyMarkdown(t *testing.T) {
	gen := testGenerator(t, reportHabits())
	report, err := gen.GenerateDaily("2026-03-09")
	if err != nil {
		t.Fatalf("GenerateDaily() error: %v", err)
	}

	md := FormatDailyMarkdown(report)
	if !strings.Contains(md, "# Daily Report: 2026-03-09") {
		t.Error("Missing report heading")
	}
	if !strings.Contains(md, "[x] Meditate") {
		t.Error("Completed habit not checked")
	}
	if !strings.Contains(md, "[ ] Gym") {
		t.Error("Missed habit should be unchecked")
	}
	if !strings.Contains(md, "1/2 (50%)") {
		t.Error("Missing completion summary")
	}
}

func TestFormatDailyMarkdownEmptyDay(t *testing.T) {
	gen := testGenerator(t, reportHabits())

	// A date before any habit existed has nothing due.
	early, err := gen.GenerateDaily("2020-01-01")
	if err != nil {
		t.Fatalf("GenerateDaily() error: %v", err)
	}
	md := FormatDailyMarkdown(early)
	if !strings.Contains(md, "Nothing due") {
		t.Error("Expected empty-day message")
	}
}

func TestFormatWeeklyMarkdown(t *testing.T) {
	gen := testGenerator(t, reportHabits())
	report, err := gen.GenerateWeekly("2026-03-10")
	if err != nil {
		t.Fatalf("GenerateWeekly() error: %v", err)
	}

	md := FormatWeeklyMarkdown(report)
	if !strings.Contains(md, "# Weekly Report: 2026-03-08 to 2026-03-14") {
		t.Error("Missing report heading")
	}
	if !strings.Contains(md, "| Habit | Su | Mo | Tu | We | Th | Fr | Sa |") {
		t.Error("Missing grid header")
	}
	if !strings.Contains(md, "## Daily Breakdown") {
		t.Error("Missing daily breakdown section")
	}
	if !strings.Contains(md, "| Meditate |") {
		t.Error("Missing habit row")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{30000, "30s"},
		{90000, "1m"},
		{1800000, "30m"},
		{5400000, "1h30m"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.ms); got != tc.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}
