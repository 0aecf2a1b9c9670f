package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cadence/internal/habit"
)

// CSVImporter reads the history CSV export: one row per habit per date
// with columns HabitID, Title, Goal, Date, Done, Value.
//
// CSV rows carry no schedule or goal target. Re-imported habits repeat
// daily, and a measured habit's target is reconstructed as the largest
// recorded value so the collection stays valid.
type CSVImporter struct{}

// Name returns "csv".
func (c *CSVImporter) Name() string {
	return "csv"
}

// Parse reads history rows and rebuilds a keyed habit collection.
func (c *CSVImporter) Parse(reader io.Reader) (map[string]habit.Habit, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Strip UTF-8 BOM from the first column if present.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"habitid", "title", "date"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	habits := make(map[string]habit.Habit)
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id := field(row, colIndex, "habitid")
		title := field(row, colIndex, "title")
		date := field(row, colIndex, "date")
		if id == "" || !habit.IsStamp(date) {
			continue
		}

		h, ok := habits[id]
		if !ok {
			h = habit.Habit{
				ID:        id,
				Title:     title,
				Repeat:    habit.Repetition{Kind: habit.RepeatDaily},
				Goal:      parseGoalKind(field(row, colIndex, "goal")),
				History:   make(map[string]habit.Record),
				CreatedAt: date,
			}
		}
		if date < h.CreatedAt {
			h.CreatedAt = date
		}

		rec := habit.Record{
			Done: strings.EqualFold(field(row, colIndex, "done"), "true"),
		}
		if raw := field(row, colIndex, "value"); raw != "" {
			if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
				rec.Value = v
			}
		}
		h.History[date] = rec

		if h.Goal.Measured() && rec.Value > h.Goal.Target {
			h.Goal.Target = rec.Value
		}
		habits[id] = h
	}

	for id, h := range habits {
		if h.Goal.Measured() && h.Goal.Target == 0 {
			h.Goal.Target = 1
			habits[id] = h
		}
	}
	return habits, nil
}

// Preview reads the collection without importing.
func (c *CSVImporter) Preview(reader io.Reader) ([]PreviewHabit, error) {
	habits, err := c.Parse(reader)
	if err != nil {
		return nil, err
	}
	return previewOf(habits), nil
}

func field(row []string, colIndex map[string]int, name string) string {
	i, ok := colIndex[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseGoalKind(raw string) habit.Goal {
	switch habit.GoalKind(strings.ToLower(raw)) {
	case habit.GoalRepetitions:
		return habit.Goal{Kind: habit.GoalRepetitions}
	case habit.GoalTimed:
		return habit.Goal{Kind: habit.GoalTimed}
	default:
		return habit.Goal{Kind: habit.GoalSimple}
	}
}
