// Package importer provides import functionality for loading habit
// collections from exported files. Parsers only decode and shape the
// payload; validation and replacement happen in the store.
package importer

import (
	"io"

	"cadence/internal/habit"
)

// PreviewHabit summarizes one habit from an import file before the
// collection is applied.
type PreviewHabit struct {
	ID      string
	Title   string
	Goal    habit.GoalKind
	Repeat  habit.RepeatKind
	Records int
}

// Importer defines the interface for import implementations.
type Importer interface {
	// Parse reads a habit collection from the reader, keyed by habit id.
	Parse(reader io.Reader) (map[string]habit.Habit, error)

	// Preview reads the collection without importing.
	Preview(reader io.Reader) ([]PreviewHabit, error)

	// Name returns the importer name (e.g., "json", "csv").
	Name() string
}

// GetImporter returns the appropriate importer for the given format.
func GetImporter(format string) Importer {
	switch format {
	case "json":
		return &JSONImporter{}
	case "csv":
		return &CSVImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"json", "csv"}
}

func previewOf(habits map[string]habit.Habit) []PreviewHabit {
	previews := make([]PreviewHabit, 0, len(habits))
	for id, h := range habits {
		previews = append(previews, PreviewHabit{
			ID:      id,
			Title:   h.Title,
			Goal:    h.Goal.Kind,
			Repeat:  h.Repeat.Kind,
			Records: len(h.History),
		})
	}
	return previews
}
