package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"cadence/internal/habit"
)

// JSONImporter reads the native export format: a JSON object keyed by
// habit id, mirroring habits.json on disk.
type JSONImporter struct{}

// Name returns "json".
func (j *JSONImporter) Name() string {
	return "json"
}

// Parse decodes a keyed habit object. Arrays, scalars, and other
// top-level shapes are rejected before any entry is decoded so the
// caller can tell a wrong-shape file from a corrupt one.
func (j *JSONImporter) Parse(reader io.Reader) (map[string]habit.Habit, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if !isJSONObject(raw) {
		return nil, fmt.Errorf("import payload must be an object keyed by habit id")
	}

	var habits map[string]habit.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("failed to parse habits: %w", err)
	}

	for id, h := range habits {
		if h.History == nil {
			h.History = make(map[string]habit.Record)
			habits[id] = h
		}
	}
	return habits, nil
}

// Preview reads the collection without importing.
func (j *JSONImporter) Preview(reader io.Reader) ([]PreviewHabit, error) {
	habits, err := j.Parse(reader)
	if err != nil {
		return nil, err
	}
	return previewOf(habits), nil
}

func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
