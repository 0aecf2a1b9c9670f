package importer

import (
	"strings"
	"testing"

	"cadence/internal/habit"
)

// TestJSON_ParseKeyedObject tests parsing the native export shape.
func TestJSON_ParseKeyedObject(t *testing.T) {
	payload := `{
		"h_1": {
			"id": "h_1",
			"title": "Meditate",
			"repeat": {"kind": "daily"},
			"goal": {"kind": "simple"},
			"history": {"2026-03-09": {"done": true}},
			"created_at": "2026-03-01"
		},
		"h_2": {
			"id": "h_2",
			"title": "Run",
			"repeat": {"kind": "weekdays", "days": [1, 3, 5]},
			"goal": {"kind": "timed", "target": 1800000},
			"created_at": "2026-03-05"
		}
	}`

	importer := &JSONImporter{}
	habits, err := importer.Parse(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("Expected 2 habits, got %d", len(habits))
	}

	h1 := habits["h_1"]
	if h1.Title != "Meditate" {
		t.Errorf("Expected title 'Meditate', got %q", h1.Title)
	}
	if !h1.Record("2026-03-09").Done {
		t.Error("Expected 2026-03-09 to be done")
	}

	// History omitted in the file still decodes to a usable map.
	h2 := habits["h_2"]
	if h2.History == nil {
		t.Error("Expected non-nil history for h_2")
	}
	if h2.Goal.Kind != habit.GoalTimed || h2.Goal.Target != 1800000 {
		t.Errorf("Unexpected goal for h_2: %+v", h2.Goal)
	}
}

// TestJSON_RejectsWrongShape tests that non-object payloads fail before
// entry decoding.
func TestJSON_RejectsWrongShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"array", `[{"id": "h_1", "title": "Meditate"}]`},
		{"string", `"habits"`},
		{"number", `42`},
		{"null", `null`},
	}

	importer := &JSONImporter{}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := importer.Parse(strings.NewReader(tc.payload))
			if err == nil {
				t.Fatal("Expected error for wrong-shape payload")
			}
			if !strings.Contains(err.Error(), "keyed by habit id") {
				t.Errorf("Expected shape error, got: %v", err)
			}
		})
	}
}

// TestJSON_RejectsMalformed tests that corrupt input reports a JSON
// error rather than a shape error.
func TestJSON_RejectsMalformed(t *testing.T) {
	importer := &JSONImporter{}
	_, err := importer.Parse(strings.NewReader(`{"h_1": {`))
	if err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("Expected JSON error, got: %v", err)
	}
}

// TestCSV_ParseHistory tests rebuilding habits from history rows.
func TestCSV_ParseHistory(t *testing.T) {
	csv := `HabitID,Title,Goal,Date,Done,Value
h_1,Meditate,simple,2026-03-09,true,0
h_1,Meditate,simple,2026-03-10,false,0
h_2,"Read, daily",repetitions,2026-03-08,true,20
h_2,"Read, daily",repetitions,2026-03-09,false,5`

	importer := &CSVImporter{}
	habits, err := importer.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("Expected 2 habits, got %d", len(habits))
	}

	h1 := habits["h_1"]
	if len(h1.History) != 2 {
		t.Errorf("Expected 2 records for h_1, got %d", len(h1.History))
	}
	if !h1.Record("2026-03-09").Done {
		t.Error("Expected h_1 done on 2026-03-09")
	}
	if h1.CreatedAt != "2026-03-09" {
		t.Errorf("Expected created_at 2026-03-09, got %q", h1.CreatedAt)
	}

	h2 := habits["h_2"]
	if h2.Title != "Read, daily" {
		t.Errorf("Quoted title not preserved: %q", h2.Title)
	}
	if h2.Goal.Kind != habit.GoalRepetitions {
		t.Errorf("Expected repetitions goal, got %q", h2.Goal.Kind)
	}
	// Target reconstructed from the largest recorded value.
	if h2.Goal.Target != 20 {
		t.Errorf("Expected target 20, got %d", h2.Goal.Target)
	}
	if h2.Record("2026-03-09").Value != 5 {
		t.Errorf("Expected value 5 on 2026-03-09, got %d", h2.Record("2026-03-09").Value)
	}
}

// TestCSV_SkipsBadRows tests that rows without an id or stamp are dropped.
func TestCSV_SkipsBadRows(t *testing.T) {
	csv := `HabitID,Title,Goal,Date,Done,Value
,Orphan,simple,2026-03-09,true,0
h_1,Meditate,simple,not-a-date,true,0
h_1,Meditate,simple,2026-03-10,true,0`

	importer := &CSVImporter{}
	habits, err := importer.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("Expected 1 habit, got %d", len(habits))
	}
	if len(habits["h_1"].History) != 1 {
		t.Errorf("Expected 1 record, got %d", len(habits["h_1"].History))
	}
}

// TestCSV_MissingColumns tests header validation.
func TestCSV_MissingColumns(t *testing.T) {
	csv := `Title,Date
Meditate,2026-03-09`

	importer := &CSVImporter{}
	_, err := importer.Parse(strings.NewReader(csv))
	if err == nil {
		t.Fatal("Expected error for missing columns")
	}
	if !strings.Contains(err.Error(), "habitid") {
		t.Errorf("Expected missing column error, got: %v", err)
	}
}

// TestCSV_BOMHeader tests that a UTF-8 BOM on the header is stripped.
func TestCSV_BOMHeader(t *testing.T) {
	csv := "\ufeffHabitID,Title,Goal,Date,Done,Value\nh_1,Meditate,simple,2026-03-09,true,0\n"

	importer := &CSVImporter{}
	habits, err := importer.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(habits) != 1 {
		t.Errorf("Expected 1 habit, got %d", len(habits))
	}
}

// TestCSV_EmptyFile tests the empty-input error.
func TestCSV_EmptyFile(t *testing.T) {
	importer := &CSVImporter{}
	_, err := importer.Parse(strings.NewReader(""))
	if err == nil {
		t.Fatal("Expected error for empty file")
	}
}

// TestPreview tests the preview summary.
func TestPreview(t *testing.T) {
	payload := `{
		"h_1": {
			"id": "h_1",
			"title": "Meditate",
			"repeat": {"kind": "daily"},
			"goal": {"kind": "simple"},
			"history": {"2026-03-09": {"done": true}, "2026-03-10": {"done": true}},
			"created_at": "2026-03-01"
		}
	}`

	importer := &JSONImporter{}
	previews, err := importer.Preview(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("Expected 1 preview, got %d", len(previews))
	}
	p := previews[0]
	if p.Title != "Meditate" || p.Records != 2 || p.Repeat != habit.RepeatDaily {
		t.Errorf("Unexpected preview: %+v", p)
	}
}

// TestGetImporter tests format dispatch.
func TestGetImporter(t *testing.T) {
	if imp := GetImporter("json"); imp == nil || imp.Name() != "json" {
		t.Error("Expected json importer")
	}
	if imp := GetImporter("csv"); imp == nil || imp.Name() != "csv" {
		t.Error("Expected csv importer")
	}
	if GetImporter("todoist") != nil {
		t.Error("Expected nil for unknown format")
	}
	if len(SupportedFormats()) != 2 {
		t.Error("Expected 2 supported formats")
	}
}
