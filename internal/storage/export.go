package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ExportHabitsJSON exports the habit map in its native on-disk shape.
func (s *Storage) ExportHabitsJSON() ([]byte, error) {
	habits, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(habits, "", "  ")
}

// ExportHistoryCSV exports the full history as one row per habit per date,
// ordered by habit title then date so diffs are stable.
func (s *Storage) ExportHistoryCSV() (string, error) {
	habits, err := s.LoadAll()
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(habits))
	for id := range habits {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := habits[ids[i]], habits[ids[j]]
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	var b strings.Builder
	b.WriteString("HabitID,Title,Goal,Date,Done,Value\n")
	for _, id := range ids {
		h := habits[id]
		dates := make([]string, 0, len(h.History))
		for date := range h.History {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		for _, date := range dates {
			rec := h.History[date]
			b.WriteString(fmt.Sprintf("%s,%s,%s,%s,%t,%d\n",
				h.ID,
				csvEscape(h.Title),
				h.Goal.Kind,
				date,
				rec.Done,
				rec.Value,
			))
		}
	}
	return b.String(), nil
}

// csvEscape wraps a field in quotes when it contains separators or quotes.
func csvEscape(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
	}
	return field
}
