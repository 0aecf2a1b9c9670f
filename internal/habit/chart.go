package habit

// Chart is a last-seven-days series for one habit, oldest first. Simple
// habits produce a binary 0/1 series; measured habits the raw stored value
// per day (0 when the day holds no entry).
type Chart struct {
	Days   []string `json:"days"`
	Values []int64  `json:"values"`
}

// ChartData builds the seven-day series ending at (and including) today.
func ChartData(h Habit, today string) Chart {
	days := LastNDays(today, 7)
	values := make([]int64, len(days))
	for i, stamp := range days {
		rec, ok := h.History[stamp]
		if !ok {
			continue
		}
		if h.Goal.Kind == GoalSimple {
			if rec.Done {
				values[i] = 1
			}
			continue
		}
		values[i] = rec.Value
	}
	return Chart{Days: days, Values: values}
}
