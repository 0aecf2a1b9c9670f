package habit

import "time"

// StampLayout is the calendar-day stamp format used throughout.
// Stamps identify a local calendar day, independent of time-of-day, and
// compare correctly as plain strings.
const StampLayout = "2006-01-02"

// IsStamp reports whether s is a well-formed YYYY-MM-DD day stamp.
func IsStamp(s string) bool {
	if len(s) != len(StampLayout) {
		return false
	}
	_, err := time.Parse(StampLayout, s)
	return err == nil
}

// Stamp formats a point in time as the calendar-day stamp of its location.
func Stamp(t time.Time) string {
	return t.Format(StampLayout)
}

// AddDays returns the stamp n days after (or before, for negative n) the
// given stamp. Returns "" for a malformed stamp.
func AddDays(stamp string, n int) string {
	t, err := time.Parse(StampLayout, stamp)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(StampLayout)
}

// WeekdayOf returns the weekday of a stamp as 0=Sunday .. 6=Saturday,
// matching the Repetition.Days encoding. ok is false for malformed stamps.
func WeekdayOf(stamp string) (day int, ok bool) {
	t, err := time.Parse(StampLayout, stamp)
	if err != nil {
		return 0, false
	}
	return int(t.Weekday()), true
}

// DaysBetween returns the number of calendar days from a to b (negative when
// b precedes a). Both stamps must be well-formed; malformed input yields 0.
func DaysBetween(a, b string) int {
	ta, errA := time.Parse(StampLayout, a)
	tb, errB := time.Parse(StampLayout, b)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// LastNDays returns the n stamps ending at (and including) the given stamp,
// oldest first.
func LastNDays(stamp string, n int) []string {
	days := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, AddDays(stamp, -i))
	}
	return days
}
