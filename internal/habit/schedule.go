package habit

// IsDue decides whether a habit should appear on a given date.
//
// A completed record always wins: a date that holds a done entry stays
// visible even before the creation date, which keeps backdated imports
// showing. Otherwise the repetition config decides:
//
//   - daily habits are due every day from creation on,
//   - weekday habits are due when the stamp's weekday is listed (from
//     creation on),
//   - interval habits are due on the creation day, then from anchor+N onward
//     until the next logged entry re-anchors them (past due stays shown).
//
// The interval anchor is the most recent history key regardless of whether
// that entry was completed; an explicit skip re-anchors the interval too. A
// backdated entry can pull the anchor, and with it the whole due window,
// before the creation date, so interval habits skip the pre-creation cutoff
// the other kinds apply.
func IsDue(h Habit, stamp string) bool {
	if h.ID == "" || !IsStamp(stamp) {
		return false
	}
	if rec, ok := h.History[stamp]; ok && rec.Done {
		return true
	}

	switch h.Repeat.Kind {
	case RepeatDaily:
		return h.CreatedAt == "" || stamp >= h.CreatedAt

	case RepeatWeekdays:
		if h.CreatedAt != "" && stamp < h.CreatedAt {
			return false
		}
		wd, ok := WeekdayOf(stamp)
		if !ok {
			return false
		}
		for _, d := range h.Repeat.Days {
			if d == wd {
				return true
			}
		}
		return false

	case RepeatInterval:
		if h.Repeat.EveryNDays < 1 {
			return false
		}
		if stamp == h.CreatedAt {
			return true
		}
		due := AddDays(intervalAnchor(h), h.Repeat.EveryNDays)
		return due != "" && stamp >= due
	}

	return false
}

// intervalAnchor returns the reference date the next interval due date is
// computed from: the latest well-formed history key, or the creation date
// when the history is empty.
func intervalAnchor(h Habit) string {
	var anchor string
	for stamp := range h.History {
		if IsStamp(stamp) && stamp > anchor {
			anchor = stamp
		}
	}
	if anchor == "" {
		return h.CreatedAt
	}
	return anchor
}
