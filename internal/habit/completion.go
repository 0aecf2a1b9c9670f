package habit

import "fmt"

// Update describes one completion-affecting action for a single date.
//
// Value is the explicit new value (repetition count or milliseconds); when
// nil the previous value is kept, so a plain toggle on a timed habit never
// erases accumulated time. Forced overrides the done flag verbatim and is the
// only path allowed to break the done == (value >= target) rule; it backs the
// manual mark-complete, mark-incomplete and skip actions. TimerActive pins
// the record in place even when it ends up incomplete, because a live timer
// means the day is in progress.
type Update struct {
	Stamp       string
	Value       *int64
	Forced      *bool
	TimerActive bool
}

// ApplyCompletion applies one update to a habit's history and returns the
// updated habit. The input habit is never mutated.
//
// The resolution rules, per goal kind:
//
//   - forced updates use the supplied flag verbatim;
//   - simple habits flip the done flag, and a plain toggle back to not-done
//     deletes the entry entirely so an untouched day and a toggled-off day are
//     indistinguishable in storage (unless a timer is active for the date);
//   - measured habits derive done from value >= target.
func ApplyCompletion(h Habit, u Update) (Habit, error) {
	if !IsStamp(u.Stamp) {
		return h, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", u.Stamp)
	}

	next := h.Clone()
	prev := next.History[u.Stamp]
	rec := prev

	switch {
	case u.Forced != nil:
		rec.Done = *u.Forced
	case h.Goal.Kind == GoalSimple:
		rec.Done = !prev.Done
	case h.Goal.Measured():
		v := prev.Value
		if u.Value != nil {
			v = *u.Value
		}
		rec.Done = v >= h.Goal.Target
	default:
		return h, fmt.Errorf("unknown goal kind %q", h.Goal.Kind)
	}

	if u.Value != nil {
		rec.Value = *u.Value
	}

	if h.Goal.Kind == GoalSimple && !rec.Done && u.Forced == nil && !u.TimerActive {
		delete(next.History, u.Stamp)
		return next, nil
	}

	next.History[u.Stamp] = rec
	return next, nil
}

// ApplyCompletionMulti applies a sequence of single-date updates against one
// snapshot, so reconciling several dates in one pass cannot lose updates.
// On error the original habit is returned unchanged.
func ApplyCompletionMulti(h Habit, updates []Update) (Habit, error) {
	next := h
	for _, u := range updates {
		var err error
		next, err = ApplyCompletion(next, u)
		if err != nil {
			return h, err
		}
	}
	return next, nil
}
