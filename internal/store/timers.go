package store

import (
	"time"

	"cadence/internal/habit"
)

// ActivateTimer starts a timer session for a timed habit on a date and
// returns the session start instant. Starting an already-running timer is a
// no-op that returns the existing session's start.
func (s *Store) ActivateTimer(id, stamp string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[id]
	if !ok {
		return time.Time{}, s.fail("unknown habit %q", id)
	}
	if h.Goal.Kind != habit.GoalTimed {
		return time.Time{}, s.fail("habit %q has no timed goal", h.Title)
	}
	if !habit.IsStamp(stamp) {
		return time.Time{}, s.fail("invalid date %q: expected YYYY-MM-DD", stamp)
	}
	if existing, ok := s.timers[id][stamp]; ok {
		return existing.LastResumedAt, nil
	}

	now := s.clock.Now()
	timer := habit.NewTimer(now)
	if s.timers[id] == nil {
		s.timers[id] = make(map[string]habit.ActiveTimer)
	}
	s.timers[id][stamp] = timer

	if at, ok := habit.ReminderAt(h.Goal, h.Record(stamp), now); ok {
		s.scheduleReminder(timer.ID, h.Title, at)
	}
	s.lastErr = ""
	s.persistTimers()
	return now, nil
}

// RemoveTimer stops a running timer session: the elapsed time is folded into
// the habit's record for the date first, then the timer entry and its
// reminder are removed.
func (s *Store) RemoveTimer(id, stamp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[id][stamp]
	if !ok {
		return s.fail("no active timer for habit %q on %s", id, stamp)
	}
	h, ok := s.habits[id]
	if !ok {
		// Habit vanished under the timer; drop the orphaned session.
		s.cancelReminder(timer.ID)
		s.dropTimerLocked(id, stamp)
		s.persistTimers()
		return nil
	}

	value := habit.FoldValue(h.Record(stamp).Value, timer.Elapsed(s.clock.Now()))
	next, err := habit.ApplyCompletion(h, habit.Update{
		Stamp:       stamp,
		Value:       &value,
		TimerActive: true,
	})
	if err != nil {
		return s.fail("%v", err)
	}
	s.habits[id] = next

	s.cancelReminder(timer.ID)
	s.dropTimerLocked(id, stamp)
	s.lastErr = ""
	s.persistOne(next)
	s.persistTimers()
	return nil
}

// ReconcileActiveTimers credits every running timer with the time elapsed
// since its last resume and advances the resume instant to now. Timers stay
// active, including past their goal; runs at launch and on foreground resume
// so background and downtime are never lost.
func (s *Store) ReconcileActiveTimers(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dirty := false
	for id, dates := range s.timers {
		h, ok := s.habits[id]
		if !ok {
			for _, timer := range dates {
				s.cancelReminder(timer.ID)
			}
			delete(s.timers, id)
			dirty = true
			continue
		}

		var updates []habit.Update
		for stamp, timer := range dates {
			value := habit.FoldValue(h.Record(stamp).Value, timer.Elapsed(now))
			v := value
			updates = append(updates, habit.Update{
				Stamp:       stamp,
				Value:       &v,
				TimerActive: true,
			})
			timer.LastResumedAt = now
			dates[stamp] = timer
			dirty = true
		}
		if len(updates) == 0 {
			continue
		}
		next, err := habit.ApplyCompletionMulti(h, updates)
		if err != nil {
			s.logf("reconcile habit %s: %v", id, err)
			continue
		}
		s.habits[id] = next
		s.persistOne(next)
	}
	if dirty {
		s.persistTimers()
	}
}

// TickForeground records a foreground clock tick. Running timers are not
// persisted on tick; their display value is derived live and reconciliation
// makes the stored value catch up.
func (s *Store) TickForeground(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick = now
}

// LastTick returns the most recent foreground tick instant.
func (s *Store) LastTick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// TimerActive reports whether a timer session is running for a habit/date.
func (s *Store) TimerActive(id, stamp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timerActiveLocked(id, stamp)
}

// ActiveTimers returns a copy of the running-timer map.
func (s *Store) ActiveTimers() map[string]map[string]habit.ActiveTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]habit.ActiveTimer, len(s.timers))
	for id, dates := range s.timers {
		inner := make(map[string]habit.ActiveTimer, len(dates))
		for stamp, timer := range dates {
			inner[stamp] = timer
		}
		out[id] = inner
	}
	return out
}

// DisplayedValue returns the value to show for a habit/date: the stored
// record value, plus the live elapsed time of a running timer session.
func (s *Store) DisplayedValue(id, stamp string, now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[id]
	if !ok {
		return 0
	}
	stored := h.Record(stamp).Value
	if timer, ok := s.timers[id][stamp]; ok {
		return habit.FoldValue(stored, timer.Elapsed(now))
	}
	return stored
}

func (s *Store) timerActiveLocked(id, stamp string) bool {
	_, ok := s.timers[id][stamp]
	return ok
}

func (s *Store) dropTimerLocked(id, stamp string) {
	delete(s.timers[id], stamp)
	if len(s.timers[id]) == 0 {
		delete(s.timers, id)
	}
}
