package notify

import (
	"sync"
	"time"
)

// Reminders schedules one-shot goal-reached notifications for running
// timers, keyed by timer session id. Scheduling an id that already has a
// pending reminder replaces it.
type Reminders struct {
	mu       sync.Mutex
	notifier Notifier
	sound    bool
	pending  map[string]*time.Timer
}

// NewReminders creates a reminder scheduler over a notifier.
func NewReminders(notifier Notifier, sound bool) *Reminders {
	return &Reminders{
		notifier: notifier,
		sound:    sound,
		pending:  make(map[string]*time.Timer),
	}
}

// Schedule arms a reminder for a timer session. Instants in the past fire
// immediately, which covers timers whose goal was crossed while the process
// was down.
func (r *Reminders) Schedule(id, title string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.pending[id]; ok {
		existing.Stop()
	}
	r.pending[id] = time.AfterFunc(time.Until(at), func() {
		r.fire(id, title)
	})
	return nil
}

// Cancel disarms a pending reminder. Unknown ids are a no-op.
func (r *Reminders) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.pending[id]; ok {
		t.Stop()
		delete(r.pending, id)
	}
	return nil
}

// CancelAll disarms every pending reminder.
func (r *Reminders) CancelAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.pending {
		t.Stop()
		delete(r.pending, id)
	}
	return nil
}

// Pending returns the number of armed reminders.
func (r *Reminders) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Reminders) fire(id, title string) {
	r.mu.Lock()
	delete(r.pending, id)
	sound := r.sound
	r.mu.Unlock()

	message := "Time goal reached"
	if sound {
		_ = r.notifier.SendWithSound(title, message)
		return
	}
	_ = r.notifier.Send(title, message)
}
