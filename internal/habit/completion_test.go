package habit

import "testing"

func int64p(v int64) *int64 { return &v }
func boolp(v bool) *bool    { return &v }

func simpleHabit() Habit {
	return Habit{
		ID:        "h1",
		Title:     "Floss",
		Repeat:    Repetition{Kind: RepeatDaily},
		Goal:      Goal{Kind: GoalSimple},
		History:   map[string]Record{},
		CreatedAt: "2026-01-01",
	}
}

func repsHabit(goal int64) Habit {
	h := simpleHabit()
	h.Goal = Goal{Kind: GoalRepetitions, Target: goal}
	return h
}

func timedHabit(goalMs int64) Habit {
	h := simpleHabit()
	h.Goal = Goal{Kind: GoalTimed, Target: goalMs}
	return h
}

func TestApplyCompletion_SimpleToggle(t *testing.T) {
	h := simpleHabit()

	h2, err := ApplyCompletion(h, Update{Stamp: "2026-02-01"})
	if err != nil {
		t.Fatalf("ApplyCompletion() error = %v", err)
	}
	if rec := h2.History["2026-02-01"]; !rec.Done {
		t.Error("first toggle should mark the day done")
	}

	// Double toggle returns the habit to no record at all, not done=false.
	h3, err := ApplyCompletion(h2, Update{Stamp: "2026-02-01"})
	if err != nil {
		t.Fatalf("ApplyCompletion() error = %v", err)
	}
	if _, ok := h3.History["2026-02-01"]; ok {
		t.Error("second toggle should delete the entry entirely")
	}
}

func TestApplyCompletion_SimpleToggleOffKeepsEntryWhileTimerActive(t *testing.T) {
	h := simpleHabit()
	h.History["2026-02-01"] = Record{Done: true}

	h2, err := ApplyCompletion(h, Update{Stamp: "2026-02-01", TimerActive: true})
	if err != nil {
		t.Fatalf("ApplyCompletion() error = %v", err)
	}
	rec, ok := h2.History["2026-02-01"]
	if !ok {
		t.Fatal("entry should survive while a timer is active")
	}
	if rec.Done {
		t.Error("toggle should still flip done to false")
	}
}

func TestApplyCompletion_GoalInvariant(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		wantDone bool
	}{
		{"below goal", 3, false},
		{"at goal", 5, true},
		{"above goal", 7, true},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ApplyCompletion(repsHabit(5), Update{Stamp: "2026-02-01", Value: int64p(tt.value)})
			if err != nil {
				t.Fatalf("ApplyCompletion() error = %v", err)
			}
			rec := h.History["2026-02-01"]
			if rec.Value != tt.value {
				t.Errorf("value = %d, want %d", rec.Value, tt.value)
			}
			if rec.Done != tt.wantDone {
				t.Errorf("done = %v, want %v", rec.Done, tt.wantDone)
			}
		})
	}
}

func TestApplyCompletion_MeasuredEntryPersistsAtZero(t *testing.T) {
	h := repsHabit(5)
	h.History["2026-02-01"] = Record{Done: false, Value: 3}

	h2, err := ApplyCompletion(h, Update{Stamp: "2026-02-01", Value: int64p(0)})
	if err != nil {
		t.Fatalf("ApplyCompletion() error = %v", err)
	}
	rec, ok := h2.History["2026-02-01"]
	if !ok {
		t.Fatal("measured entries persist even when the value drops to 0")
	}
	if rec.Done || rec.Value != 0 {
		t.Errorf("record = %+v, want done=false value=0", rec)
	}
}

func TestApplyCompletion_ToggleWithoutValueKeepsAccumulatedTime(t *testing.T) {
	h := timedHabit(5000)
	h.History["2026-02-01"] = Record{Done: false, Value: 2000}

	h2, err := ApplyCompletion(h, Update{Stamp: "2026-02-01", Forced: boolp(true)})
	if err != nil {
		t.Fatalf("ApplyCompletion() error = %v", err)
	}
	rec := h2.History["2026-02-01"]
	if rec.Value != 2000 {
		t.Errorf("value = %d, want accumulated 2000 preserved", rec.Value)
	}
	if !rec.Done {
		t.Error("forced complete should set done")
	}
}

func TestApplyCompletion_ForcedSkipBreaksInvariant(t *testing.T) {
	// Skip: value drops to 0 and done stays false even though the record is
	// stored. Forced is the one path allowed to bypass the goal comparison.
	h := repsHabit(3)
	h.History["2026-02-01"] = Record{Done: true, Value: 3}

	h2, err := ApplyCompletion(h, Update{Stamp: "2026-02-01", Value: int64p(0), Forced: boolp(false)})
	if err != nil {
		t.Fatalf("ApplyCompletion() error = %v", err)
	}
	rec, ok := h2.History["2026-02-01"]
	if !ok {
		t.Fatal("a forced skip keeps the entry")
	}
	if rec.Done || rec.Value != 0 {
		t.Errorf("record = %+v, want done=false value=0", rec)
	}
}

func TestApplyCompletion_DoesNotMutateInput(t *testing.T) {
	h := repsHabit(5)
	h.History["2026-02-01"] = Record{Value: 1}

	if _, err := ApplyCompletion(h, Update{Stamp: "2026-02-01", Value: int64p(5)}); err != nil {
		t.Fatalf("ApplyCompletion() error = %v", err)
	}
	if rec := h.History["2026-02-01"]; rec.Value != 1 || rec.Done {
		t.Errorf("input habit mutated: %+v", rec)
	}
}

func TestApplyCompletion_InvalidStamp(t *testing.T) {
	if _, err := ApplyCompletion(simpleHabit(), Update{Stamp: "02/01/2026"}); err == nil {
		t.Fatal("expected error for malformed stamp")
	}
}

func TestApplyCompletionMulti(t *testing.T) {
	h := repsHabit(2)

	updates := []Update{
		{Stamp: "2026-02-01", Value: int64p(2)},
		{Stamp: "2026-02-02", Value: int64p(1)},
		{Stamp: "2026-02-01", Value: int64p(3)}, // later update wins
	}
	h2, err := ApplyCompletionMulti(h, updates)
	if err != nil {
		t.Fatalf("ApplyCompletionMulti() error = %v", err)
	}

	if rec := h2.History["2026-02-01"]; rec.Value != 3 || !rec.Done {
		t.Errorf("2026-02-01 = %+v, want done=true value=3", rec)
	}
	if rec := h2.History["2026-02-02"]; rec.Value != 1 || rec.Done {
		t.Errorf("2026-02-02 = %+v, want done=false value=1", rec)
	}
}

func TestApplyCompletionMulti_ErrorLeavesHabitUntouched(t *testing.T) {
	h := repsHabit(2)

	_, err := ApplyCompletionMulti(h, []Update{
		{Stamp: "2026-02-01", Value: int64p(2)},
		{Stamp: "bogus"},
	})
	if err == nil {
		t.Fatal("expected error for malformed stamp in batch")
	}
	if len(h.History) != 0 {
		t.Error("failed batch should not leak partial updates")
	}
}
