package models

import "testing"

func TestHabitDoneOn(t *testing.T) {
	h := Habit{History: map[string]bool{"2024-01-01": true, "2024-01-02": false}}

	if !h.DoneOn("2024-01-01") {
		t.Error("expected done on 2024-01-01")
	}
	if h.DoneOn("2024-01-02") {
		t.Error("explicit false should read as not done")
	}
	if h.DoneOn("2024-01-03") {
		t.Error("missing key should read as not done")
	}
	if got := h.CompletedDays(); got != 1 {
		t.Errorf("CompletedDays() = %d, want 1", got)
	}
}

func TestHabitCloneIsDeep(t *testing.T) {
	h := Habit{ID: "a", History: map[string]bool{"2024-01-01": true}}
	c := h.Clone()
	c.History["2024-01-02"] = true

	if len(h.History) != 1 {
		t.Errorf("mutating clone changed original history: %v", h.History)
	}
}

func TestActiveHabits(t *testing.T) {
	set := []Habit{{ID: "a"}, {ID: "b", Archived: true}, {ID: "c"}}
	active := ActiveHabits(set)
	if len(active) != 2 || active[0].ID != "a" || active[1].ID != "c" {
		t.Errorf("ActiveHabits() = %+v", active)
	}
}
