package models

// Habit represents a recurring practice to track
type Habit struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	History  map[string]bool `json:"history" yaml:"history"` // YYYY-MM-DD -> done
	Archived bool            `json:"archived" yaml:"archived"`
	Order    int             `json:"order" yaml:"order"`
}

// DoneOn reports whether the habit was completed on the given day key.
// Missing keys and explicit false values both read as not completed.
func (h Habit) DoneOn(day string) bool {
	return h.History[day]
}

// Active reports whether the habit counts toward analytics.
func (h Habit) Active() bool {
	return !h.Archived
}

// CompletedDays returns the number of days recorded as done.
func (h Habit) CompletedDays() int {
	n := 0
	for _, done := range h.History {
		if done {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers can't reach the owner's history map.
func (h Habit) Clone() Habit {
	c := h
	c.History = make(map[string]bool, len(h.History))
	for day, done := range h.History {
		c.History[day] = done
	}
	return c
}

// ActiveHabits filters out archived habits, preserving order.
func ActiveHabits(habits []Habit) []Habit {
	var active []Habit
	for _, h := range habits {
		if h.Active() {
			active = append(active, h)
		}
	}
	return active
}
