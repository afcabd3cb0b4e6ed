// Package validation checks a habit set for inconsistencies the store
// tolerates but a user should hear about.
package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

type ConflictType string

const (
	ConflictMissingID          ConflictType = "missing_id"
	ConflictDuplicateHabitID   ConflictType = "duplicate_habit_id"
	ConflictInvalidDayKey      ConflictType = "invalid_day_key"
	ConflictFutureEntry        ConflictType = "future_entry"
	ConflictDuplicateOrder     ConflictType = "duplicate_order"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
)

// Conflict is one problem found in a habit set.
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
	Day         string
}

// Blocking reports whether the conflict means the stored data is damaged,
// as opposed to merely unusual.
func (c Conflict) Blocking() bool {
	switch c.Type {
	case ConflictMissingID, ConflictDuplicateHabitID, ConflictInvalidDayKey:
		return true
	}
	return false
}

type ValidationResult struct {
	Conflicts []Conflict
}

func (r ValidationResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Blocking returns only the conflicts that indicate damaged data.
func (r ValidationResult) Blocking() []Conflict {
	var out []Conflict
	for _, c := range r.Conflicts {
		if c.Blocking() {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport renders conflicts one per line.
func (r ValidationResult) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d conflict(s):\n", len(r.Conflicts))
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "  - [%s] %s\n", c.Type, c.Description)
	}
	return b.String()
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks ids, history keys and active ranks. today is the
// current day key; history entries after it are reported.
func (v *Validator) ValidateHabits(habits []models.Habit, today string) ValidationResult {
	var result ValidationResult

	ids := make(map[string]bool, len(habits))
	names := make(map[string]string, len(habits))
	orders := make(map[int]string, len(habits))

	for _, h := range habits {
		if h.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingID,
				Description: fmt.Sprintf("habit %q has no id", h.Name),
			})
		} else if ids[h.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitID,
				Description: fmt.Sprintf("duplicate habit ID found: %s", h.ID),
				HabitIDs:    []string{h.ID},
			})
		}
		ids[h.ID] = true

		for day, done := range h.History {
			switch {
			case !utils.IsDayKey(day):
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDayKey,
					Description: fmt.Sprintf("habit %s has a malformed history key %q", h.ID, day),
					HabitIDs:    []string{h.ID},
					Day:         day,
				})
			case done && day > today:
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictFutureEntry,
					Description: fmt.Sprintf("habit %s is marked done on future day %s", h.ID, day),
					HabitIDs:    []string{h.ID},
					Day:         day,
				})
			}
		}

		if h.Archived {
			continue
		}
		if other, ok := orders[h.Order]; ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateOrder,
				Description: fmt.Sprintf("habits %s and %s share position %d", other, h.ID, h.Order),
				HabitIDs:    []string{other, h.ID},
			})
		} else {
			orders[h.Order] = h.ID
		}

		key := strings.ToLower(strings.TrimSpace(h.Name))
		if other, ok := names[key]; ok && key != "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("active habits %s and %s are both named %q", other, h.ID, h.Name),
				HabitIDs:    []string{other, h.ID},
			})
		} else {
			names[key] = h.ID
		}
	}

	return result
}
