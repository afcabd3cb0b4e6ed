package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/models"
)

const today = "2024-05-08"

func conflictTypes(r ValidationResult) map[ConflictType]int {
	out := make(map[ConflictType]int)
	for _, c := range r.Conflicts {
		out[c.Type]++
	}
	return out
}

func TestValidateHabits_Clean(t *testing.T) {
	habits := []models.Habit{
		{ID: "a", Name: "Exercise", Order: 0, History: map[string]bool{"2024-05-08": true}},
		{ID: "b", Name: "Read", Order: 1},
		{ID: "c", Name: "Exercise", Order: 0, Archived: true},
	}

	result := New().ValidateHabits(habits, today)
	if result.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No conflicts found." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidateHabits_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		habits   []models.Habit
		want     ConflictType
		blocking bool
	}{
		{
			name:     "missing id",
			habits:   []models.Habit{{Name: "x"}},
			want:     ConflictMissingID,
			blocking: true,
		},
		{
			name:     "duplicate id",
			habits:   []models.Habit{{ID: "a", Order: 0}, {ID: "a", Order: 1}},
			want:     ConflictDuplicateHabitID,
			blocking: true,
		},
		{
			name:     "malformed day key",
			habits:   []models.Habit{{ID: "a", History: map[string]bool{"May 8": true}}},
			want:     ConflictInvalidDayKey,
			blocking: true,
		},
		{
			name:   "future entry",
			habits: []models.Habit{{ID: "a", History: map[string]bool{"2024-05-09": true}}},
			want:   ConflictFutureEntry,
		},
		{
			name:   "duplicate order",
			habits: []models.Habit{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
			want:   ConflictDuplicateOrder,
		},
		{
			name:   "duplicate name",
			habits: []models.Habit{{ID: "a", Name: "Read", Order: 0}, {ID: "b", Name: " read ", Order: 1}},
			want:   ConflictDuplicateHabitName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateHabits(tt.habits, today)
			if conflictTypes(result)[tt.want] != 1 {
				t.Fatalf("expected one %s conflict, got %+v", tt.want, result.Conflicts)
			}
			if got := len(result.Blocking()) > 0; got != tt.blocking {
				t.Errorf("blocking = %v, want %v", got, tt.blocking)
			}
			if !strings.Contains(result.FormatReport(), string(tt.want)) {
				t.Errorf("report missing %s:\n%s", tt.want, result.FormatReport())
			}
		})
	}
}

func TestValidateHabits_FalseFutureEntryIgnored(t *testing.T) {
	habits := []models.Habit{{ID: "a", History: map[string]bool{"2024-05-09": false}}}
	if result := New().ValidateHabits(habits, today); result.HasConflicts() {
		t.Errorf("an explicit false entry is not a completion: %+v", result.Conflicts)
	}
}
