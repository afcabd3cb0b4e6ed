package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/models"
)

// 2024-05-08 is a Wednesday.
var now = time.Date(2024, 5, 8, 9, 30, 0, 0, time.Local)

func newTestModel(t *testing.T, names ...string) (Model, *habits.Store) {
	t.Helper()
	n := 0
	store := habits.New(nil, nil,
		habits.WithClock(func() time.Time { return now }),
		habits.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("h%d", n)
		}),
	)
	for _, name := range names {
		if _, err := store.Create(name); err != nil {
			t.Fatalf("Create(%q) failed: %v", name, err)
		}
	}
	settings := models.Settings{WeekStart: time.Monday, DefaultHabitName: "New Habit"}
	return NewModel(store, settings), store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func activeNames(s *habits.Store) []string {
	var out []string
	for _, h := range s.List(false) {
		out = append(out, h.Name)
	}
	return out
}

func TestToggleTodayWithSpace(t *testing.T) {
	m, store := newTestModel(t, "Exercise", "Read")

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	h, _ := store.Get("h2")
	if !h.DoneOn("2024-05-08") {
		t.Errorf("expected Read to be done today, history = %v", h.History)
	}
	if h1, _ := store.Get("h1"); h1.DoneOn("2024-05-08") {
		t.Error("Exercise should not have been toggled")
	}
	if m.statusErr {
		t.Errorf("unexpected error status %q", m.status)
	}
}

func TestAddHabit(t *testing.T) {
	m, store := newTestModel(t, "Exercise")

	m = send(m, runes("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want modeAdd", m.mode)
	}
	m = send(m, runes("Read"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want modeBrowse after enter", m.mode)
	}
	if got := activeNames(store); strings.Join(got, ",") != "Exercise,Read" {
		t.Errorf("active = %v", got)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want the new habit selected", m.cursor)
	}
}

func TestAddCancelledWithEsc(t *testing.T) {
	m, store := newTestModel(t)

	m = send(m, runes("a"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})

	if store.Len() != 0 {
		t.Errorf("esc should not create a habit, have %d", store.Len())
	}
	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want modeBrowse", m.mode)
	}
}

func TestRenameHabit(t *testing.T) {
	m, store := newTestModel(t, "Exercise")

	m = send(m, runes("r"))
	if m.input.Value() != "Exercise" {
		t.Fatalf("rename input = %q, want current name", m.input.Value())
	}
	m.input.SetValue("Run")
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if h, _ := store.Get("h1"); h.Name != "Run" {
		t.Errorf("name = %q, want Run", h.Name)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, store := newTestModel(t, "Exercise", "Read")

	m = send(m, runes("d"), runes("n"))
	if store.Len() != 2 {
		t.Fatalf("cancelled delete removed a habit")
	}

	m = send(m, runes("d"), runes("y"))
	if got := activeNames(store); len(got) != 1 || got[0] != "Read" {
		t.Errorf("active after delete = %v", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestArchiveHidesHabit(t *testing.T) {
	m, store := newTestModel(t, "Exercise", "Read")

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, runes("x"))

	if got := activeNames(store); len(got) != 1 || got[0] != "Exercise" {
		t.Errorf("active after archive = %v", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor should clamp to the remaining habit, got %d", m.cursor)
	}
}

func TestMoveKeysReorder(t *testing.T) {
	m, store := newTestModel(t, "A", "B", "C")

	m = send(m, runes("J"), runes("J"))
	if got := strings.Join(activeNames(store), ","); got != "B,C,A" {
		t.Errorf("after moving A down twice = %s, want B,C,A", got)
	}
	if m.cursor != 2 {
		t.Errorf("cursor should follow the moved habit, got %d", m.cursor)
	}

	// Moving past the end is ignored.
	m = send(m, runes("J"))
	if got := strings.Join(activeNames(store), ","); got != "B,C,A" {
		t.Errorf("move past end changed order: %s", got)
	}

	send(m, runes("K"))
	if got := strings.Join(activeNames(store), ","); got != "B,A,C" {
		t.Errorf("after moving A up = %s, want B,A,C", got)
	}
}

func TestWeekViewTogglesSelectedDay(t *testing.T) {
	m, store := newTestModel(t, "Exercise")

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateWeek {
		t.Fatalf("state = %v, want StateWeek", m.state)
	}
	// Wednesday is column 2 with a Monday start; it can't move past today.
	if m.dayIndex != 2 {
		t.Fatalf("dayIndex = %d, want 2", m.dayIndex)
	}
	m = send(m, runes("l"))
	if m.dayIndex != 2 {
		t.Errorf("dayIndex moved into the future: %d", m.dayIndex)
	}

	m = send(m, runes("h"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	h, _ := store.Get("h1")
	if !h.DoneOn("2024-05-07") || h.DoneOn("2024-05-08") {
		t.Errorf("expected only 2024-05-07 done, history = %v", h.History)
	}
}

func TestWeekColumnFollowsClockIntoNewWeek(t *testing.T) {
	clock := now
	store := habits.New(nil, nil,
		habits.WithClock(func() time.Time { return clock }),
		habits.WithIDGenerator(func() string { return "h1" }),
	)
	if _, err := store.Create("Exercise"); err != nil {
		t.Fatal(err)
	}
	m := NewModel(store, models.Settings{WeekStart: time.Monday})

	m = send(m, tea.KeyMsg{Type: tea.KeyTab}, runes("h"), runes("h"))
	if m.dayIndex != 0 {
		t.Fatalf("dayIndex = %d, want 0", m.dayIndex)
	}

	// The session runs into Tuesday of the following week.
	clock = time.Date(2024, 5, 14, 8, 0, 0, 0, time.Local)
	m = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	h, _ := store.Get("h1")
	if !h.DoneOn("2024-05-14") || h.DoneOn("2024-05-13") {
		t.Errorf("toggle should land on the new today, history = %v", h.History)
	}
	if m.dayIndex != 1 {
		t.Errorf("dayIndex = %d, want 1", m.dayIndex)
	}
}

func TestTabCyclesViews(t *testing.T) {
	m, _ := newTestModel(t)

	for _, want := range []SessionState{StateWeek, StateMonth, StateToday} {
		m = send(m, tea.KeyMsg{Type: tea.KeyTab})
		if m.state != want {
			t.Errorf("state = %v, want %v", m.state, want)
		}
	}
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateMonth {
		t.Errorf("shift+tab state = %v, want StateMonth", m.state)
	}
}

func TestMonthNavigation(t *testing.T) {
	m, _ := newTestModel(t)
	m.state = StateMonth

	m = send(m, runes("l"))
	if m.monthOff != 0 {
		t.Errorf("month view moved into the future: offset %d", m.monthOff)
	}
	m = send(m, runes("h"))
	ref := m.monthRef()
	if ref.Month() != time.April || ref.Day() != 30 {
		t.Errorf("monthRef = %v, want 2024-04-30", ref)
	}
}

type failingSaver struct{}

func (failingSaver) SaveHabits([]models.Habit) error {
	return fmt.Errorf("disk full")
}

func TestSaveErrorShownInStatus(t *testing.T) {
	store := habits.New([]models.Habit{{ID: "h1", Name: "Exercise"}}, failingSaver{},
		habits.WithClock(func() time.Time { return now }))
	m := NewModel(store, models.Settings{WeekStart: time.Monday})

	m = send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if !m.statusErr || !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q (err=%v), want the save error", m.status, m.statusErr)
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Error("view should render the save error")
	}
}

func TestViewsRender(t *testing.T) {
	m, store := newTestModel(t, "Exercise", "Read")
	if err := store.Toggle("h1"); err != nil {
		t.Fatal(err)
	}

	if v := m.View(); !strings.Contains(v, "Exercise") || !strings.Contains(v, "50%") {
		t.Errorf("today view missing content:\n%s", v)
	}
	m.state = StateWeek
	if v := m.View(); !strings.Contains(v, "Week of 2024-05-06") {
		t.Errorf("week view missing header:\n%s", v)
	}
	m.state = StateMonth
	if v := m.View(); !strings.Contains(v, "May 2024") {
		t.Errorf("month view missing header:\n%s", v)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if v := next.(Model).View(); v != "" {
		t.Errorf("view after quit = %q, want empty", v)
	}
}

func TestValidationWarningInTabBar(t *testing.T) {
	store := habits.New([]models.Habit{
		{ID: "a", Name: "Read", Order: 0},
		{ID: "b", Name: "Read", Order: 1},
	}, nil, habits.WithClock(func() time.Time { return now }))
	m := NewModel(store, models.Settings{WeekStart: time.Monday})

	if m.validationWarning == "" || !strings.Contains(m.View(), "1 validation warning") {
		t.Errorf("expected a duplicate-name warning, got %q", m.validationWarning)
	}

	m.input.SetValue("Books")
	m.mode = modeRename
	m.cursor = 1
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.validationWarning != "" {
		t.Errorf("warning should clear after the rename, got %q", m.validationWarning)
	}
}
