package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

// SessionState is the view shown in the tab bar.
type SessionState int

const (
	StateToday SessionState = iota
	StateWeek
	StateMonth
	numViews
)

var viewTitles = []string{"Today", "Week", "Month"}

// inputMode says what the keyboard is currently driving.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeRename
	modeConfirmDelete
)

// Model is the bubbletea model. It reads snapshots from the store and sends
// every change through the store's mutation API.
type Model struct {
	store    *habits.Store
	settings models.Settings

	state    SessionState
	mode     inputMode
	keys     KeyMap
	help     help.Model
	input    textinput.Model
	cursor   int    // index into the active list
	dayIndex int    // selected column in the week view
	weekOf   string // first day of the week dayIndex refers to
	monthOff int    // months back from the current one in the month view

	status            string
	statusErr         bool
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(store *habits.Store, settings models.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = settings.DefaultHabitName
	ti.CharLimit = 80

	m := Model{
		store:    store,
		settings: settings,
		state:    StateToday,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    ti,
	}
	m.syncWeek()
	m.updateValidationStatus()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	switch m.mode {
	case modeConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case modeAdd, modeRename:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	if m.mode != modeBrowse {
		return [][]key.Binding{m.ShortHelp()}
	}
	return m.keys.FullHelp()
}

func (m Model) now() time.Time {
	return m.store.Now()
}

func (m Model) active() []models.Habit {
	return m.store.List(false)
}

// selected returns the habit under the cursor.
func (m Model) selected() (models.Habit, bool) {
	list := m.active()
	if m.cursor < 0 || m.cursor >= len(list) {
		return models.Habit{}, false
	}
	return list[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.active())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// todayColumn is today's column in the week grid.
func (m Model) todayColumn() int {
	start := utils.StartOfWeek(m.now(), m.settings.WeekStart)
	today := utils.DayKey(m.now())
	for i := 0; i < 7; i++ {
		if utils.DayKey(utils.StepDay(start, i)) == today {
			return i
		}
	}
	return 0
}

// syncWeek keeps the week column valid as the clock moves: a new week
// selects today again, and the column never points past today.
func (m *Model) syncWeek() {
	start := utils.DayKey(utils.StartOfWeek(m.now(), m.settings.WeekStart))
	if start != m.weekOf {
		m.weekOf = start
		m.dayIndex = m.todayColumn()
		return
	}
	if today := m.todayColumn(); m.dayIndex > today {
		m.dayIndex = today
	}
}

// selectedDay is the day key the toggle key acts on in the current view.
func (m Model) selectedDay() string {
	if m.state == StateWeek {
		start := utils.StartOfWeek(m.now(), m.settings.WeekStart)
		return utils.DayKey(utils.StepDay(start, m.dayIndex))
	}
	return m.store.Today()
}

// monthRef is the reference day for the month view: now for the current
// month, the last day of the month for earlier ones.
func (m Model) monthRef() time.Time {
	now := m.now()
	if m.monthOff == 0 {
		return now
	}
	first := utils.StartOfMonth(now)
	target := time.Date(first.Year(), first.Month()-time.Month(m.monthOff), 1, 12, 0, 0, 0, time.Local)
	return utils.StepDay(target, utils.DaysInMonth(target)-1)
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// updateValidationStatus summarizes problems in the habit set for the tab bar.
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateHabits(m.store.Snapshot(), m.store.Today())
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
