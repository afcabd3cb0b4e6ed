package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.syncWeek()
		var next tea.Model
		var cmd tea.Cmd
		switch m.mode {
		case modeAdd, modeRename:
			next, cmd = m.updateInput(msg)
		case modeConfirmDelete:
			next = m.updateConfirmDelete(msg)
		default:
			next, cmd = m.updateBrowse(msg)
		}
		nm := next.(Model)
		nm.updateValidationStatus()
		return nm, cmd
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % numViews
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + numViews) % numViews

	case key.Matches(msg, m.keys.MoveUp):
		m.move(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.move(1)
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Left):
		m.step(-1)
	case key.Matches(msg, m.keys.Right):
		m.step(1)

	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Rename):
		h, ok := m.selected()
		if !ok {
			break
		}
		m.mode = modeRename
		m.input.SetValue(h.Name)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Archive):
		if h, ok := m.selected(); ok {
			if err := m.store.Archive(h.ID); err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Archived %s", h.Name))
			}
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if m.mode == modeAdd {
			h, err := m.store.Create(name)
			if err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Added %s", h.Name))
				m.cursor = len(m.active()) - 1
			}
		} else if h, ok := m.selected(); ok {
			if err := m.store.Rename(h.ID, name); err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Renamed to %s", name))
			}
		}
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if h, ok := m.selected(); ok {
			if err := m.store.Delete(h.ID); err != nil {
				m.setError(err)
			} else {
				m.setStatus(fmt.Sprintf("Deleted %s", h.Name))
			}
		}
		m.clampCursor()
		m.mode = modeBrowse
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
	}
	return m
}

func (m *Model) toggle() {
	h, ok := m.selected()
	if !ok {
		return
	}
	day := m.selectedDay()
	if err := m.store.ToggleOn(h.ID, day); err != nil {
		m.setError(err)
		return
	}
	m.status = ""
}

// move shifts the selected habit one place and persists the new sequence.
func (m *Model) move(delta int) {
	list := m.active()
	from := m.cursor
	to := from + delta
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return
	}

	ids := make([]string, len(list))
	for i, h := range list {
		ids[i] = h.ID
	}
	ids[from], ids[to] = ids[to], ids[from]

	if err := m.store.ReorderByDrag(ids); err != nil {
		m.setError(err)
	}
	m.cursor = to
}

// step moves the day column in the week view or the month in the month view.
// Days after today and months after the current one are out of reach.
func (m *Model) step(delta int) {
	switch m.state {
	case StateWeek:
		next := m.dayIndex + delta
		if next >= 0 && next <= m.todayColumn() {
			m.dayIndex = next
		}
	case StateMonth:
		if next := m.monthOff - delta; next >= 0 {
			m.monthOff = next
		}
	}
}
