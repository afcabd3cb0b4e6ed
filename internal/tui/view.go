package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = m.viewToday()
	case StateWeek:
		content = m.viewWeek()
	case StateMonth:
		content = m.viewMonth()
	}

	parts := []string{m.viewTabs(), docStyle.Render(content)}
	if bar := m.viewPrompt(); bar != "" {
		parts = append(parts, bar)
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range viewTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	if m.validationWarning != "" {
		tabs = append(tabs, errorStyle.Padding(0, 1).Render(m.validationWarning))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewPrompt() string {
	switch m.mode {
	case modeAdd:
		return "New habit: " + m.input.View()
	case modeRename:
		return "Rename: " + m.input.View()
	case modeConfirmDelete:
		h, _ := m.selected()
		return dangerStyle.Render(fmt.Sprintf("Delete %q and its history? [y/n]", h.Name))
	}
	return ""
}

func (m Model) viewToday() string {
	sum := analytics.Summarize(m.active(), m.now())

	var b strings.Builder
	b.WriteString(titleStyle.Render(sum.Day))
	b.WriteString("\n\n")
	if len(sum.Habits) == 0 {
		b.WriteString(dimStyle.Render("No habits yet. Press a to add one."))
		return b.String()
	}

	for i, row := range sum.Habits {
		mark := dimStyle.Render("○")
		if row.Done {
			mark = doneStyle.Render("✓")
		}
		name := row.Habit.Name
		if i == m.cursor {
			name = selectedStyle.Render("> " + name)
		} else {
			name = "  " + name
		}
		streak := ""
		if row.Streak > 0 {
			streak = dimStyle.Render(fmt.Sprintf("  %d🔥", row.Streak))
		}
		fmt.Fprintf(&b, "%s %s%s\n", name, mark, streak)
	}

	fmt.Fprintf(&b, "\n%s complete  ·  overall streak %d",
		bandStyle(sum.Band).Render(fmt.Sprintf("%d%%", sum.Percent)), sum.OverallStreak)
	return b.String()
}

func (m Model) viewWeek() string {
	list := m.active()
	grid := analytics.WeekGrid(list, m.now(), m.settings.WeekStart)
	today := m.store.Today()

	width := 10
	for _, r := range grid.Rows {
		if n := lipgloss.Width(r.Name); n > width {
			width = n
		}
	}
	width += 3

	var b strings.Builder
	b.WriteString(titleStyle.Render("Week of " + grid.Days[0]))
	b.WriteString("\n\n")
	b.WriteString(strings.Repeat(" ", width))
	for i, l := range analytics.WeekdayLabels(m.settings.WeekStart) {
		if i == m.dayIndex {
			l = selectedStyle.Render(l)
		}
		b.WriteString(" " + l)
	}
	b.WriteString("\n")

	for i, row := range grid.Rows {
		name := "  " + row.Name
		if i == m.cursor {
			name = "> " + row.Name
		}
		b.WriteString(lipgloss.NewStyle().Width(width).Render(name))
		for d, done := range row.Done {
			cell := dimStyle.Render("·")
			switch {
			case grid.Days[d] > today:
				cell = " "
			case done:
				cell = doneStyle.Render("✓")
			}
			b.WriteString("  " + cell + " ")
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", width))
	for _, day := range grid.Days {
		if day > today {
			b.WriteString("    ")
			continue
		}
		t, _ := utils.ParseDayKey(day)
		pct := analytics.DailyCompletion(list, t)
		b.WriteString(" " + bandStyle(analytics.CompletionBand(pct)).Render(fmt.Sprintf("%3d", pct)))
	}
	return b.String()
}

func (m Model) viewMonth() string {
	cal := analytics.MonthCalendar(m.active(), m.monthRef(), m.settings.WeekStart)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", cal.Month, cal.Year)))
	b.WriteString("\n\n")
	for _, l := range analytics.WeekdayLabels(cal.WeekStart) {
		b.WriteString(" " + l)
	}
	b.WriteString("\n")

	col := 0
	for ; col < cal.Leading; col++ {
		b.WriteString("    ")
	}
	for _, d := range cal.Days {
		cell := fmt.Sprintf("%3d", d.Day)
		if d.Future {
			cell = dimStyle.Render(cell)
		} else {
			cell = bandStyle(d.Band).Render(cell)
		}
		b.WriteString(" " + cell)
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
