package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/analytics"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle      = lipgloss.NewStyle().Padding(1, 2)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dangerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	bandColors = map[analytics.Band]lipgloss.Color{
		analytics.BandHigh:   lipgloss.Color("42"),
		analytics.BandMedium: lipgloss.Color("214"),
		analytics.BandLow:    lipgloss.Color("196"),
	}
)

func bandStyle(b analytics.Band) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(bandColors[b])
}
