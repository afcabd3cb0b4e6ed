package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/analytics"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	bandStyles = map[analytics.Band]lipgloss.Style{
		analytics.BandHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		analytics.BandMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		analytics.BandLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func bandStyle(b analytics.Band) lipgloss.Style {
	if s, ok := bandStyles[b]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

func checkMark(done bool) string {
	if done {
		return doneStyle.Render("✓")
	}
	return dimStyle.Render("·")
}
