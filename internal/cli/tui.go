package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Habits, ctx.Settings), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with an error: %w", err)
	}
	return nil
}
