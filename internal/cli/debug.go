package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitlit/internal/analytics"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/models"
)

type DebugCmd struct {
	DBPath DebugDBPathCmd `cmd:"" name:"db-path" help:"Show database path."`
	Dump   DebugDumpCmd   `cmd:"" help:"Dump a habit as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return writeJSON(ctx, map[string]string{
		"path": keyring.MaskPassword(ctx.Provider.GetConfigPath()),
	})
}

type DebugDumpCmd struct {
	Habit string `arg:"" help:"Habit id, position or name."`
}

type habitDump struct {
	models.Habit
	Streak        int `json:"streak"`
	CompletedDays int `json:"completed_days"`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(cmd.Habit)
	if err != nil {
		return err
	}
	return writeJSON(ctx, habitDump{
		Habit:         h,
		Streak:        analytics.Streak(h, ctx.Habits.Now()),
		CompletedDays: h.CompletedDays(),
	})
}

func writeJSON(ctx *Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(out))
	return nil
}
