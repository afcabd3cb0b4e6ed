package cli

import (
	"strings"

	"github.com/julianstephens/habitlit/internal/utils"
)

type SettingsCmd struct {
	WeekStart        string `help:"First day of the week for the week and month views (e.g. monday, sunday)." default:""`
	DefaultHabitName string `help:"Name given to habits added without one." default:""`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	changed := false
	settings := ctx.Settings

	if c.WeekStart != "" {
		wd, err := utils.ParseWeekday(c.WeekStart)
		if err != nil {
			return err
		}
		settings.WeekStart = wd
		changed = true
	}
	if name := strings.TrimSpace(c.DefaultHabitName); name != "" {
		settings.DefaultHabitName = name
		changed = true
	}

	if changed {
		if err := ctx.Bridge.SaveSettings(settings); err != nil {
			return err
		}
		ctx.Settings = settings
		ctx.println("Settings updated.")
	}

	ctx.printf("week_start:         %s\n", strings.ToLower(ctx.Settings.WeekStart.String()))
	ctx.printf("default_habit_name: %s\n", ctx.Settings.DefaultHabitName)
	return nil
}
