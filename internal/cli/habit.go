package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlit/internal/analytics"
)

type AddCmd struct {
	Name []string `arg:"" optional:"" help:"Habit name (defaults to the configured default name)."`
}

func (c *AddCmd) Run(ctx *Context) error {
	h, err := ctx.Habits.Create(strings.Join(c.Name, " "))
	if err != nil {
		return err
	}
	ctx.printf("Added habit: %s (%s)\n", h.Name, h.ID)
	return nil
}

type ListCmd struct {
	Archived bool `help:"Include archived habits."`
	IDs      bool `name:"ids" help:"Show habit ids."`
}

func (c *ListCmd) Run(ctx *Context) error {
	list := ctx.Habits.List(c.Archived)
	if len(list) == 0 {
		ctx.println("No habits found.")
		return nil
	}

	today := ctx.Habits.Now()
	pos := 0
	for _, h := range list {
		label := "   -"
		status := ""
		if h.Archived {
			status = " [ARCHIVED]"
		} else {
			pos++
			label = fmt.Sprintf("%3d.", pos)
			if s := analytics.Streak(h, today); s > 0 {
				status = fmt.Sprintf("  streak %d", s)
			}
		}
		if c.IDs {
			ctx.printf("%s %s%s  %s\n", label, h.Name, status, dimStyle.Render(h.ID))
			continue
		}
		ctx.printf("%s %s%s\n", label, h.Name, status)
	}
	return nil
}

type RenameCmd struct {
	Habit string   `arg:"" help:"Habit id, position or name."`
	Name  []string `arg:"" help:"New name."`
}

func (c *RenameCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	name := strings.Join(c.Name, " ")
	if err := ctx.Habits.Rename(h.ID, name); err != nil {
		return err
	}
	ctx.printf("Renamed %q to %q\n", h.Name, name)
	return nil
}

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit id, position or name."`
	Date  string `help:"Day to toggle in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" || day == "today" {
		day = ctx.Habits.Today()
	}
	if err := ctx.Habits.ToggleOn(h.ID, day); err != nil {
		return err
	}

	updated, _ := ctx.Habits.Get(h.ID)
	if updated.DoneOn(day) {
		ctx.printf("Marked %s as done on %s\n", h.Name, day)
	} else {
		ctx.printf("Unmarked %s on %s\n", h.Name, day)
	}
	return nil
}

type ArchiveCmd struct {
	Habit     string `arg:"" help:"Habit id, position or name."`
	Unarchive bool   `help:"Restore an archived habit instead."`
}

func (c *ArchiveCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if c.Unarchive {
		if err := ctx.Habits.Unarchive(h.ID); err != nil {
			return err
		}
		ctx.printf("Unarchived habit: %s\n", h.Name)
		return nil
	}

	if err := ctx.Habits.Archive(h.ID); err != nil {
		return err
	}
	ctx.printf("Archived habit: %s\n", h.Name)
	return nil
}

type DeleteCmd struct {
	Habit string `arg:"" help:"Habit id, position or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q and its whole history?", h.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Habits.Delete(h.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}

type MoveCmd struct {
	Habit    string `arg:"" help:"Habit id, position or name."`
	Position int    `arg:"" help:"New 1-based position in the active list."`
}

func (c *MoveCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(c.Habit)
	if err != nil {
		return err
	}
	if h.Archived {
		return fmt.Errorf("habit %q is archived; unarchive it before moving", h.Name)
	}
	if err := ctx.Habits.Reorder(h.ID, c.Position-1); err != nil {
		return err
	}
	return (&ListCmd{}).Run(ctx)
}

type ReorderCmd struct {
	Habits []string `arg:"" help:"Habits (id, position or name) in their new order. Unlisted habits follow."`
}

func (c *ReorderCmd) Run(ctx *Context) error {
	ids := make([]string, 0, len(c.Habits))
	for _, ref := range c.Habits {
		h, err := ctx.resolveHabit(ref)
		if err != nil {
			return err
		}
		ids = append(ids, h.ID)
	}
	if err := ctx.Habits.ReorderByDrag(ids); err != nil {
		return err
	}
	return (&ListCmd{}).Run(ctx)
}
