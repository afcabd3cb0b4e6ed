package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitlit/internal/storage"
)

type ExportCmd struct {
	Format string `short:"f" help:"Output format: json or yaml." default:"json" enum:"json,yaml,yml"`
	Output string `short:"o" help:"Write to this file instead of stdout." default:""`
}

func (c *ExportCmd) Run(ctx *Context) error {
	format, err := storage.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	data, err := storage.ExportHabits(ctx.Habits.Snapshot(), format)
	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err := ctx.Out.Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.printf("Exported %d habits to %s\n", ctx.Habits.Len(), c.Output)
	return nil
}

type ImportCmd struct {
	File   string `arg:"" type:"existingfile" help:"File produced by 'habitlit export'."`
	Format string `short:"f" help:"Input format: json or yaml (default: from the file extension)." default:""`
	Yes    bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	name := c.Format
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(c.File), ".")
	}
	format, err := storage.ParseFormat(name)
	if err != nil {
		return fmt.Errorf("cannot infer import format, use --format: %w", err)
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	set, err := storage.ImportHabits(data, format)
	if err != nil {
		return err
	}

	if !c.Yes && ctx.Habits.Len() > 0 {
		ok, err := ctx.Confirm(fmt.Sprintf("Replace %d existing habits with %d from %s?",
			ctx.Habits.Len(), len(set), filepath.Base(c.File)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Habits.Replace(set); err != nil {
		return err
	}
	ctx.printf("Imported %d habits from %s\n", len(set), c.File)
	return nil
}
