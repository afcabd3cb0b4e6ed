package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitlit/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing database file before initializing."`
	Source string `help:"Database path or connection string to copy habits and settings from."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force && ctx.fileBacked() {
		dbPath := ctx.Provider.GetConfigPath()
		if c.Source != "" && samePath(c.Source, dbPath) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
		if err := ctx.Provider.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.printf("Deleted existing database at: %s\n", dbPath)
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habitlit storage at: %s\n", ctx.Provider.GetConfigPath())

	if c.Source == "" {
		return nil
	}

	ctx.printf("Copying data from: %s\n", c.Source)
	src, err := NewProvider(c.Source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	if err := ctx.Provider.Load(); err != nil {
		return err
	}
	n, err := storage.NewBridge(ctx.Provider).CopyAll(src)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	ctx.printf("Copied %d records.\n", n)
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
