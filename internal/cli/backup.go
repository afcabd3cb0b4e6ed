package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup now."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
}

var errNoFileBackups = apperrors.WithHint(
	errors.New("backups are only available for file-based databases"),
	"use pg_dump to back up a PostgreSQL database",
)

func (c *Context) backupManager() (*backup.Manager, error) {
	if !c.fileBacked() {
		return nil, errNoFileBackups
	}
	return backup.NewManager(c.Provider.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	// Flush pending state so the copy matches what the user sees.
	if err := ctx.Habits.Close(); err != nil {
		return err
	}

	path, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %-34s %8s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			humanize.Bytes(uint64(b.Size)),
			dimStyle.Render(humanize.Time(b.Timestamp)),
		)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	backupPath := cmd.BackupFile
	if !filepath.IsAbs(backupPath) {
		candidate := filepath.Join(mgr.GetBackupDir(), cmd.BackupFile)
		if _, err := os.Stat(candidate); err == nil {
			backupPath = candidate
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !cmd.Yes {
		ctx.println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.println("A backup of your current database will be created before restoring.")
		ok, err := ctx.Confirm(fmt.Sprintf("Restore from %s?", filepath.Base(backupPath)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	// Drop the in-memory set so closing doesn't write it over the restored file.
	if err := ctx.Habits.Close(); err != nil {
		logger.Warn("Failed to flush habits before restore", "error", err)
	}
	ctx.Habits = nil
	if err := ctx.Provider.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if preRestore != "" {
		ctx.printf("Previous database saved as: %s\n", filepath.Base(preRestore))
	}

	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to reopen restored database: %w", err)
	}
	ctx.printf("✓ Database restored successfully (%d habits).\n", ctx.Habits.Len())
	return nil
}
