package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/lock"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file (.db or .json) or PostgreSQL connection string. Defaults to ${env_var}, then the OS keyring, then ${default_config}. PostgreSQL credentials must NOT be embedded here." type:"string" default:""`
	Debug   bool   `help:"Write debug logs to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitlit storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      cli.AddCmd      `cmd:"" help:"Add a new habit."`
	List     cli.ListCmd     `cmd:"" help:"List habits in display order."`
	Rename   cli.RenameCmd   `cmd:"" help:"Rename a habit."`
	Toggle   cli.ToggleCmd   `cmd:"" help:"Mark or unmark a habit as done for a day."`
	Archive  cli.ArchiveCmd  `cmd:"" help:"Archive or unarchive a habit."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit and its history."`
	Move     cli.MoveCmd     `cmd:"" help:"Move a habit to a new position."`
	Reorder  cli.ReorderCmd  `cmd:"" help:"Set the display order of habits."`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's habits, streaks and completion."`
	Week     cli.WeekCmd     `cmd:"" help:"Show the week grid."`
	Month    cli.MonthCmd    `cmd:"" help:"Show the month calendar."`
	Day      cli.DayCmd      `cmd:"" help:"Show habit status for one day."`
	Settings cli.SettingsCmd `cmd:"" help:"Show or change settings."`
	Export   cli.ExportCmd   `cmd:"" help:"Export habits as JSON or YAML."`
	Import   cli.ImportCmd   `cmd:"" help:"Replace habits with an exported file."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage database backups."`
	Keyring  cli.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	DebugCmd cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A daily habit tracker with streaks and completion history."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"env_var":        constants.ConnectionEnvVar,
			"default_config": constants.DefaultConfigPath,
		},
	)

	command := strings.Fields(ctx.Command())[0]

	configDir, err := cli.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Quiet:     command == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	provider, err := resolveProvider(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	logger.Debug("Resolved storage backend", "command", command, "config", keyring.MaskPassword(provider.GetConfigPath()))

	appCtx := cli.NewContext(provider)

	var held *lock.Lock
	if command != "keyring" {
		held, err = lock.Acquire(lockPath(provider, configDir))
		if err != nil {
			if errors.Is(err, lock.ErrLocked) {
				err = apperrors.WithHint(err, "close the other habitlit process (for example a running TUI) and try again")
			}
			apperrors.Fatal(err)
		}
		logger.Debug("Acquired lock", "path", held.Path())
	}

	err = run(ctx, appCtx, command)
	if releaseErr := held.Release(); releaseErr != nil {
		logger.Warn("Failed to release lock", "error", releaseErr)
	}
	apperrors.Fatal(err)
}

func run(ctx *kong.Context, appCtx *cli.Context, command string) error {
	if needsOpenStore(command, ctx.Command()) {
		if err := appCtx.Open(); err != nil {
			appCtx.Provider.Close()
			return err
		}
		defer func() {
			if err := appCtx.Close(); err != nil {
				logger.Error("Failed to close storage", "error", err)
				fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to close storage: %v", err))
			}
		}()
	} else {
		defer appCtx.Provider.Close()
	}
	return ctx.Run(appCtx)
}

// needsOpenStore reports whether a command works on the loaded habit set.
// init, doctor and keyring manage the backend themselves.
func needsOpenStore(command, full string) bool {
	switch command {
	case "init", "doctor", "keyring":
		return false
	case "debug":
		return !strings.HasPrefix(full, "debug db-path")
	}
	return true
}

// resolveProvider picks the backend: --config when given, otherwise a
// connection string from the environment or keyring, otherwise the default
// SQLite file. Connection strings from the environment or keyring may carry
// a password; --config values may not.
func resolveProvider(config string) (storage.Provider, error) {
	if config != "" {
		return cli.NewProvider(config)
	}
	if connStr := keyring.ResolveConnectionString(); connStr != "" {
		return postgres.New(connStr), nil
	}
	return cli.NewProvider(constants.DefaultConfigPath)
}

// lockPath puts the lock beside a database file, or in the config directory
// for PostgreSQL.
func lockPath(p storage.Provider, configDir string) string {
	if _, ok := p.(*postgres.Store); ok {
		return lock.PathFor(filepath.Join(configDir, "postgresql"))
	}
	return lock.PathFor(p.GetConfigPath())
}
