package cli

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

type DoctorCmd struct{}

type dbProvider interface {
	GetDB() *sql.DB
}

type schemaProvider interface {
	SchemaVersions() (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.printf("✓ %s: OK\n", name)
	}

	reachable := checkDBReachable(ctx)
	report("Database reachable", reachable)

	if reachable == nil {
		current, latest, err := schemaVersions(ctx)
		switch {
		case err != nil:
			report("Schema version", err)
		case current > latest:
			report("Schema version", fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest))
		default:
			report("Schema version", nil)
			if current < latest {
				report("Migrations complete", fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest))
			} else {
				report("Migrations complete", nil)
			}
		}

		report("Data validation", checkValidation(ctx))
	} else {
		ctx.println("⊘ Schema and data checks: SKIPPED (database not reachable)")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		ctx.println("⚠ Backups present: WARNING")
		ctx.printf("   %v\n", err)
	} else {
		ctx.println("✓ Backups present: OK")
	}

	report("Clock/timezone", checkClockTimezone(ctx, time.Now()))

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if p, ok := ctx.Provider.(dbProvider); ok {
		db := p.GetDB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// schemaVersions reports 0/0 for backends without a schema.
func schemaVersions(ctx *Context) (int, int, error) {
	p, ok := ctx.Provider.(schemaProvider)
	if !ok {
		return 0, 0, nil
	}
	return p.SchemaVersions()
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'habitlit backup create'")
	}
	return nil
}

// checkValidation decodes the stored blobs strictly, without the upgrade
// and fallback applied at startup, and reports blocking conflicts as an
// error. Other conflicts are printed as warnings.
func checkValidation(ctx *Context) error {
	if data, err := ctx.Provider.Get(constants.SettingsKey); err == nil {
		if _, err := storage.DecodeSettings(data); err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	data, err := ctx.Provider.Get(constants.HabitsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}
	var set []models.Habit
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("invalid habits: %w", err)
	}

	result := validation.New().ValidateHabits(set, utils.Today())
	for _, c := range result.Conflicts {
		if !c.Blocking() {
			ctx.printf("   ⚠ %s\n", c.Description)
		}
	}
	if blocking := result.Blocking(); len(blocking) > 0 {
		return errors.New(blocking[0].Description)
	}
	return nil
}

func checkClockTimezone(ctx *Context, now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		ctx.println("   Note: timezone is UTC, days roll over at UTC midnight")
	}
	return nil
}
