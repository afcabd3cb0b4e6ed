package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner manages database schema migrations. It only issues statements that
// SQLite and PostgreSQL both accept, so one runner serves either backend.
type Runner struct {
	db *sql.DB
	fs fs.FS
}

// NewRunner creates a new migration runner
func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{
		db: db,
		fs: migrationFS,
	}
}

// EnsureSchemaVersionTable creates the schema_version table if it doesn't exist
func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`)
	return err
}

// GetCurrentVersion returns the current schema version, or 0 for a fresh database
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// SetVersion sets the current schema version in the database
func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	if _, err := r.db.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}
	if _, err := r.db.Exec(insertVersionSQL(version)); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}

// insertVersionSQL inlines the version because the two drivers disagree on
// placeholder syntax. version is always an int parsed from a file name.
func insertVersionSQL(version int) string {
	return fmt.Sprintf("INSERT INTO schema_version (version) VALUES (%d)", version)
}

// ReadMigrationFiles parses NNN_name.sql files and returns them sorted by version
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		parts := strings.SplitN(file.Name(), "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file.Name())
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in filename %s: %w", file.Name(), err)
		}
		if version < 1 {
			return nil, fmt.Errorf("invalid version number in filename %s: version must be at least 1", file.Name())
		}

		content, err := fs.ReadFile(r.fs, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// GetLatestVersion returns the highest migration version available
func (r *Runner) GetLatestVersion() (int, error) {
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}
	return migrations[len(migrations)-1].Version, nil
}

// ApplyMigrations applies every pending migration, each in its own
// transaction together with the version bump. It returns how many ran.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	currentVersion, err := r.GetCurrentVersion()
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}

	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations: %w", err)
	}
	if len(migrations) == 0 {
		logFn("No migration files found")
		return 0, nil
	}

	latestVersion := migrations[len(migrations)-1].Version
	if currentVersion > latestVersion {
		return 0, newerSchemaError(currentVersion, latestVersion)
	}

	var pending []Migration
	for _, m := range migrations {
		if m.Version > currentVersion {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", currentVersion))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating schema from version %d to %d", currentVersion, latestVersion))

	startTime := time.Now()
	applied := 0
	for _, m := range pending {
		if err := r.apply(m); err != nil {
			return applied, err
		}
		applied++
		logFn(fmt.Sprintf("Applied migration %d: %s", m.Version, m.Name))
	}

	logFn(fmt.Sprintf("Applied %d migration(s) in %v", applied, time.Since(startTime)))
	return applied, nil
}

func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}

	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear version in migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(insertVersionSQL(m.Version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to set version in migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ValidateVersion checks that the database is not newer than this binary
func (r *Runner) ValidateVersion() error {
	currentVersion, err := r.GetCurrentVersion()
	if err != nil {
		return err
	}

	latestVersion, err := r.GetLatestVersion()
	if err != nil {
		return err
	}

	if currentVersion > latestVersion {
		return newerSchemaError(currentVersion, latestVersion)
	}
	return nil
}

func newerSchemaError(current, latest int) error {
	return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade habitlit", current, latest)
}
