package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/migration"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		db, err := sql.Open("sqlite", s.path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		s.db = db
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitlit init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(key string, value []byte) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "backend", "sqlite")
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return err
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return err
	}
	if current < latest {
		logger.Info("Database schema is behind, migrating", "current", current, "latest", latest)
		return s.runMigrations()
	}
	return runner.ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init or
// Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// SchemaVersions reports the applied and the latest known schema version.
func (s *Store) SchemaVersions() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, storage.ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}
