package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/migration"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/migrations"
)

type Store struct {
	connStr string
	db      *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

func New(connStr string) *Store {
	s := &Store{
		connStr: connStr,
	}
	s.ensureSearchPath()
	return s
}

// IsConnString reports whether config names a PostgreSQL database rather
// than a file path.
func IsConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

func (s *Store) ensureSearchPath() {
	if IsConnString(s.connStr) {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a connection string carries key, either as a
// URL query parameter or as a DSN key=value pair (case-insensitive).
func hasParam(connStr, key string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}

	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// ValidateConnString checks that connStr is a well-formed PostgreSQL URI or
// DSN and carries no password.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
	} else if HasEmbeddedCredentials(connStr) {
		return false, ErrEmbeddedCredentials
	}

	return true, nil
}

// HasEmbeddedCredentials reports whether connStr contains a password.
func HasEmbeddedCredentials(connStr string) bool {
	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		_, isSet := u.User.Password()
		return isSet
	}
	return hasParam(connStr, "password")
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(s.connStr, "sslmode") {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) Init() error {
	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
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
	if err := s.open(); err != nil {
		return err
	}
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
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = $1", key).Scan(&value)
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
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "backend", "postgres")
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// GetConfigPath returns a non-sensitive identifier instead of the
// connection string.
func (s *Store) GetConfigPath() string {
	return "postgresql"
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

// GetDB returns the underlying connection pool, or nil before Init or Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
