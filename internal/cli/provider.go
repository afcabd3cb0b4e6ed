package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/storage/postgres"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

// NewProvider picks a backend from a --config value: a PostgreSQL URL or
// DSN, a .json file, or (by default) a SQLite file.
func NewProvider(config string) (storage.Provider, error) {
	if isPostgres(config) {
		if postgres.HasEmbeddedCredentials(config) {
			return nil, apperrors.WithHint(
				errors.New("PostgreSQL connection strings with embedded credentials are not allowed"),
				"store the full connection string with 'habitlit keyring set', export HABITLIT_DB_CONNECTION, or use a .pgpass file",
			)
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

func isPostgres(config string) bool {
	return postgres.IsConnString(config) || strings.Contains(config, "host=")
}

// ExpandPath resolves a leading ~ to the home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
