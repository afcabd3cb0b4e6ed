// Package keyring keeps the PostgreSQL connection string out of flags and
// config files.
package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlit/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are stored in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString reads the connection string from the OS keyring.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the connection string from the OS keyring.
func DeleteConnectionString() error {
	if err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ResolveConnectionString returns the connection string to use when none
// was given on the command line: the environment variable first, then the
// keyring. It returns "" when neither is set.
func ResolveConnectionString() string {
	if connStr := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); connStr != "" {
		return connStr
	}
	connStr, err := GetConnectionString()
	if err != nil {
		return ""
	}
	return connStr
}

// MaskPassword hides the password in a URL or DSN connection string.
func MaskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil || u.User == nil {
			return connStr
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			s := u.String()
			// url.String escapes the placeholder
			return strings.Replace(s, url.QueryEscape("****"), "****", 1)
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, field := range fields {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			fields[i] = kv[0] + "=****"
		}
	}
	return strings.Join(fields, " ")
}
