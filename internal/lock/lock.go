// Package lock keeps a second habitlit process from writing to the same
// database. The lock is a file holding the owner's PID and executable name;
// a lock whose owner is no longer running is taken over.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

// ErrLocked is returned when another live process holds the lock
var ErrLocked = errors.New("database is in use by another habitlit process")

var (
	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
)

// Lock is a held lock file.
type Lock struct {
	path string
	pid  int
}

// PathFor returns the lock file path for a database file.
func PathFor(dbPath string) string {
	return dbPath + constants.LockfileSuffix
}

// Acquire takes the lock at path, replacing it if its owner has exited.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	pid := getpid()
	for attempt := 0; attempt < 2; attempt++ {
		err := writeLockfile(path, pid)
		if err == nil {
			logger.Debug("Acquired lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		owner, alive := lockOwner(path)
		if owner == pid {
			return &Lock{path: path, pid: pid}, nil
		}
		if alive {
			return nil, fmt.Errorf("%w (pid %d, lock file %s)", ErrLocked, owner, path)
		}

		logger.Warn("Removing stale lock file", "path", path, "pid", owner)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", err)
		}
	}
	return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
}

// Release removes the lock file if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	owner, _ := lockOwner(l.path)
	if owner != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

func writeLockfile(path string, pid int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%d\n%s\n", pid, executableName(pid))
	return err
}

func executableName(pid int) string {
	if p, err := findProcessFunc(pid); err == nil && p != nil {
		return p.Executable()
	}
	return constants.AppName
}

// lockOwner reads the PID in the lock file and reports whether that process
// is still running the recorded executable. A malformed file counts as stale.
func lockOwner(path string) (int, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || pid <= 0 {
		return 0, false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, false
	}
	if len(lines) > 1 {
		recorded := strings.TrimSpace(lines[1])
		if recorded != "" && process.Executable() != recorded {
			// PID was reused by an unrelated program
			return pid, false
		}
	}
	return pid, true
}
