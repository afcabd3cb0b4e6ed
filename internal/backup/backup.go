package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

const timestampFormat = "20060102-150405"

// ErrNoDatabase is returned when there is no database file to back up
var ErrNoDatabase = errors.New("database does not exist")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager creates, lists, rotates and restores copies of a file-backed
// database. SQLite files are copied with VACUUM INTO; JSON files are copied
// byte for byte after a validity check.
type Manager struct {
	dbPath    string
	backupDir string
	suffix    string
	now       func() time.Time
}

// NewManager creates a backup manager for the database at dbPath. Backups
// live in a "backups" directory beside it.
func NewManager(dbPath string) *Manager {
	suffix := filepath.Ext(dbPath)
	if suffix == "" {
		suffix = ".db"
	}
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		suffix:    suffix,
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) isJSON() bool {
	return strings.EqualFold(m.suffix, ".json")
}

// CreateBackup creates a new backup of the database and rotates old ones
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup skips rotation when called from a restore, so the
// pre-restore copy never evicts the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	if m.isJSON() {
		err = m.backupJSON(backupPath)
	} else {
		err = m.backupSQLite(backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	logger.Debug("Created backup", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextBackupPath names the backup after the current second, adding a
// counter when several backups land in the same second.
func (m *Manager) nextBackupPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	base := constants.BackupFilePrefix + stamp
	path := filepath.Join(m.backupDir, base+m.suffix)

	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, counter, m.suffix))
	}
}

func (m *Manager) backupSQLite(destPath string) error {
	srcDB, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	// VACUUM INTO produces a consistent copy even with the database open
	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		srcDB.Close()
		return copyFile(m.dbPath, destPath)
	}
	return nil
}

func (m *Manager) backupJSON(destPath string) error {
	if err := verifyJSON(m.dbPath); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	return copyFile(m.dbPath, destPath)
}

// ListBackups returns all available backups, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	type ranked struct {
		BackupInfo
		counter int
	}
	var found []ranked
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
			continue
		}

		stamp, counter := splitCounter(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix))
		timestamp, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		found = append(found, ranked{
			BackupInfo: BackupInfo{
				Path:      filepath.Join(m.backupDir, name),
				Timestamp: timestamp,
				Size:      info.Size(),
			},
			counter: counter,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if !found[i].Timestamp.Equal(found[j].Timestamp) {
			return found[i].Timestamp.After(found[j].Timestamp)
		}
		return found[i].counter > found[j].counter
	})

	backups := make([]BackupInfo, len(found))
	for i, r := range found {
		backups[i] = r.BackupInfo
	}
	return backups, nil
}

// splitCounter separates "20240508-093000-3" into the timestamp and 3.
func splitCounter(s string) (string, int) {
	parts := strings.Split(s, "-")
	if len(parts) == 3 {
		if n, err := strconv.Atoi(parts[2]); err == nil {
			return parts[0] + "-" + parts[1], n
		}
	}
	return s, 0
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// RestoreBackup replaces the database with the given backup. The current
// database is backed up first. The database must not be open.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	if err := m.verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var preRestore string
	if _, err := os.Stat(m.dbPath); err == nil {
		preRestore, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		logger.Info("Backed up current database before restore", "path", preRestore)
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return preRestore, fmt.Errorf("failed to copy backup file: %w", err)
	}

	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return preRestore, fmt.Errorf("failed to restore database: %w", err)
	}

	return preRestore, nil
}

func (m *Manager) verifyBackup(path string) error {
	if m.isJSON() {
		return verifyJSON(path)
	}
	return verifySQLite(path)
}

func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func verifyJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", filepath.Base(path))
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
