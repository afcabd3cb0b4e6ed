package constants

const (
	AppName            = "habitlit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitlit/habitlit.db"
	Version            = "v0.3.0"

	// ConnectionEnvVar holds a full PostgreSQL connection string as an
	// alternative to the OS keyring.
	ConnectionEnvVar = "HABITLIT_DB_CONNECTION"

	// DateFormat is the day-key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DefaultHabitName is the name given to habits created without one
	DefaultHabitName = "New Habit"

	// Storage keys
	HabitsKey   = "habits"
	SettingsKey = "settings"

	// UnreadableHabitsKey keeps a habits blob that failed to decode before
	// it is overwritten
	UnreadableHabitsKey = "habits.unreadable"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlit-"

	// Lock constants
	LockfileSuffix = ".lock"

	// Completion band thresholds, inclusive lower bounds (percent)
	BandHighMin   = 75
	BandMediumMin = 50
)
