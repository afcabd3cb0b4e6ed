package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitlit/internal/constants"
)

// Logger is the global logger instance. It carries no application state.
var Logger *log.Logger

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Quiet keeps debug output off stderr even in debug mode. The TUI sets it
	// so log lines don't tear the alt-screen.
	Quiet bool
}

// LogPath returns the log file location for a config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	logFile := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	var writer io.Writer = fileWriter
	if cfg.Debug && !cfg.Quiet {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
