package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitlit/internal/logger"
)

// hinted attaches a user-facing suggestion to an error.
type hinted struct {
	err  error
	hint string
}

func (h *hinted) Error() string { return h.err.Error() }
func (h *hinted) Unwrap() error { return h.err }

// WithHint wraps err with a suggestion printed below the error message.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hint: hint}
}

// Hint returns the outermost hint attached to err, if any.
func Hint(err error) string {
	var h *hinted
	if stderrors.As(err, &h) {
		return h.hint
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
