package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/focuslit/internal/logger"
)

// Exit codes used by the CLI for each error kind.
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitConflict   = 4
	ExitStore      = 5
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to the process exit code for its kind.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case Is(err, ErrValidation):
		return ExitValidation
	case Is(err, ErrNotFound):
		return ExitNotFound
	case Is(err, ErrConflict):
		return ExitConflict
	case Is(err, ErrTransient):
		return ExitStore
	default:
		return ExitFailure
	}
}

// Fatal logs an error and exits with the code for its kind
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
