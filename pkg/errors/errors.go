// Package errors defines the error kinds surfaced at the gowpkg boundary and
// small helpers for wrapping them with context.
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// Common error types.
var (
	// Resolution errors.
	ErrPackageNotFound    = fmt.Errorf("package not found")
	ErrRepositoryNotFound = fmt.Errorf("repository not found")
	ErrNothingToBuild     = fmt.Errorf("nothing to build")

	// Repository maintenance errors.
	ErrInvariantViolation = fmt.Errorf("repository invariant violated")
	ErrIndexParse         = fmt.Errorf("failed to parse index dump")

	// Config errors.
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")

	// Hook errors.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")

	// Operation validation.
	ErrValidation = fmt.Errorf("validation failed")
)

// ToolError reports a non-zero exit from one of the wrapped binaries.
type ToolError struct {
	Tool     string
	ExitCode int
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
}

// NewToolError creates a ToolError for the given tool and exit code.
func NewToolError(tool string, exitCode int) *ToolError {
	return &ToolError{Tool: tool, ExitCode: exitCode}
}

// IsNotFound reports whether err is one of the not-found kinds.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrPackageNotFound) || stderrors.Is(err, ErrRepositoryNotFound)
}

// IsNotExist reports whether err carries ENOENT anywhere in its chain.
func IsNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
