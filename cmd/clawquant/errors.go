package main

import (
	"errors"
	"fmt"
)

// Error codes for categorization.
const (
	ErrCodeInvalidHome     = "INVALID_HOME"
	ErrCodeUnknownPlugin   = "UNKNOWN_PLUGIN"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeConfigNotFound  = "CONFIG_NOT_FOUND"
)

// UserError represents a user-friendly error with actionable suggestions.
type UserError struct {
	Code       string // Error code for categorization (e.g., "UNKNOWN_PLUGIN")
	Message    string // User-friendly error message
	Context    string // Plugin name, path or other location context
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// ExitError ends the process with Code after the command already printed
// its own message.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitCode maps err to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
