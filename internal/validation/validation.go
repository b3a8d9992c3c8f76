// Package validation provides input validation utilities to prevent security vulnerabilities
// such as command injection, path traversal, and other input-based attacks.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Common validation errors.
var (
	ErrEmptyInput        = errors.New("input cannot be empty")
	ErrPathTraversal     = errors.New("path traversal detected")
	ErrInvalidPath       = errors.New("invalid path")
	ErrInvalidPipPackage = errors.New("invalid pip package name")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidParamKey   = errors.New("invalid parameter key")
)

// Compiled regex patterns for validation (compiled once for performance).
var (
	// pipPackageRegex matches valid pip package names with optional version specifier
	// Examples: "requests", "yfinance==0.2.40", "pandas>=2.0", "requests[socks]"
	pipPackageRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*(\[[a-zA-Z0-9,._-]+\])?([=<>!~]=?[a-zA-Z0-9._*-]+)?$`)

	// nameRegex matches plugin, handler and tool names
	// Examples: "web_search", "notifications.send", "alpha-vantage"
	nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

	// paramKeyRegex matches task parameter and tool argument keys
	// Examples: "message", "channel_id", "as_of"
	paramKeyRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidatePipPackage validates a pip package name with optional extras and version specifier.
// The pattern leaves no room for shell metacharacters other than the
// comparison operator itself, so callers printing a command line only need
// to quote specifiers containing < or >.
func ValidatePipPackage(pkg string) error {
	if pkg == "" {
		return ErrEmptyInput
	}

	if len(pkg) > 256 {
		return fmt.Errorf("%w: package name too long", ErrInvalidPipPackage)
	}

	if !pipPackageRegex.MatchString(pkg) {
		return fmt.Errorf("%w: %q is not a valid pip package name", ErrInvalidPipPackage, pkg)
	}

	return nil
}

// ValidateName validates a plugin, task handler or tool name.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyInput
	}

	if len(name) > 128 {
		return fmt.Errorf("%w: name too long", ErrInvalidName)
	}

	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q must be lowercase letters, digits, '.', '_' or '-'", ErrInvalidName, name)
	}

	return nil
}

// ValidateParamKey validates a task parameter or tool argument key.
func ValidateParamKey(key string) error {
	if key == "" {
		return ErrEmptyInput
	}

	if !paramKeyRegex.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidParamKey, key)
	}

	return nil
}

// ValidatePath validates a file path and prevents path traversal attacks.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyInput
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: path contains null byte", ErrInvalidPath)
	}

	if containsPathTraversal(path) {
		return fmt.Errorf("%w: %q contains traversal sequence", ErrPathTraversal, path)
	}

	return nil
}

// containsPathTraversal checks for common path traversal patterns.
func containsPathTraversal(path string) bool {
	// Normalize the path to catch encoded traversal attempts
	normalized := filepath.Clean(path)

	segments := strings.Split(normalized, string(filepath.Separator))
	for _, seg := range segments {
		if seg == ".." {
			return true
		}
	}

	// Check for URL-encoded traversal
	if strings.Contains(path, "%2e%2e") || strings.Contains(path, "%2E%2E") {
		return true
	}

	return false
}
