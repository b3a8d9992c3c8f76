package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// PluginExistsError indicates a second descriptor claimed a name already in
// the catalog.
//
//nolint:revive // plugin.PluginExistsError reads better at call sites than plugin.ExistsError
type PluginExistsError struct {
	Name      string
	FirstSeen string
}

func (e *PluginExistsError) Error() string {
	if e.FirstSeen == "" {
		return fmt.Sprintf("plugin %q already registered", e.Name)
	}
	return fmt.Sprintf("plugin %q already registered by %s", e.Name, e.FirstSeen)
}

// NotFoundError indicates a lookup by name matched no descriptor.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown plugin: %s", e.Name)
}

// ValidationError collects multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// Add adds an error message to the collection.
func (e *ValidationError) Add(msg string) {
	e.Errors = append(e.Errors, msg)
}

// Addf adds a formatted error message to the collection.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// DiscoveryError reports a descriptor that was excluded from the catalog.
type DiscoveryError struct {
	Path string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("loading plugin at %s: %v", e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// ManifestSizeError indicates a descriptor file exceeds the size limit.
type ManifestSizeError struct {
	Size  int64
	Limit int64
}

func (e *ManifestSizeError) Error() string {
	return fmt.Sprintf("manifest size %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

// IsPluginExists returns true if the error indicates a duplicate name.
func IsPluginExists(err error) bool {
	var existsErr *PluginExistsError
	return errors.As(err, &existsErr)
}

// IsNotFound returns true if the error is a failed lookup.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidationError returns true if the error is a validation error.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsUnknownCategory returns true if the error names an unknown category.
func IsUnknownCategory(err error) bool {
	var catErr *UnknownCategoryError
	return errors.As(err, &catErr)
}

// IsManifestSizeError returns true if the error is a manifest size violation.
func IsManifestSizeError(err error) bool {
	var sizeErr *ManifestSizeError
	return errors.As(err, &sizeErr)
}
