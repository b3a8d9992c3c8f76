// Package task defines the contract between a scheduler and the plugins that
// handle its jobs.
package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/clawquant/internal/validation"
)

// Status is the outcome class of one handler invocation.
type Status string

// Task statuses.
const (
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusNoAction Status = "no_action"
)

// Result is what a handler returns to its caller. It is never persisted.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Success builds a success result.
func Success(format string, args ...any) Result {
	return Result{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Failure builds an error result.
func Failure(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// NoAction builds a no_action result.
func NoAction(format string, args ...any) Result {
	return Result{Status: StatusNoAction, Message: fmt.Sprintf(format, args...)}
}

// OK reports whether the result is not an error.
func (r Result) OK() bool {
	return r.Status != StatusError
}

// Params is the untyped parameter map a scheduler passes to a handler.
type Params map[string]any

// String returns params[key] as trimmed text. Missing and nil values yield "".
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Handler runs one kind of scheduled job. Run never returns a Go error:
// every failure is reported through the Result.
type Handler interface {
	Name() string
	Run(ctx context.Context, params Params) Result
}

// MissingParam is the result for a required parameter that is absent or blank.
func MissingParam(name string) Result {
	return Failure("Missing required param: %s", name)
}

// ParseParams builds params from "key=value" pairs, as given on a command
// line. Values stay strings; handlers convert what they need. A later pair
// overrides an earlier one with the same key.
func ParseParams(pairs []string) (Params, error) {
	params := make(Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q must be key=value", pair)
		}
		key = strings.TrimSpace(key)
		if err := validation.ValidateParamKey(key); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pair, err)
		}
		params[key] = value
	}
	return params, nil
}
