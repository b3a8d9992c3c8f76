package ports

import (
	"context"
	"errors"
)

// ErrCancelled is returned by every Prompter method when the operator
// interrupts the prompt (Ctrl+C, Esc). Callers propagate it unchanged.
var ErrCancelled = errors.New("prompt cancelled")

// IsCancelled reports whether err is, or wraps, ErrCancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// Option is one entry of a Select or MultiSelect prompt.
type Option struct {
	Label string
	Value string
	// Checked pre-selects the option in a MultiSelect.
	Checked bool
}

// TextPrompt describes a free-text question.
type TextPrompt struct {
	Message     string
	Default     string
	Placeholder string
}

// Prompter asks the operator one question at a time. Every method blocks
// until an answer is given or the prompt is cancelled.
type Prompter interface {
	Text(ctx context.Context, p TextPrompt) (string, error)

	// Password reads masked input. An empty answer is returned as "".
	Password(ctx context.Context, message string) (string, error)

	Confirm(ctx context.Context, message string, defaultValue bool) (bool, error)

	// Select returns the Value of the chosen option. defaultValue names the
	// option highlighted initially; it may be empty or unknown.
	Select(ctx context.Context, message string, options []Option, defaultValue string) (string, error)

	// MultiSelect returns the Values of all checked options in option order.
	MultiSelect(ctx context.Context, message, instruction string, options []Option) ([]string, error)
}
