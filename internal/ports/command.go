package ports

import "context"

// CommandResult holds the outcome of an external program.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the program exited with status 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner runs external programs. A non-zero exit status is reported
// in the result, not as an error.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}
