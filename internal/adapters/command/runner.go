// Package command runs external programs such as pip.
package command

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Runner executes programs and captures their output. When echo is set the
// output is also streamed to it as the program runs.
type Runner struct {
	echo io.Writer
}

// NewRunner creates a Runner. A nil echo only captures.
func NewRunner(echo io.Writer) *Runner {
	if echo == nil {
		return &Runner{}
	}
	return &Runner{echo: &lockedWriter{w: echo}}
}

// Run executes command and waits for it to exit.
func (r *Runner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = r.tee(&stdout)
	cmd.Stderr = r.tee(&stderr)

	err := cmd.Run()
	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, err
	}
	return result, nil
}

func (r *Runner) tee(buf io.Writer) io.Writer {
	if r.echo == nil {
		return buf
	}
	return io.MultiWriter(buf, r.echo)
}

// lockedWriter serializes the stdout and stderr copies into one writer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

var _ ports.CommandRunner = (*Runner)(nil)
