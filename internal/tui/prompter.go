// Package tui provides the terminal prompts used by the setup wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// outcome is implemented by every prompt model.
type outcome interface {
	tea.Model
	Done() bool
	Cancelled() bool
}

// Prompter implements ports.Prompter with one Bubble Tea program per
// question.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// NewPrompter creates a prompter. Nil in and out mean the terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

func (p *Prompter) run(ctx context.Context, model outcome) (outcome, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}

	final, err := tea.NewProgram(model, opts...).Run()
	if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil, ports.ErrCancelled
	}
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(outcome)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.Cancelled() || !m.Done() {
		return nil, ports.ErrCancelled
	}
	return m, nil
}

// Text implements ports.Prompter.
func (p *Prompter) Text(ctx context.Context, tp ports.TextPrompt) (string, error) {
	m, err := p.run(ctx, newTextModel(tp))
	if err != nil {
		return "", err
	}
	return m.(textModel).Value(), nil
}

// Password implements ports.Prompter.
func (p *Prompter) Password(ctx context.Context, message string) (string, error) {
	m, err := p.run(ctx, newPasswordModel(message))
	if err != nil {
		return "", err
	}
	return m.(textModel).Value(), nil
}

// Confirm implements ports.Prompter.
func (p *Prompter) Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	m, err := p.run(ctx, newConfirmModel(message, defaultValue))
	if err != nil {
		return false, err
	}
	return m.(confirmModel).Value(), nil
}

// Select implements ports.Prompter.
func (p *Prompter) Select(ctx context.Context, message string, options []ports.Option, defaultValue string) (string, error) {
	m, err := p.run(ctx, newSelectModel(message, options, defaultValue))
	if err != nil {
		return "", err
	}
	return m.(choiceModel).Selected(), nil
}

// MultiSelect implements ports.Prompter.
func (p *Prompter) MultiSelect(ctx context.Context, message, instruction string, options []ports.Option) ([]string, error) {
	m, err := p.run(ctx, newMultiSelectModel(message, instruction, options))
	if err != nil {
		return nil, err
	}
	return m.(choiceModel).Checked(), nil
}

var _ ports.Prompter = (*Prompter)(nil)
