package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Prompt kinds recorded by Prompter.
const (
	KindText        = "text"
	KindPassword    = "password"
	KindConfirm     = "confirm"
	KindSelect      = "select"
	KindMultiSelect = "multiselect"
)

// Answer is one scripted reply.
type Answer struct {
	text     string
	yes      bool
	values   []string
	cancel   bool
	defaults bool
	kind     string
}

// Reply answers a Text, Password or Select prompt with s.
func Reply(s string) Answer { return Answer{text: s} }

// ReplyYes answers a Confirm prompt.
func ReplyYes(yes bool) Answer { return Answer{yes: yes, kind: KindConfirm} }

// ReplyChecked answers a MultiSelect prompt with values.
func ReplyChecked(values ...string) Answer {
	return Answer{values: append([]string{}, values...), kind: KindMultiSelect}
}

// Cancel makes the prompt return ports.ErrCancelled.
func Cancel() Answer { return Answer{cancel: true} }

// Default accepts whatever the prompt offers: the default text, default
// choice, default boolean, or the pre-checked options.
func Default() Answer { return Answer{defaults: true} }

// Call records one prompt that was shown.
type Call struct {
	Kind        string
	Message     string
	Instruction string
	Default     string
	Options     []ports.Option
}

// Prompter is a scripted ports.Prompter. Each prompt consumes the next
// answer; running out of answers is an error so tests notice unexpected
// prompts.
type Prompter struct {
	mu      sync.Mutex
	answers []Answer
	calls   []Call
}

// NewPrompter creates a prompter that replies with answers in order.
func NewPrompter(answers ...Answer) *Prompter {
	return &Prompter{answers: answers}
}

// Calls returns the prompts shown so far.
func (p *Prompter) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Remaining returns the number of unused answers.
func (p *Prompter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.answers)
}

func (p *Prompter) next(call Call) (Answer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
	if len(p.answers) == 0 {
		return Answer{}, fmt.Errorf("unexpected %s prompt %q", call.Kind, call.Message)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a.cancel {
		return a, ports.ErrCancelled
	}
	if a.kind != "" && a.kind != call.Kind {
		return a, fmt.Errorf("scripted %s answer for %s prompt %q", a.kind, call.Kind, call.Message)
	}
	return a, nil
}

// Text replies with the scripted text or the prompt default.
func (p *Prompter) Text(_ context.Context, tp ports.TextPrompt) (string, error) {
	a, err := p.next(Call{Kind: KindText, Message: tp.Message, Default: tp.Default})
	if err != nil {
		return "", err
	}
	if a.defaults {
		return tp.Default, nil
	}
	return a.text, nil
}

// Password replies with the scripted text; Default means blank.
func (p *Prompter) Password(_ context.Context, message string) (string, error) {
	a, err := p.next(Call{Kind: KindPassword, Message: message})
	if err != nil {
		return "", err
	}
	return a.text, nil
}

// Confirm replies with the scripted boolean or the default.
func (p *Prompter) Confirm(_ context.Context, message string, defaultValue bool) (bool, error) {
	a, err := p.next(Call{Kind: KindConfirm, Message: message, Default: strconv.FormatBool(defaultValue)})
	if err != nil {
		return false, err
	}
	if a.defaults {
		return defaultValue, nil
	}
	return a.yes, nil
}

// Select replies with the scripted value or the default.
func (p *Prompter) Select(_ context.Context, message string, options []ports.Option, defaultValue string) (string, error) {
	a, err := p.next(Call{Kind: KindSelect, Message: message, Default: defaultValue, Options: options})
	if err != nil {
		return "", err
	}
	if a.defaults {
		return defaultValue, nil
	}
	return a.text, nil
}

// MultiSelect replies with the scripted values or the pre-checked options.
func (p *Prompter) MultiSelect(_ context.Context, message, instruction string, options []ports.Option) ([]string, error) {
	a, err := p.next(Call{Kind: KindMultiSelect, Message: message, Instruction: instruction, Options: options})
	if err != nil {
		return nil, err
	}
	if a.defaults {
		var checked []string
		for _, o := range options {
			if o.Checked {
				checked = append(checked, o.Value)
			}
		}
		return checked, nil
	}
	return a.values, nil
}

var _ ports.Prompter = (*Prompter)(nil)
