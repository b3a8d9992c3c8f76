// Package registry holds the live plugin instances of a running process and
// dispatches to them by capability.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
)

// Capability is a dispatch tag, independent of the plugin's category.
type Capability string

// Known capabilities.
const (
	CapabilityTaskHandler Capability = "task_handler"
	CapabilityOutput      Capability = "output"
	CapabilityTool        Capability = "tool"
)

// Sentinel errors.
var (
	// ErrSealed indicates Register was called after start-of-day.
	ErrSealed = errors.New("registry is sealed")
	// ErrNilInstance indicates a nil plugin instance was registered.
	ErrNilInstance = errors.New("plugin instance cannot be nil")
	// ErrNotApplicable indicates no tool provider owns the requested tool.
	ErrNotApplicable = errors.New("tool not applicable")
)

// TextSender is implemented by output adapters that deliver plain text.
// An empty channelID selects the adapter's configured default.
type TextSender interface {
	SendText(ctx context.Context, text, channelID string) error
}

// Tool describes one callable tool to an AI-driven caller.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolProvider exposes tools. CallTool returns ok=false when name is not one
// of its tools. Failures are reported in the returned text, never as errors.
type ToolProvider interface {
	Tools() []Tool
	CallTool(ctx context.Context, name string, args map[string]any) (text string, ok bool)
}

// Entry is one registered instance with its capability set.
type Entry struct {
	Name         string
	Category     plugin.Category
	Capabilities []Capability
	Instance     any
}

// Has reports whether the entry carries capability c.
func (e Entry) Has(c Capability) bool {
	for _, have := range e.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Registry owns the plugin instances of the process. It is filled once at
// start-up, then sealed and read concurrently.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	byName  map[string]int
	sealed  bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds an instance for desc. Capabilities are the descriptor's
// protocols plus those implied by the interfaces the instance implements.
func (r *Registry) Register(desc plugin.Descriptor, instance any) (Entry, error) {
	if instance == nil {
		return Entry{}, ErrNilInstance
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return Entry{}, ErrSealed
	}
	if _, ok := r.byName[desc.Name()]; ok {
		return Entry{}, &plugin.PluginExistsError{Name: desc.Name()}
	}

	entry := Entry{
		Name:         desc.Name(),
		Category:     desc.Category(),
		Capabilities: capabilitiesOf(desc, instance),
		Instance:     instance,
	}
	r.byName[entry.Name] = len(r.entries)
	r.entries = append(r.entries, entry)
	return entry, nil
}

func capabilitiesOf(desc plugin.Descriptor, instance any) []Capability {
	set := make(map[Capability]bool)
	for _, p := range desc.Protocols() {
		set[Capability(p)] = true
	}
	if _, ok := instance.(task.Handler); ok {
		set[CapabilityTaskHandler] = true
	}
	if _, ok := instance.(TextSender); ok {
		set[CapabilityOutput] = true
	}
	if _, ok := instance.(ToolProvider); ok {
		set[CapabilityTool] = true
	}

	caps := make([]Capability, 0, len(set))
	for c := range set {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// Seal rejects further registrations.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// GetAll returns every entry with capability c in registration order. An
// empty result is not an error.
func (r *Registry) GetAll(c Capability) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if e.Has(c) {
			out = append(out, e)
		}
	}
	return out
}

// ByCategory returns every entry of one category in registration order.
func (r *Registry) ByCategory(cat plugin.Category) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.entries {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Entry(nil), r.entries...)
}

// Handler returns the task handler whose Name is name, falling back to the
// plugin registered under name.
func (r *Registry) Handler(name string) (task.Handler, error) {
	if h, ok := r.Handlers()[name]; ok {
		return h, nil
	}
	e, ok := r.Get(name)
	if !ok {
		return nil, &plugin.NotFoundError{Name: name}
	}
	h, ok := e.Instance.(task.Handler)
	if !ok {
		return nil, fmt.Errorf("plugin %q is not a task handler", name)
	}
	return h, nil
}

// Handlers returns every task handler keyed by its Name, which may differ
// from the plugin name.
func (r *Registry) Handlers() map[string]task.Handler {
	out := make(map[string]task.Handler)
	for _, e := range r.GetAll(CapabilityTaskHandler) {
		if h, ok := e.Instance.(task.Handler); ok {
			out[h.Name()] = h
		}
	}
	return out
}

// Tools lists the tools of every tool provider in registration order.
func (r *Registry) Tools() []Tool {
	var out []Tool
	for _, e := range r.GetAll(CapabilityTool) {
		if p, ok := e.Instance.(ToolProvider); ok {
			out = append(out, p.Tools()...)
		}
	}
	return out
}

// CallTool asks each tool provider in turn and returns the first applicable
// answer. It returns ErrNotApplicable when no provider owns the tool.
func (r *Registry) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	for _, e := range r.GetAll(CapabilityTool) {
		p, ok := e.Instance.(ToolProvider)
		if !ok {
			continue
		}
		if text, ok := p.CallTool(ctx, name, args); ok {
			return text, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotApplicable, name)
}
