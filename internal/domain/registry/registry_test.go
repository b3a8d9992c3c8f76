package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
)

func descriptor(t *testing.T, name string, cat plugin.Category, protocols ...string) plugin.Descriptor {
	t.Helper()
	d, err := plugin.NewDescriptor(plugin.DescriptorSpec{
		Name:      name,
		Category:  string(cat),
		Protocols: protocols,
	}, "")
	require.NoError(t, err)
	return d
}

type sender struct {
	name string
	err  error
	sent []string
}

func (s *sender) SendText(_ context.Context, text, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

type handler struct{ name string }

func (h handler) Name() string { return h.name }
func (h handler) Run(context.Context, task.Params) task.Result {
	return task.Success("ran %s", h.name)
}

type toolbox struct{}

func (toolbox) Tools() []Tool { return []Tool{{Name: "echo", Description: "echo back"}} }
func (toolbox) CallTool(_ context.Context, name string, args map[string]any) (string, bool) {
	if name != "echo" {
		return "", false
	}
	return strings.TrimSpace(args["text"].(string)), true
}

func TestRegistry_RegisterCapabilities(t *testing.T) {
	t.Parallel()

	r := New()

	e, err := r.Register(descriptor(t, "telegram", plugin.CategoryIntegration), &sender{})
	require.NoError(t, err)
	assert.Equal(t, []Capability{CapabilityOutput}, e.Capabilities)

	e, err = r.Register(descriptor(t, "web_search", plugin.CategoryTaskHandler, "task_handler"), struct {
		handler
		toolbox
	}{handler: handler{name: "web.search"}})
	require.NoError(t, err)
	assert.Equal(t, []Capability{CapabilityTaskHandler, CapabilityTool}, e.Capabilities)

	e, err = r.Register(descriptor(t, "declared", plugin.CategoryAgent, "output"), struct{}{})
	require.NoError(t, err)
	assert.True(t, e.Has(CapabilityOutput), "declared protocols are kept")
	assert.False(t, e.Has(CapabilityTool))
}

func TestRegistry_RegisterErrors(t *testing.T) {
	t.Parallel()

	r := New()
	d := descriptor(t, "console", plugin.CategoryIntegration)

	_, err := r.Register(d, nil)
	assert.ErrorIs(t, err, ErrNilInstance)

	_, err = r.Register(d, &sender{})
	require.NoError(t, err)
	_, err = r.Register(d, &sender{})
	assert.True(t, plugin.IsPluginExists(err))

	r.Seal()
	assert.True(t, r.Sealed())
	_, err = r.Register(descriptor(t, "late", plugin.CategoryIntegration), &sender{})
	assert.ErrorIs(t, err, ErrSealed)
}

func TestRegistry_GetAll(t *testing.T) {
	t.Parallel()

	r := New()
	for _, name := range []string{"c", "a", "b"} {
		_, err := r.Register(descriptor(t, name, plugin.CategoryIntegration), &sender{name: name})
		require.NoError(t, err)
	}
	_, err := r.Register(descriptor(t, "h", plugin.CategoryTaskHandler), handler{name: "h.run"})
	require.NoError(t, err)

	var names []string
	for _, e := range r.GetAll(CapabilityOutput) {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names, "registration order")
	assert.Empty(t, r.GetAll(CapabilityTool))
	assert.Len(t, r.ByCategory(plugin.CategoryIntegration), 3)
	assert.Len(t, r.Entries(), 4)

	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("zzz")
	assert.False(t, ok)
}

func TestRegistry_Handler(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.Register(descriptor(t, "notifications", plugin.CategoryTaskHandler), handler{name: "notifications.send"})
	require.NoError(t, err)
	_, err = r.Register(descriptor(t, "console", plugin.CategoryIntegration), &sender{})
	require.NoError(t, err)

	h, err := r.Handler("notifications.send")
	require.NoError(t, err)
	assert.Equal(t, "notifications.send", h.Name())

	h, err = r.Handler("notifications")
	require.NoError(t, err, "plugin name also resolves")
	assert.Equal(t, "notifications.send", h.Name())

	_, err = r.Handler("console")
	assert.Error(t, err)

	_, err = r.Handler("missing")
	assert.True(t, plugin.IsNotFound(err))

	assert.Len(t, r.Handlers(), 1)
}

func TestRegistry_CallTool(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.Register(descriptor(t, "tools", plugin.CategoryTaskHandler), toolbox{})
	require.NoError(t, err)

	out, err := r.CallTool(context.Background(), "echo", map[string]any{"text": " hi "})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	_, err = r.CallTool(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrNotApplicable)

	tools := r.Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0].Name)
}

type recordingMetrics struct {
	dispatches map[string][]bool
}

func (m *recordingMetrics) TaskRun(string, string) {}
func (m *recordingMetrics) AdapterDispatch(adapter string, ok bool) {
	if m.dispatches == nil {
		m.dispatches = map[string][]bool{}
	}
	m.dispatches[adapter] = append(m.dispatches[adapter], ok)
}

type panicker struct{}

func (panicker) SendText(context.Context, string, string) error { panic("adapter exploded") }

func TestFanOut_IsolatesFailures(t *testing.T) {
	t.Parallel()

	r := New()
	good := &sender{}
	_, err := r.Register(descriptor(t, "bad", plugin.CategoryIntegration), &sender{err: errors.New("down")})
	require.NoError(t, err)
	_, err = r.Register(descriptor(t, "boom", plugin.CategoryIntegration), panicker{})
	require.NoError(t, err)
	_, err = r.Register(descriptor(t, "good", plugin.CategoryIntegration), good)
	require.NoError(t, err)
	_, err = r.Register(descriptor(t, "declared-only", plugin.CategoryIntegration, "output"), struct{}{})
	require.NoError(t, err)

	metrics := &recordingMetrics{}
	report := FanOut(context.Background(), Deps{Registry: r, Metrics: metrics}, CapabilityOutput,
		func(ctx context.Context, s TextSender) error { return s.SendText(ctx, "hello", "") })

	assert.Equal(t, 3, report.Attempted, "instances without the method are skipped")
	assert.Equal(t, 1, report.Succeeded)
	assert.True(t, report.AnySucceeded())
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "bad", report.Failures[0].Adapter)
	assert.Equal(t, "boom", report.Failures[1].Adapter)
	assert.Contains(t, report.Failures[1].Err.Error(), "adapter exploded")
	assert.Equal(t, []string{"hello"}, good.sent)
	assert.Equal(t, []bool{false}, metrics.dispatches["bad"])
	assert.Equal(t, []bool{true}, metrics.dispatches["good"])
}

func TestFanOut_NilRegistry(t *testing.T) {
	t.Parallel()

	report := FanOut(context.Background(), Deps{}, CapabilityOutput,
		func(context.Context, TextSender) error { return nil })
	assert.Equal(t, FanOutReport{}, report)
}
