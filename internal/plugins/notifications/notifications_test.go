package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/clawquant/internal/adapters/metrics"
	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
)

type recorder struct {
	err      error
	panics   bool
	texts    []string
	channels []string
}

func (r *recorder) SendText(_ context.Context, text, channelID string) error {
	if r.panics {
		panic("adapter exploded")
	}
	if r.err != nil {
		return r.err
	}
	r.texts = append(r.texts, text)
	r.channels = append(r.channels, channelID)
	return nil
}

// silent is registered as output but cannot send text.
type silent struct{}

func setup(t *testing.T, adapters map[string]any, order ...string) (*Handler, *metrics.Collector) {
	t.Helper()

	reg := registry.New()
	for _, name := range order {
		desc, err := plugin.NewDescriptor(plugin.DescriptorSpec{
			Name: name, Category: "integration", Protocols: []string{"output"},
		}, "")
		require.NoError(t, err)
		_, err = reg.Register(desc, adapters[name])
		require.NoError(t, err)
	}
	reg.Seal()

	collector := metrics.NewCollector()
	return New(registry.Deps{Registry: reg, Metrics: collector}), collector
}

func TestRun_MissingMessage(t *testing.T) {
	t.Parallel()

	out := &recorder{}
	h, _ := setup(t, map[string]any{"console": out}, "console")

	for _, params := range []task.Params{{}, {"message": "   "}, {"message": nil}} {
		res := h.Run(context.Background(), params)
		assert.Equal(t, task.Result{Status: task.StatusError, Message: "Missing required param: message"}, res)
	}
	assert.Empty(t, out.texts, "no adapter contacted")
}

func TestRun_Delivers(t *testing.T) {
	t.Parallel()

	first, second := &recorder{}, &recorder{}
	h, collector := setup(t, map[string]any{"console": first, "telegram": second}, "console", "telegram")

	res := h.Run(context.Background(), task.Params{"message": "  BUY AAPL  ", "channel_id": 42})

	assert.Equal(t, task.StatusSuccess, res.Status)
	assert.Equal(t, "Delivered notification via 2 output adapter(s)", res.Message)
	assert.Equal(t, []string{"BUY AAPL"}, first.texts)
	assert.Equal(t, []string{"42"}, second.channels)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.AdapterDispatches.WithLabelValues("telegram", "success")), 0)
}

func TestRun_PartialFailure(t *testing.T) {
	t.Parallel()

	ok := &recorder{}
	h, collector := setup(t, map[string]any{
		"broken":    &recorder{err: errors.New("timeout")},
		"exploding": &recorder{panics: true},
		"console":   ok,
	}, "broken", "exploding", "console")

	res := h.Run(context.Background(), task.Params{"message": "hi"})

	assert.Equal(t, task.StatusSuccess, res.Status)
	assert.Equal(t, "Delivered notification via 1 output adapter(s)", res.Message)
	assert.Equal(t, []string{"hi"}, ok.texts)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.AdapterDispatches.WithLabelValues("exploding", "failure")), 0)
}

func TestRun_AllAdaptersFail(t *testing.T) {
	t.Parallel()

	h, _ := setup(t, map[string]any{
		"a": &recorder{err: errors.New("down")},
		"b": &recorder{err: errors.New("down")},
	}, "a", "b")

	res := h.Run(context.Background(), task.Params{"message": "hi"})
	assert.Equal(t, task.Result{
		Status:  task.StatusError,
		Message: "No compatible output adapters available for text notifications",
	}, res)
}

func TestRun_NoCompatibleAdapters(t *testing.T) {
	t.Parallel()

	h, _ := setup(t, map[string]any{"mute": silent{}}, "mute")
	res := h.Run(context.Background(), task.Params{"message": "hi"})
	assert.Equal(t, task.StatusError, res.Status)

	empty, _ := setup(t, nil)
	assert.Equal(t, task.StatusError, empty.Run(context.Background(), task.Params{"message": "hi"}).Status)
}

func TestFactory(t *testing.T) {
	t.Parallel()

	instance, err := Factory(context.Background(), registry.Deps{}, nil)
	require.NoError(t, err)
	h, ok := instance.(task.Handler)
	require.True(t, ok)
	assert.Equal(t, "notifications.send", h.Name())
}
