package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Runtime dispatches tasks and tool calls to a sealed plugin registry.
type Runtime struct {
	registry *registry.Registry
	logger   ports.Logger
	metrics  ports.TaskMetrics
	newID    func() string
}

// NewRuntime creates a runtime over reg. Nil logger and metrics are
// replaced by no-ops.
func NewRuntime(reg *registry.Registry, logger ports.Logger, metrics ports.TaskMetrics) *Runtime {
	if logger == nil {
		logger = ports.DiscardLogger{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Runtime{
		registry: reg,
		logger:   logger,
		metrics:  metrics,
		newID:    uuid.NewString,
	}
}

// Registry returns the underlying registry.
func (r *Runtime) Registry() *registry.Registry { return r.registry }

// RunTask runs the handler registered as name. Each invocation gets its own
// ID, carried by the logger placed on the handler's context. An unknown
// handler yields an error result rather than a Go error.
func (r *Runtime) RunTask(ctx context.Context, name string, params task.Params) task.Result {
	logger := r.logger.With(
		ports.F("invocation_id", r.newID()),
		ports.F("handler", name),
	)
	ctx = ports.ContextWithLogger(ctx, logger)

	h, err := r.registry.Handler(name)
	if err != nil {
		logger.Warn(ctx, "unknown task handler", ports.Err(err))
		r.metrics.TaskRun(name, string(task.StatusError))
		return task.Failure("Unknown task handler: %s", name)
	}

	start := time.Now()
	result := h.Run(ctx, params)
	r.metrics.TaskRun(h.Name(), string(result.Status))

	fields := []ports.Field{
		ports.F("status", string(result.Status)),
		ports.F("duration", time.Since(start).String()),
	}
	if result.OK() {
		logger.Info(ctx, "task finished", fields...)
	} else {
		logger.Warn(ctx, "task failed", append(fields, ports.F("message", result.Message))...)
	}
	return result
}

// Tools lists every tool offered by the enabled plugins.
func (r *Runtime) Tools() []registry.Tool {
	return r.registry.Tools()
}

// CallTool runs a tool by name. It returns registry.ErrNotApplicable when no
// plugin offers the tool.
func (r *Runtime) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	logger := r.logger.With(
		ports.F("invocation_id", r.newID()),
		ports.F("tool", name),
	)
	ctx = ports.ContextWithLogger(ctx, logger)

	text, err := r.registry.CallTool(ctx, name, args)
	if err != nil {
		logger.Warn(ctx, "tool call failed", ports.Err(err))
		return "", err
	}
	logger.Debug(ctx, "tool call finished")
	return text, nil
}
