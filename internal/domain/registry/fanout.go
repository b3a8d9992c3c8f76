package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Deps are the collaborators handed to plugin factories and used by
// FanOut. Zero values are replaced by no-op implementations.
type Deps struct {
	Registry   *Registry
	Logger     ports.Logger
	Metrics    ports.TaskMetrics
	HTTPClient *http.Client
	Out        io.Writer
}

// logger falls back to the context logger, then to discarding output.
func (d Deps) logger(ctx context.Context) ports.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	if l := ports.LoggerFromContext(ctx); l != nil {
		return l
	}
	return ports.DiscardLogger{}
}

func (d Deps) metrics() ports.TaskMetrics {
	if d.Metrics == nil {
		return ports.NopMetrics{}
	}
	return d.Metrics
}

// AdapterFailure records one adapter that failed during a fan-out.
type AdapterFailure struct {
	Adapter string
	Err     error
}

// FanOutReport summarizes one fan-out.
type FanOutReport struct {
	// Attempted counts entries that implement the target interface.
	Attempted int
	Succeeded int
	Failures  []AdapterFailure
}

// AnySucceeded reports whether at least one adapter succeeded.
func (r FanOutReport) AnySucceeded() bool {
	return r.Succeeded > 0
}

// FanOut calls fn once for every entry under capability whose instance
// implements T, in registration order, one at a time. An error or panic
// from one adapter is logged with the adapter name and counted; the loop
// always continues with the next adapter.
func FanOut[T any](ctx context.Context, deps Deps, capability Capability, fn func(context.Context, T) error) FanOutReport {
	var report FanOutReport
	if deps.Registry == nil {
		return report
	}
	logger := deps.logger(ctx)
	metrics := deps.metrics()

	for _, entry := range deps.Registry.GetAll(capability) {
		target, ok := entry.Instance.(T)
		if !ok {
			continue
		}
		report.Attempted++

		err := invoke(ctx, target, fn)
		metrics.AdapterDispatch(entry.Name, err == nil)
		if err != nil {
			logger.Error(ctx, "adapter dispatch failed",
				ports.F("adapter", entry.Name),
				ports.F("capability", string(capability)),
				ports.Err(err),
			)
			report.Failures = append(report.Failures, AdapterFailure{Adapter: entry.Name, Err: err})
			continue
		}
		report.Succeeded++
	}

	return report
}

func invoke[T any](ctx context.Context, target T, fn func(context.Context, T) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, target)
}
