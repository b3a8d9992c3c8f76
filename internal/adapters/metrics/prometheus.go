// Package metrics adapts ports.TaskMetrics to Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Namespace prefixes every metric name.
const Namespace = "clawquant"

// Collector counts task runs and adapter dispatches.
type Collector struct {
	registry *prometheus.Registry

	TaskRuns          *prometheus.CounterVec
	AdapterDispatches *prometheus.CounterVec
}

// NewCollector creates a Collector with its own Prometheus registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		TaskRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "task_runs_total",
			Help:      "Total number of task handler invocations by result status",
		}, []string{"handler", "status"}),
		AdapterDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "adapter_dispatch_total",
			Help:      "Total number of adapter calls made during fan-out",
		}, []string{"adapter", "outcome"}),
	}
	reg.MustRegister(c.TaskRuns, c.AdapterDispatches)
	return c
}

// TaskRun records one handler invocation.
func (c *Collector) TaskRun(handler, status string) {
	c.TaskRuns.WithLabelValues(handler, status).Inc()
}

// AdapterDispatch records one adapter call.
func (c *Collector) AdapterDispatch(adapter string, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	c.AdapterDispatches.WithLabelValues(adapter, outcome).Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var _ ports.TaskMetrics = (*Collector)(nil)
