package ports

// TaskMetrics receives counters from task execution. Implementations must be
// safe to call from the task runner and from adapter fan-out loops.
type TaskMetrics interface {
	// TaskRun records one handler invocation and its result status.
	TaskRun(handler, status string)

	// AdapterDispatch records one adapter call made during a fan-out.
	AdapterDispatch(adapter string, ok bool)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

// TaskRun does nothing.
func (NopMetrics) TaskRun(string, string) {}

// AdapterDispatch does nothing.
func (NopMetrics) AdapterDispatch(string, bool) {}

var _ TaskMetrics = NopMetrics{}
