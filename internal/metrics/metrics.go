// Package metrics defines the minimal metrics surface the pipeline emits to.
//
// The pipeline depends only on this package; concrete backends (Datadog) live
// in sub-packages and are selected at startup. The default backend is a nop,
// so library code can emit unconditionally.
package metrics

import "sync"

// Labels are free-form tag key/values attached to a metric observation.
type Labels map[string]string

// Metric names emitted by the pipeline.
const (
	// RecordsTotal counts records by label "kind"
	// (extracted, classified, persisted).
	RecordsTotal = "binday_records_total"

	// StepsTotal counts pipeline steps by labels "step" and "status".
	StepsTotal = "binday_steps_total"

	// StepDurationSeconds observes per-step wall time by labels
	// "step" and "status".
	StepDurationSeconds = "binday_step_duration_seconds"
)

// Backend is implemented by metric sinks.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)

	// Flush submits buffered observations. May be a no-op.
	Flush() error

	// Close stops background work and performs a final flush.
	Close() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error { return nil }
func (nopBackend) Close() error { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the process-wide metrics backend. Call once at startup
// before the pipeline runs.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// IncCounter increments a counter on the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	current().IncCounter(name, delta, labels)
}

// ObserveHistogram records a histogram sample on the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	current().ObserveHistogram(name, value, labels)
}

// Flush flushes the installed backend.
func Flush() error { return current().Flush() }

// Close closes the installed backend.
func Close() error { return current().Close() }
