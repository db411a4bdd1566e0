// Package metrics is a small, backend-agnostic abstraction for recording
// operational metrics from the import pipeline. The global backend defaults
// to a no-op implementation so instrumentation calls are always safe; a real
// backend can be installed at startup without touching phase code.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b != nil {
		backend = b
	}
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordPhase measures latency plus success/failure for one phase invocation
// over one source file.
func RecordPhase(source, phase string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"source": source, "phase": phase, "status": status}
	backend.IncCounter("import_phase_total", 1, lbls)
	backend.ObserveHistogram("import_phase_duration_seconds", d.Seconds(), lbls)
}

// RecordEntities bumps the per-kind entity counter ("created", "updated",
// "skipped", "errored", ...).
func RecordEntities(source, kind, outcome string, delta int) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("import_entities_total", float64(delta), Labels{
		"source":  source,
		"kind":    kind,
		"outcome": outcome,
	})
}
