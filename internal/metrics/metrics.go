// Package metrics records operational counters for ingestion runs through a
// pluggable backend. The default backend is a no-op, so recording calls are
// always safe when nothing is configured and must never affect row outcomes.
// Process memory readings for the run report live in the procmem subpackage.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives the recorded values. Implementations must be safe for
// concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// RecordRow adds to the per-run row counter for one disposition kind. The
// kinds mirror the run result fields: "seen", "inserted", "skipped" and
// "duplicate". Zero and negative deltas are dropped.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("ingest_rows_total", float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordRun records the duration and success/failure of one whole run.
func RecordRun(job string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "status": status}
	backend.IncCounter("ingest_runs_total", 1, lbls)
	backend.ObserveHistogram("ingest_run_duration_seconds", d.Seconds(), lbls)
}
