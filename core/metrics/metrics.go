// Package metrics defines the observability contract of the simulator. The
// core records through the StepSink interface only; concrete sinks
// (Prometheus, InfluxDB, fan-out) live under infra/metrics.
package metrics

import "github.com/chargesim/chargesim/core/profile"

// StepSink receives one record per simulated step.
type StepSink interface {
	RecordStep(rec profile.StepRecord) error
}

// SessionRecorder receives a summary whenever a charging process retires.
// Sinks implement it optionally; fan-out checks with a type assertion.
type SessionRecorder interface {
	RecordSession(s profile.SessionSummary) error
}

// Closer releases sink resources at the end of a run.
type Closer interface {
	Close() error
}

// NopSink discards every record.
type NopSink struct{}

// RecordStep implements StepSink.
func (NopSink) RecordStep(profile.StepRecord) error { return nil }

// RecordSession implements SessionRecorder.
func (NopSink) RecordSession(profile.SessionSummary) error { return nil }
