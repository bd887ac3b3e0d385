package metrics

import (
	coremetrics "github.com/chargesim/chargesim/core/metrics"
	"github.com/chargesim/chargesim/core/profile"
)

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.StepSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.StepSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStep forwards the record to all sinks, returning the first error.
func (m *MultiSink) RecordStep(rec profile.StepRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordStep(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordSession forwards session summaries to the sinks that support them.
func (m *MultiSink) RecordSession(sum profile.SessionSummary) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SessionRecorder); ok {
			if err := rec.RecordSession(sum); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if c, ok := s.(coremetrics.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
