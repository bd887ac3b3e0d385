package sim

import "github.com/chargesim/chargesim/core/profile"

// StepEvent is published on the event bus after every recorded step.
type StepEvent struct {
	Record profile.StepRecord
}

// SessionEvent is published when a charging process retires.
type SessionEvent struct {
	Summary profile.SessionSummary
}

// RunCompletedEvent is published once after the final step.
type RunCompletedEvent struct {
	RunID string
	Stats profile.Stats
}
