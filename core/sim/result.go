package sim

import (
	"time"

	"github.com/chargesim/chargesim/core/profile"
)

// Result is the complete outcome of one run. It is only returned for runs
// that finished every step; an aborted run yields an error and no partial
// profile.
type Result struct {
	// RunID uniquely identifies the run in exports and metrics.
	RunID      string
	Policy     string
	Start      time.Time
	Resolution time.Duration

	Profile *profile.Recorder

	// Rejections counts arrivals that found neither a free point nor queue
	// space, plus malformed events refused at admission.
	Rejections int
	// Expired counts queued vehicles whose parking time ran out before a
	// point became free.
	Expired int
}

// Stats returns aggregate statistics of the recorded profile.
func (r *Result) Stats() profile.Stats { return r.Profile.Stats() }
