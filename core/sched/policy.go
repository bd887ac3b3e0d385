package sched

import "math"

// Request is the per-process view an allocation policy works with. It carries
// only what a step needs: the limits, the remaining demand and the admission
// order key. Policies never see the underlying process and keep no state
// between calls.
type Request struct {
	// EventID breaks ties between requests with the same arrival step.
	EventID     int64
	ArrivalStep int
	// RemainingSteps until the vehicle departs; used by urgency weighting.
	RemainingSteps int

	// MaxPowerKW is min(vehicle max power at current SoC, point ceiling).
	MaxPowerKW float64
	// MinPowerKW is the lowest useful power; an offer below it becomes zero.
	MinPowerKW float64
	// NeedKW is the grid-side power that would reach the target SoC within
	// this step. Zero for vehicles parked at target.
	NeedKW float64
}

// CapKW returns the most this request can usefully receive this step.
func (r Request) CapKW() float64 {
	return math.Min(r.MaxPowerKW, r.NeedKW)
}

// Policy assigns power to the currently active processes for one step. The
// returned slice is aligned with reqs. Implementations must be pure per-step
// functions: every allocation a[i] satisfies 0 <= a[i] <= reqs[i].CapKW() and
// the sum never exceeds budgetKW. The simulation loop re-checks both bounds
// and aborts the run on a violation.
type Policy interface {
	Name() string
	Allocate(reqs []Request, budgetKW float64) []float64
}

// applyMinPower zeroes offers below the request's minimum useful power.
func applyMinPower(reqs []Request, alloc []float64) {
	for i, r := range reqs {
		if r.MinPowerKW > 0 && alloc[i] < r.MinPowerKW {
			alloc[i] = 0
		}
	}
}
