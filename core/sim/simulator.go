// Package sim runs the time-stepped charging simulation: it admits arriving
// vehicles to charging points, asks the installed allocation policy for a
// power assignment each step, advances battery state and records the
// resulting load profile.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chargesim/chargesim/core/logger"
	"github.com/chargesim/chargesim/core/metrics"
	"github.com/chargesim/chargesim/core/model"
	"github.com/chargesim/chargesim/core/profile"
	"github.com/chargesim/chargesim/core/sched"
	"github.com/chargesim/chargesim/core/site"
	"github.com/chargesim/chargesim/internal/eventbus"
)

// ErrInvariantViolation marks a policy bug: an allocation exceeded a hard
// per-process ceiling or the site budget. The run aborts rather than emit an
// inconsistent profile.
var ErrInvariantViolation = errors.New("allocation invariant violated")

const powerEps = 1e-6

// Setup carries everything a run needs. The event slice must be sorted by
// (arrival step, id) ascending; stochastic event generation happens upstream.
type Setup struct {
	Start      time.Time
	End        time.Time
	Resolution time.Duration

	Points   []site.PointConfig
	BudgetKW float64
	// PreloadKW is an optional per-step base load subtracted from the budget
	// before allocation. A shorter series repeats over the horizon.
	PreloadKW   []float64
	QueueLength int
	// ReleaseOnFull frees a charging point as soon as the vehicle reaches its
	// target SoC instead of holding it parked at zero draw.
	ReleaseOnFull bool

	Policy sched.Policy
	Events []model.ChargingEvent
}

// NumSteps returns the number of steps covering [Start, End).
func (s Setup) NumSteps() int {
	return int(s.End.Sub(s.Start) / s.Resolution)
}

// Validate checks the run parameters. Event payloads are validated later, at
// admission, so one malformed event cannot fail the whole run.
func (s Setup) Validate() error {
	if s.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %v", s.Resolution)
	}
	if !s.End.After(s.Start) {
		return fmt.Errorf("end %v must be after start %v", s.End, s.Start)
	}
	if s.BudgetKW <= 0 {
		return fmt.Errorf("site budget must be positive, got %v", s.BudgetKW)
	}
	if s.Policy == nil {
		return fmt.Errorf("an allocation policy is required")
	}
	if len(s.Points) == 0 {
		return fmt.Errorf("at least one charging point is required")
	}
	for i := 1; i < len(s.Events); i++ {
		prev, cur := s.Events[i-1], s.Events[i]
		if cur.ArrivalStep < prev.ArrivalStep ||
			(cur.ArrivalStep == prev.ArrivalStep && cur.ID <= prev.ID) {
			return fmt.Errorf("events must be sorted by (arrival step, id): event %d after %d", cur.ID, prev.ID)
		}
	}
	return nil
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithLogger installs the logger used for per-step diagnostics.
func WithLogger(l logger.Logger) Option { return func(s *Simulator) { s.log = l } }

// WithSink installs the metrics sink receiving step and session records.
func WithSink(sink metrics.StepSink) Option { return func(s *Simulator) { s.sink = sink } }

// WithBus installs an event bus on which step and session events are
// published for live consumers.
func WithBus(bus eventbus.EventBus) Option { return func(s *Simulator) { s.bus = bus } }

// Simulator executes one scenario. It is single-threaded: step t+1 depends on
// the battery and load state left by step t.
type Simulator struct {
	setup Setup
	log   logger.Logger
	sink  metrics.StepSink
	bus   eventbus.EventBus
}

// New validates the setup and prepares a run.
func New(setup Setup, opts ...Option) (*Simulator, error) {
	if err := setup.Validate(); err != nil {
		return nil, fmt.Errorf("invalid setup: %w", err)
	}
	s := &Simulator{setup: setup, log: nopLogger{}, sink: metrics.NopSink{}}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// run bundles the mutable state threaded through the step loop.
type run struct {
	pool   *site.Pool
	queue  *site.Queue
	active []*site.Process
	rec    *profile.Recorder
	res    *Result
}

// Run executes every step in [Start, End) and returns the load profile. The
// context is only observed between steps; there is no mid-step cancellation.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	pool, err := site.NewPool(s.setup.Points)
	if err != nil {
		return nil, err
	}
	steps := s.setup.NumSteps()
	r := &run{
		pool:  pool,
		queue: site.NewQueue(s.setup.QueueLength),
		rec:   profile.NewRecorder(steps),
		res: &Result{
			RunID:      uuid.NewString(),
			Policy:     s.setup.Policy.Name(),
			Start:      s.setup.Start,
			Resolution: s.setup.Resolution,
		},
	}
	r.res.Profile = r.rec

	eventIdx := 0
	for step := 0; step < steps; step++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		s.retireDepartures(r, step)
		eventIdx = s.admit(r, step, eventIdx)
		if err := s.allocateAndCharge(r, step); err != nil {
			return nil, err
		}
	}

	// Horizon reached: retire whatever is still plugged in, charged or not.
	for _, p := range r.active {
		s.retire(r, p, steps)
	}
	r.active = nil
	for {
		ev, ok := r.queue.Pop()
		if !ok {
			break
		}
		r.res.Expired++
		s.log.Warnf("event %d still queued when the run ended", ev.ID)
	}
	if s.bus != nil {
		s.bus.Publish(RunCompletedEvent{RunID: r.res.RunID, Stats: r.rec.Stats()})
	}
	return r.res, nil
}

// retireDepartures removes processes whose parking time has elapsed. Their
// final SoC is recorded whether or not the target was reached.
func (s *Simulator) retireDepartures(r *run, step int) {
	kept := r.active[:0]
	for _, p := range r.active {
		if p.RemainingSteps <= 0 {
			s.retire(r, p, step)
			continue
		}
		kept = append(kept, p)
	}
	r.active = kept
}

// retire releases the process's point and records its session summary.
func (s *Simulator) retire(r *run, p *site.Process, step int) {
	if err := r.pool.Release(p.Point); err != nil {
		// Unreachable unless the registry and pool disagree.
		s.log.Errorf("release point %d: %v", p.Point, err)
	}
	summary := profile.SessionSummary{
		EventID:       p.Event.ID,
		Vehicle:       p.Event.Vehicle.Label(),
		PointID:       r.pool.Point(p.Point).ID,
		AdmittedStep:  p.AdmittedStep,
		DepartedStep:  step,
		CapacityKWh:   p.Event.Vehicle.Battery.CapacityKWh,
		InitialSoC:    p.Event.SoC,
		FinalSoC:      p.SoC,
		TargetSoC:     p.Event.TargetSoC,
		EnergyKWh:     p.EnergyKWh,
		TargetReached: p.TargetReached(),
	}
	r.rec.AddSession(summary)
	if rec, ok := s.sink.(metrics.SessionRecorder); ok {
		if err := rec.RecordSession(summary); err != nil {
			s.log.Warnf("record session %d: %v", summary.EventID, err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(SessionEvent{Summary: summary})
	}
	s.log.Debugw("session retired", map[string]any{
		"event":          summary.EventID,
		"point":          summary.PointID,
		"final_soc":      summary.FinalSoC,
		"target_reached": summary.TargetReached,
	})
}

// admit drops expired queue entries, then binds waiting and newly arriving
// events to free points in (arrival step, id) order. Release in
// retireDepartures happens strictly before admission, so a point freed this
// step is immediately reusable here.
func (s *Simulator) admit(r *run, step, eventIdx int) int {
	for _, ev := range r.queue.ExpireBefore(step) {
		r.res.Expired++
		s.log.Warnf("event %d left the queue uncharged: parking time elapsed at step %d", ev.ID, step)
	}

	for {
		idx, free := r.pool.Free()
		if !free {
			break
		}
		ev, ok := r.queue.Pop()
		if !ok {
			break
		}
		s.bind(r, ev, idx, step)
	}

	for eventIdx < len(s.setup.Events) && s.setup.Events[eventIdx].ArrivalStep <= step {
		ev := s.setup.Events[eventIdx]
		eventIdx++
		if err := ev.Validate(); err != nil {
			r.res.Rejections++
			s.log.Warnf("rejected malformed event: %v", err)
			continue
		}
		if idx, free := r.pool.Free(); free {
			s.bind(r, ev, idx, step)
			continue
		}
		if r.queue.Push(ev) {
			s.log.Debugf("event %d queued at step %d", ev.ID, step)
			continue
		}
		r.res.Rejections++
		s.log.Warnf("rejected event %d at step %d: no free point and queue full", ev.ID, step)
	}
	return eventIdx
}

func (s *Simulator) bind(r *run, ev model.ChargingEvent, idx, step int) {
	p := site.NewProcess(ev, step)
	if err := r.pool.Bind(idx, p); err != nil {
		// Unreachable: idx came from Free this same pass.
		s.log.Errorf("bind event %d: %v", ev.ID, err)
		return
	}
	r.active = append(r.active, p)
	s.log.Debugf("event %d connected to %s at step %d", ev.ID, r.pool.Point(idx).ID, step)
}

// budgetAt returns the allocatable power for the step after subtracting the
// site preload.
func (s *Simulator) budgetAt(step int) float64 {
	budget := s.setup.BudgetKW
	if n := len(s.setup.PreloadKW); n > 0 {
		budget -= s.setup.PreloadKW[step%n]
	}
	if budget < 0 {
		return 0
	}
	return budget
}

// allocateAndCharge runs the policy for the step, verifies its invariants,
// advances every battery and appends the step record.
func (s *Simulator) allocateAndCharge(r *run, step int) error {
	budget := s.budgetAt(step)
	reqs := make([]sched.Request, len(r.active))
	for i, p := range r.active {
		point := r.pool.Point(p.Point)
		bat := p.Event.Vehicle.Battery
		maxKW := bat.MaxPowerPossible(p.SoC)
		if point.MaxPowerKW < maxKW {
			maxKW = point.MaxPowerKW
		}
		minKW := bat.MinChargeKW
		if point.MinPowerKW > minKW {
			minKW = point.MinPowerKW
		}
		reqs[i] = sched.Request{
			EventID:        p.Event.ID,
			ArrivalStep:    p.Event.ArrivalStep,
			RemainingSteps: p.RemainingSteps,
			MaxPowerKW:     maxKW,
			MinPowerKW:     minKW,
			NeedKW:         p.NeedKW(s.setup.Resolution),
		}
	}

	alloc := s.setup.Policy.Allocate(reqs, budget)
	if err := checkAllocation(s.setup.Policy.Name(), step, reqs, alloc, budget); err != nil {
		return err
	}

	perPoint := make([]float64, r.pool.Size())
	var aggregate float64
	kept := r.active[:0]
	for i, p := range r.active {
		actual := p.ApplyPower(alloc[i], s.setup.Resolution)
		perPoint[p.Point] = actual
		aggregate += actual
		if s.setup.ReleaseOnFull && p.TargetReached() {
			s.retire(r, p, step+1)
			continue
		}
		kept = append(kept, p)
	}
	r.active = kept

	rec := profile.StepRecord{
		Step:        step,
		Time:        s.setup.Start.Add(time.Duration(step) * s.setup.Resolution),
		AggregateKW: aggregate,
		PerPointKW:  perPoint,
		EnergyKWh:   aggregate * s.setup.Resolution.Hours(),
		Active:      len(r.active),
		Queued:      r.queue.Len(),
	}
	r.rec.Append(rec)
	if err := s.sink.RecordStep(rec); err != nil {
		s.log.Warnf("record step %d: %v", step, err)
	}
	if s.bus != nil {
		s.bus.Publish(StepEvent{Record: rec})
	}
	return nil
}

// checkAllocation enforces the hard allocation invariants defensively. A
// violation is a policy bug, not an input problem, so the run aborts.
func checkAllocation(policy string, step int, reqs []sched.Request, alloc []float64, budget float64) error {
	if len(alloc) != len(reqs) {
		return fmt.Errorf("%w: policy %s returned %d allocations for %d requests at step %d",
			ErrInvariantViolation, policy, len(alloc), len(reqs), step)
	}
	var sum float64
	for i, a := range alloc {
		if a < -powerEps {
			return fmt.Errorf("%w: policy %s assigned negative power %v at step %d",
				ErrInvariantViolation, policy, a, step)
		}
		if a > reqs[i].MaxPowerKW+powerEps {
			return fmt.Errorf("%w: policy %s assigned %v kW above the %v kW ceiling of event %d at step %d",
				ErrInvariantViolation, policy, a, reqs[i].MaxPowerKW, reqs[i].EventID, step)
		}
		sum += a
	}
	if sum > budget+powerEps {
		return fmt.Errorf("%w: policy %s assigned %v kW against a %v kW budget at step %d",
			ErrInvariantViolation, policy, sum, budget, step)
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
