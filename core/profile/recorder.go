// Package profile accumulates the simulation output: the per-step load
// profile and the per-session summaries handed to the reporting layer.
package profile

import "time"

// StepRecord captures the site state for one simulation step. Energy is
// derived as power times step duration.
type StepRecord struct {
	Step        int       `json:"step"`
	Time        time.Time `json:"time"`
	AggregateKW float64   `json:"aggregate_kw"`
	PerPointKW  []float64 `json:"per_point_kw"`
	EnergyKWh   float64   `json:"energy_kwh"`
	Active      int       `json:"active"`
	Queued      int       `json:"queued"`
}

// SessionSummary describes one finished (or force-retired) charging process.
type SessionSummary struct {
	EventID       int64   `json:"event_id"`
	Vehicle       string  `json:"vehicle"`
	PointID       string  `json:"point_id"`
	AdmittedStep  int     `json:"admitted_step"`
	DepartedStep  int     `json:"departed_step"`
	CapacityKWh   float64 `json:"capacity_kwh"`
	InitialSoC    float64 `json:"initial_soc"`
	FinalSoC      float64 `json:"final_soc"`
	TargetSoC     float64 `json:"target_soc"`
	EnergyKWh     float64 `json:"energy_kwh"`
	TargetReached bool    `json:"target_reached"`
}

// Recorder is the append-only accumulator for a single run. Past records are
// never rewritten; one step record is appended per simulated step.
type Recorder struct {
	steps    []StepRecord
	sessions []SessionSummary
}

// NewRecorder creates an empty recorder, optionally pre-sizing for the
// expected number of steps.
func NewRecorder(expectedSteps int) *Recorder {
	if expectedSteps < 0 {
		expectedSteps = 0
	}
	return &Recorder{steps: make([]StepRecord, 0, expectedSteps)}
}

// Append adds the record for the next step.
func (r *Recorder) Append(rec StepRecord) {
	r.steps = append(r.steps, rec)
}

// AddSession records a finished charging process.
func (r *Recorder) AddSession(s SessionSummary) {
	r.sessions = append(r.sessions, s)
}

// Steps returns the recorded load profile in step order.
func (r *Recorder) Steps() []StepRecord { return r.steps }

// Sessions returns the per-process summaries in retirement order.
func (r *Recorder) Sessions() []SessionSummary { return r.sessions }

// TotalEnergyKWh returns the energy delivered over the whole run.
func (r *Recorder) TotalEnergyKWh() float64 {
	var total float64
	for _, s := range r.steps {
		total += s.EnergyKWh
	}
	return total
}
