package config

import (
	"fmt"
	"time"

	"github.com/chargesim/chargesim/core/model"
	"github.com/chargesim/chargesim/core/site"
)

// SimulationConfig defines the run window and the allocation policy.
type SimulationConfig struct {
	// Start and End bound the simulated period [start, end), RFC 3339.
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
	// Resolution is the step duration in Go duration syntax, e.g. "15m".
	Resolution string `json:"resolution" yaml:"resolution"`
	// Policy selects the allocation strategy: uncontrolled, fcfs,
	// equal_share or optimized.
	Policy string `json:"policy" yaml:"policy"`
	// ReleaseOnFull frees a charging point as soon as the target SoC is
	// reached instead of blocking it until the scheduled departure.
	ReleaseOnFull bool `json:"release_on_full" yaml:"release_on_full"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.Resolution == "" {
		c.Resolution = "1h"
	}
	if c.Policy == "" {
		c.Policy = "uncontrolled"
	}
}

// Window parses the simulation period.
func (c SimulationConfig) Window() (start, end time.Time, res time.Duration, err error) {
	start, err = time.Parse(time.RFC3339, c.Start)
	if err != nil {
		return start, end, res, fmt.Errorf("parse start: %w", err)
	}
	end, err = time.Parse(time.RFC3339, c.End)
	if err != nil {
		return start, end, res, fmt.Errorf("parse end: %w", err)
	}
	res, err = time.ParseDuration(c.Resolution)
	if err != nil {
		return start, end, res, fmt.Errorf("parse resolution: %w", err)
	}
	return start, end, res, nil
}

// Validate checks the window and resolution.
func (c SimulationConfig) Validate() error {
	start, end, res, err := c.Window()
	if err != nil {
		return err
	}
	if res <= 0 {
		return fmt.Errorf("resolution must be positive, got %v", res)
	}
	if !end.After(start) {
		return fmt.Errorf("end %v must be after start %v", end, start)
	}
	return nil
}

// SiteConfig describes the charging infrastructure of the site.
type SiteConfig struct {
	// BudgetKW is the aggregate power ceiling shared by all points, i.e. the
	// grid connection or transformer limit.
	BudgetKW float64 `json:"budget_kw" yaml:"budget_kw"`
	// QueueLength bounds how many vehicles may wait for a free point; 0
	// disables the queue.
	QueueLength int `json:"queue_length" yaml:"queue_length"`
	// PreloadKW is an optional per-step base load already on the connection;
	// a shorter series repeats over the simulated period.
	PreloadKW []float64          `json:"preload_kw" yaml:"preload_kw"`
	Points    []site.PointConfig `json:"points" yaml:"points"`
}

// Validate checks the site limits.
func (c SiteConfig) Validate() error {
	if c.BudgetKW <= 0 {
		return fmt.Errorf("site budget must be positive, got %v", c.BudgetKW)
	}
	if c.QueueLength < 0 {
		return fmt.Errorf("queue length must be non-negative, got %d", c.QueueLength)
	}
	if len(c.Points) == 0 {
		return fmt.Errorf("at least one charging point is required")
	}
	for _, p := range c.Points {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	for _, v := range c.PreloadKW {
		if v < 0 {
			return fmt.Errorf("preload values must be non-negative, got %v", v)
		}
	}
	return nil
}

// VehicleTypeConfig names a vehicle type referenced by events.
type VehicleTypeConfig struct {
	Name    string        `json:"name" yaml:"name"`
	Brand   string        `json:"brand" yaml:"brand"`
	Model   string        `json:"model" yaml:"model"`
	Battery model.Battery `json:"battery" yaml:"battery"`
}

// EventConfig is one pre-sampled charging event. Event generation from
// statistical distributions happens outside this tool; scenarios carry the
// realised visits.
type EventConfig struct {
	ArrivalStep  int     `json:"arrival_step" yaml:"arrival_step"`
	ParkingSteps int     `json:"parking_steps" yaml:"parking_steps"`
	SoC          float64 `json:"soc" yaml:"soc"`
	TargetSoC    float64 `json:"target_soc" yaml:"target_soc"`
	VehicleType  string  `json:"vehicle_type" yaml:"vehicle_type"`
}

// Events resolves the configured events against the vehicle type catalogue
// and assigns ids in input order. Events must be listed by ascending arrival
// step; semantic validation of each event happens at admission time.
func (c *Config) Events() ([]model.ChargingEvent, error) {
	types := make(map[string]model.VehicleType, len(c.VehicleTypes))
	for _, vt := range c.VehicleTypes {
		bat := vt.Battery
		bat.SetDefaults()
		types[vt.Name] = model.VehicleType{Brand: vt.Brand, Model: vt.Model, Battery: bat}
	}
	events := make([]model.ChargingEvent, 0, len(c.EventList))
	lastArrival := 0
	for i, ec := range c.EventList {
		vt, ok := types[ec.VehicleType]
		if !ok {
			return nil, fmt.Errorf("event %d references unknown vehicle type %q", i, ec.VehicleType)
		}
		if ec.ArrivalStep < lastArrival {
			return nil, fmt.Errorf("event %d arrives at step %d, before the preceding event", i, ec.ArrivalStep)
		}
		lastArrival = ec.ArrivalStep
		target := ec.TargetSoC
		if target == 0 {
			target = 1
		}
		events = append(events, model.ChargingEvent{
			ID:           int64(i + 1),
			ArrivalStep:  ec.ArrivalStep,
			ParkingSteps: ec.ParkingSteps,
			SoC:          ec.SoC,
			TargetSoC:    target,
			Vehicle:      vt,
		})
	}
	return events, nil
}
