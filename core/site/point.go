// Package site models the physical charging infrastructure: the fixed pool of
// charging points, the active charging processes bound to them and the
// waiting queue for vehicles that arrive while every point is busy.
package site

import "fmt"

// PointConfig describes one physical charging point.
type PointConfig struct {
	ID         string  `json:"id" yaml:"id"`
	MaxPowerKW float64 `json:"max_power_kw" yaml:"max_power_kw"`
	MinPowerKW float64 `json:"min_power_kw" yaml:"min_power_kw"`
}

// Validate checks the point limits.
func (c PointConfig) Validate() error {
	if c.MaxPowerKW <= 0 {
		return fmt.Errorf("point %s: max power must be positive, got %v", c.ID, c.MaxPowerKW)
	}
	if c.MinPowerKW < 0 || c.MinPowerKW > c.MaxPowerKW {
		return fmt.Errorf("point %s: min power %v outside [0,%v]", c.ID, c.MinPowerKW, c.MaxPowerKW)
	}
	return nil
}

// Pool is a fixed-size arena of charging point slots. Processes reference
// their point by slot index, so binding and releasing are O(1) writes.
type Pool struct {
	points []PointConfig
	procs  []*Process
}

// NewPool builds a pool from the configured points.
func NewPool(points []PointConfig) (*Pool, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("at least one charging point is required")
	}
	cfgs := make([]PointConfig, len(points))
	for i, p := range points {
		if p.ID == "" {
			p.ID = fmt.Sprintf("cp-%d", i)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		cfgs[i] = p
	}
	return &Pool{points: cfgs, procs: make([]*Process, len(cfgs))}, nil
}

// Size returns the number of charging points.
func (p *Pool) Size() int { return len(p.points) }

// Point returns the configuration of the slot at idx.
func (p *Pool) Point(idx int) PointConfig { return p.points[idx] }

// Free returns the index of the first unoccupied slot.
func (p *Pool) Free() (int, bool) {
	for i, pr := range p.procs {
		if pr == nil {
			return i, true
		}
	}
	return 0, false
}

// Bind attaches a process to the slot at idx. A slot holds at most one
// process at a time.
func (p *Pool) Bind(idx int, proc *Process) error {
	if idx < 0 || idx >= len(p.procs) {
		return fmt.Errorf("point index %d out of range", idx)
	}
	if p.procs[idx] != nil {
		return fmt.Errorf("point %s already occupied", p.points[idx].ID)
	}
	p.procs[idx] = proc
	proc.Point = idx
	return nil
}

// Release frees the slot at idx.
func (p *Pool) Release(idx int) error {
	if idx < 0 || idx >= len(p.procs) {
		return fmt.Errorf("point index %d out of range", idx)
	}
	if p.procs[idx] == nil {
		return fmt.Errorf("point %s is not occupied", p.points[idx].ID)
	}
	p.procs[idx] = nil
	return nil
}

// Occupant returns the process bound to the slot at idx, or nil.
func (p *Pool) Occupant(idx int) *Process { return p.procs[idx] }
