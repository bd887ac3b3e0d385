package site

import (
	"time"

	"github.com/chargesim/chargesim/core/model"
)

// Process is the live binding of a charging event to a charging point. It is
// created at admission, mutated once per step by the allocation policy and
// the battery update, and retired at departure or, optionally, when the
// target SoC is reached.
type Process struct {
	Event model.ChargingEvent
	// Point is the pool slot index the vehicle is plugged into.
	Point int

	SoC            float64
	RemainingSteps int
	AdmittedStep   int
	// EnergyKWh is the cumulative grid-side energy drawn by this process.
	EnergyKWh float64
	// LastPowerKW is the power drawn during the most recent step.
	LastPowerKW float64
}

// NewProcess admits an event at the given step.
func NewProcess(ev model.ChargingEvent, step int) *Process {
	remaining := ev.DepartureStep() - step
	return &Process{
		Event:          ev,
		SoC:            ev.SoC,
		RemainingSteps: remaining,
		AdmittedStep:   step,
	}
}

// StoredKWh returns the energy currently held by the battery.
func (p *Process) StoredKWh() float64 {
	return p.SoC * p.Event.Vehicle.Battery.CapacityKWh
}

// TargetKWh returns the energy ceiling derived from the target SoC.
func (p *Process) TargetKWh() float64 {
	return p.Event.TargetSoC * p.Event.Vehicle.Battery.CapacityKWh
}

// TargetReached reports whether the vehicle holds its requested energy. The
// small tolerance absorbs floating point drift from repeated charge steps.
func (p *Process) TargetReached() bool {
	return p.SoC >= p.Event.TargetSoC-1e-9
}

// NeedKW returns the grid-side power required to reach the target SoC within
// one step of the given duration. Zero once the target is reached.
func (p *Process) NeedKW(dt time.Duration) float64 {
	missing := p.TargetKWh() - p.StoredKWh()
	if missing <= 0 {
		return 0
	}
	hours := dt.Hours()
	if hours <= 0 {
		return 0
	}
	return missing / p.Event.Vehicle.Battery.Efficiency / hours
}

// ApplyPower advances the battery state with the allocated power for one step
// and decrements the remaining parking time. It returns the power actually
// drawn after the battery clamp.
func (p *Process) ApplyPower(powerKW float64, dt time.Duration) float64 {
	bat := p.Event.Vehicle.Battery
	stored, actual := bat.Charge(p.StoredKWh(), powerKW, dt, p.TargetKWh())
	p.SoC = stored / bat.CapacityKWh
	p.EnergyKWh += actual * dt.Hours()
	p.LastPowerKW = actual
	p.RemainingSteps--
	return actual
}
