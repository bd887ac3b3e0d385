package model

import "fmt"

// ChargingEvent describes one vehicle visit: when it arrives, how long it
// stays and which SoC window it wants to charge across. Events are immutable
// once created; the ID is assigned in input order and breaks ties between
// events arriving in the same step.
type ChargingEvent struct {
	ID           int64
	ArrivalStep  int
	ParkingSteps int
	SoC          float64
	TargetSoC    float64
	Vehicle      VehicleType
}

// DepartureStep returns the first step at which the vehicle is gone.
func (e ChargingEvent) DepartureStep() int {
	return e.ArrivalStep + e.ParkingSteps
}

// EnergyNeedKWh returns the energy (at the battery pins) required to move the
// vehicle from its initial to its target SoC.
func (e ChargingEvent) EnergyNeedKWh() float64 {
	return (e.TargetSoC - e.SoC) * e.Vehicle.Battery.CapacityKWh
}

// Validate rejects malformed events. A failed validation is reported by the
// simulation and the event is skipped; it never aborts the run.
func (e ChargingEvent) Validate() error {
	if e.ArrivalStep < 0 {
		return fmt.Errorf("event %d: arrival step must be >= 0, got %d", e.ID, e.ArrivalStep)
	}
	if e.ParkingSteps < 1 {
		return fmt.Errorf("event %d: parking duration must be >= 1 step, got %d", e.ID, e.ParkingSteps)
	}
	if e.SoC < 0 || e.SoC > 1 {
		return fmt.Errorf("event %d: initial SoC %v outside [0,1]", e.ID, e.SoC)
	}
	if e.TargetSoC < e.SoC || e.TargetSoC > 1 {
		return fmt.Errorf("event %d: target SoC %v outside [%v,1]", e.ID, e.TargetSoC, e.SoC)
	}
	return e.Vehicle.Validate()
}
