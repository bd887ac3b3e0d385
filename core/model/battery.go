package model

import (
	"fmt"
	"time"
)

// Battery describes the onboard battery of a vehicle type. All power values
// are in kW, capacity in kWh.
type Battery struct {
	CapacityKWh float64 `json:"capacity_kwh" yaml:"capacity_kwh"`
	MaxChargeKW float64 `json:"max_charge_kw" yaml:"max_charge_kw"`
	MinChargeKW float64 `json:"min_charge_kw" yaml:"min_charge_kw"`
	// Efficiency is the fraction of drawn power stored in the battery, (0,1].
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`

	// StartPowerDegradation is the SoC above which the maximum charge power
	// starts to derate linearly. The default 1 disables derating.
	StartPowerDegradation float64 `json:"start_power_degradation" yaml:"start_power_degradation"`
	// MaxDegradationLevel is the fraction of MaxChargeKW still available at
	// SoC 1 when derating is enabled.
	MaxDegradationLevel float64 `json:"max_degradation_level" yaml:"max_degradation_level"`
}

// SetDefaults applies neutral values for optional fields.
func (b *Battery) SetDefaults() {
	if b.Efficiency == 0 {
		b.Efficiency = 1
	}
	if b.StartPowerDegradation == 0 {
		b.StartPowerDegradation = 1
	}
}

// Validate checks that the battery parameters are physically sound.
func (b Battery) Validate() error {
	if b.CapacityKWh <= 0 {
		return fmt.Errorf("battery capacity must be positive, got %v", b.CapacityKWh)
	}
	if b.MaxChargeKW <= 0 {
		return fmt.Errorf("max charge power must be positive, got %v", b.MaxChargeKW)
	}
	if b.MinChargeKW < 0 {
		return fmt.Errorf("min charge power must be non-negative, got %v", b.MinChargeKW)
	}
	if b.MinChargeKW > b.MaxChargeKW {
		return fmt.Errorf("min charge power %v exceeds max charge power %v", b.MinChargeKW, b.MaxChargeKW)
	}
	if b.Efficiency <= 0 || b.Efficiency > 1 {
		return fmt.Errorf("efficiency must be in (0,1], got %v", b.Efficiency)
	}
	if b.StartPowerDegradation < 0 || b.StartPowerDegradation > 1 {
		return fmt.Errorf("start_power_degradation must be in [0,1], got %v", b.StartPowerDegradation)
	}
	if b.MaxDegradationLevel < 0 || b.MaxDegradationLevel > 1 {
		return fmt.Errorf("max_degradation_level must be in [0,1], got %v", b.MaxDegradationLevel)
	}
	return nil
}

// MaxPowerPossible returns the maximum charge power the battery accepts at the
// given SoC. Above StartPowerDegradation the limit declines linearly down to
// MaxChargeKW*MaxDegradationLevel at SoC 1.
func (b Battery) MaxPowerPossible(soc float64) float64 {
	if soc <= b.StartPowerDegradation || b.StartPowerDegradation >= 1 {
		return b.MaxChargeKW
	}
	derate := (soc - b.StartPowerDegradation) / (1 - b.StartPowerDegradation) *
		b.MaxChargeKW * (1 - b.MaxDegradationLevel)
	return b.MaxChargeKW - derate
}

// Charge advances the stored energy by drawing powerKW for dt, respecting the
// charging efficiency and the energy ceiling (the target SoC expressed in
// kWh). It returns the new stored energy and the power actually drawn, which
// is derated when the ceiling is hit mid-step and zero once the ceiling is
// already reached. This is the final clamp protecting SoC <= target.
func (b Battery) Charge(storedKWh, powerKW float64, dt time.Duration, ceilingKWh float64) (float64, float64) {
	hours := dt.Hours()
	if hours <= 0 || powerKW <= 0 || storedKWh >= ceilingKWh {
		return storedKWh, 0
	}
	delta := powerKW * hours * b.Efficiency
	next := storedKWh + delta
	actual := powerKW
	if next > ceilingKWh {
		next = ceilingKWh
		actual = (next - storedKWh) / b.Efficiency / hours
	}
	return next, actual
}
