package model

import "fmt"

// VehicleType describes a class of electric vehicle visiting the site. The
// simulation treats it as read-only: all mutable charging state lives in the
// active process, not here.
type VehicleType struct {
	Brand   string  `json:"brand" yaml:"brand"`
	Model   string  `json:"model" yaml:"model"`
	Battery Battery `json:"battery" yaml:"battery"`
}

// Label returns a human readable identifier used in summaries and logs.
func (v VehicleType) Label() string {
	if v.Brand == "" && v.Model == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s %s", v.Brand, v.Model)
}

// Validate checks the vehicle type configuration.
func (v VehicleType) Validate() error {
	if err := v.Battery.Validate(); err != nil {
		return fmt.Errorf("vehicle %s: %w", v.Label(), err)
	}
	return nil
}
