// Package scenarios runs end-to-end QA scenarios described as YAML files in
// this directory. Each file bundles a full scenario with the outcome it must
// produce, so regressions in admission, queueing or allocation show up as a
// named scenario failure instead of a unit-test detail.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chargesim/chargesim/config"
)

// Expected holds the outcome assertions of a scenario. Float comparisons use
// a small absolute tolerance.
type Expected struct {
	TotalEnergyKWh float64 `yaml:"total_energy_kwh"`
	PeakKW         float64 `yaml:"peak_kw"`
	Sessions       int     `yaml:"sessions"`
	TargetsReached int     `yaml:"targets_reached"`
	Rejections     int     `yaml:"rejections"`
	Expired        int     `yaml:"expired"`
}

// Scenario is one QA case: a complete scenario document plus expectations.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Scenario    config.Config `yaml:"scenario"`
	Expected    Expected      `yaml:"expected"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	sc.Scenario.Simulation.SetDefaults()
	sc.Scenario.Metrics.SetDefaults()
	return &sc, nil
}
