// Package config loads and validates scenario files. A scenario bundles the
// site infrastructure, the simulation window, the pre-sampled charging
// events and the output/observability wiring.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chargesim/chargesim/core/metrics"
	"github.com/chargesim/chargesim/core/sched"
	"github.com/chargesim/chargesim/core/sim"
	"github.com/chargesim/chargesim/infra/mqtt"
)

// OutputConfig selects where run results are exported. Empty paths disable
// the corresponding writer.
type OutputConfig struct {
	ProfileCSV   string `json:"profile_csv" yaml:"profile_csv"`
	ProfileJSON  string `json:"profile_json" yaml:"profile_json"`
	SessionsCSV  string `json:"sessions_csv" yaml:"sessions_csv"`
	SessionsJSON string `json:"sessions_json" yaml:"sessions_json"`
	// SessionsDB appends runs and sessions to a SQLite file, keeping a
	// history across runs of the same site.
	SessionsDB string `json:"sessions_db" yaml:"sessions_db"`
}

// Config is the root scenario document.
type Config struct {
	Simulation   SimulationConfig    `json:"simulation" yaml:"simulation"`
	Site         SiteConfig          `json:"site" yaml:"site"`
	VehicleTypes []VehicleTypeConfig `json:"vehicle_types" yaml:"vehicle_types"`
	EventList    []EventConfig       `json:"events" yaml:"events"`
	Metrics      metrics.Config      `json:"metrics" yaml:"metrics"`
	MQTT         mqtt.Config         `json:"mqtt" yaml:"mqtt"`
	Output       OutputConfig        `json:"output" yaml:"output"`
}

// Load reads a scenario from a YAML or JSON file. Values can be overridden
// from the environment with CSIM_ prefixed variables, "__" separating levels,
// e.g. CSIM_SIMULATION__POLICY=fcfs.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("CSIM_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "csim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulation.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.MQTT.Validate(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	if _, err := sched.New(c.Simulation.Policy); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if _, err := c.Events(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}

// Setup assembles the simulation parameters from the scenario.
func (c *Config) Setup() (sim.Setup, error) {
	start, end, res, err := c.Simulation.Window()
	if err != nil {
		return sim.Setup{}, err
	}
	policy, err := sched.New(c.Simulation.Policy)
	if err != nil {
		return sim.Setup{}, err
	}
	events, err := c.Events()
	if err != nil {
		return sim.Setup{}, err
	}
	return sim.Setup{
		Start:         start,
		End:           end,
		Resolution:    res,
		Points:        c.Site.Points,
		BudgetKW:      c.Site.BudgetKW,
		PreloadKW:     c.Site.PreloadKW,
		QueueLength:   c.Site.QueueLength,
		ReleaseOnFull: c.Simulation.ReleaseOnFull,
		Policy:        policy,
		Events:        events,
	}, nil
}
