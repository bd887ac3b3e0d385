package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleScenario = `
simulation:
  start: "2026-03-01T00:00:00Z"
  end: "2026-03-01T04:00:00Z"
  resolution: "1h"
  policy: "fcfs"
site:
  budget_kw: 50
  queue_length: 3
  preload_kw: [5, 10]
  points:
    - id: "cp-1"
      max_power_kw: 22
    - id: "cp-2"
      max_power_kw: 11
vehicle_types:
  - name: "compact"
    brand: "Aurora"
    model: "City"
    battery:
      capacity_kwh: 50
      max_charge_kw: 11
events:
  - arrival_step: 0
    parking_steps: 4
    soc: 0.2
    target_soc: 0.8
    vehicle_type: "compact"
  - arrival_step: 1
    parking_steps: 2
    soc: 0.5
    vehicle_type: "compact"
output:
  profile_csv: "profile.csv"
`

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadScenario(t *testing.T) {
	cfg, err := Load(writeScenario(t, "scenario.yaml", sampleScenario))
	require.NoError(t, err)

	require.Equal(t, "fcfs", cfg.Simulation.Policy)
	require.Equal(t, 50.0, cfg.Site.BudgetKW)
	require.Len(t, cfg.Site.Points, 2)
	require.Equal(t, "cp-1", cfg.Site.Points[0].ID)
	require.Equal(t, []float64{5, 10}, cfg.Site.PreloadKW)
	require.Equal(t, "profile.csv", cfg.Output.ProfileCSV)

	events, err := cfg.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, int64(1), events[0].ID)
	require.Equal(t, 0.8, events[0].TargetSoC)
	// Omitted target defaults to a full charge.
	require.Equal(t, 1.0, events[1].TargetSoC)
	require.Equal(t, "Aurora City", events[0].Vehicle.Label())
}

func TestLoadDefaults(t *testing.T) {
	minimal := `
simulation:
  start: "2026-03-01T00:00:00Z"
  end: "2026-03-01T02:00:00Z"
site:
  budget_kw: 20
  points:
    - id: "cp-1"
      max_power_kw: 11
`
	cfg, err := Load(writeScenario(t, "minimal.yaml", minimal))
	require.NoError(t, err)
	require.Equal(t, "1h", cfg.Simulation.Resolution)
	require.Equal(t, "uncontrolled", cfg.Simulation.Policy)
	require.Equal(t, 9090, cfg.Metrics.PrometheusPort)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CSIM_SIMULATION__POLICY", "equal_share")
	cfg, err := Load(writeScenario(t, "scenario.yaml", sampleScenario))
	require.NoError(t, err)
	require.Equal(t, "equal_share", cfg.Simulation.Policy)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeScenario(t, "scenario.toml", "simulation = {}"))
	require.ErrorContains(t, err, "unsupported config format")
}

func TestValidateRejects(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(writeScenario(t, "scenario.yaml", sampleScenario))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "window inverted",
			mutate:  func(c *Config) { c.Simulation.End = "2026-02-28T00:00:00Z" },
			wantErr: "must be after",
		},
		{
			name:    "unknown policy",
			mutate:  func(c *Config) { c.Simulation.Policy = "psychic" },
			wantErr: "unknown allocation policy",
		},
		{
			name:    "no points",
			mutate:  func(c *Config) { c.Site.Points = nil },
			wantErr: "at least one charging point",
		},
		{
			name:    "zero budget",
			mutate:  func(c *Config) { c.Site.BudgetKW = 0 },
			wantErr: "budget must be positive",
		},
		{
			name:    "negative preload",
			mutate:  func(c *Config) { c.Site.PreloadKW = []float64{-1} },
			wantErr: "preload",
		},
		{
			name:    "unknown vehicle type",
			mutate:  func(c *Config) { c.EventList[0].VehicleType = "ghost" },
			wantErr: "unknown vehicle type",
		},
		{
			name: "events out of order",
			mutate: func(c *Config) {
				c.EventList[0].ArrivalStep = 2
			},
			wantErr: "before the preceding event",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestSetup(t *testing.T) {
	cfg, err := Load(writeScenario(t, "scenario.yaml", sampleScenario))
	require.NoError(t, err)

	setup, err := cfg.Setup()
	require.NoError(t, err)
	require.Equal(t, time.Hour, setup.Resolution)
	require.Equal(t, 4, setup.NumSteps())
	require.Equal(t, "fcfs", setup.Policy.Name())
	require.Len(t, setup.Events, 2)
	require.Equal(t, 3, setup.QueueLength)
}
