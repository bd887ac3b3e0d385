package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chargesim/chargesim/config"
	"github.com/chargesim/chargesim/core/model"
	"github.com/chargesim/chargesim/core/site"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print a starter scenario to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(sampleScenario())
		if err != nil {
			return err
		}
		cmd.Print(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}

func sampleScenario() config.Config {
	return config.Config{
		Simulation: config.SimulationConfig{
			Start:      "2026-01-05T00:00:00Z",
			End:        "2026-01-06T00:00:00Z",
			Resolution: "1h",
			Policy:     "uncontrolled",
		},
		Site: config.SiteConfig{
			BudgetKW:    44,
			QueueLength: 5,
			Points: []site.PointConfig{
				{ID: "cp-1", MaxPowerKW: 22},
				{ID: "cp-2", MaxPowerKW: 22},
			},
		},
		VehicleTypes: []config.VehicleTypeConfig{
			{
				Name:  "compact",
				Brand: "Aurora",
				Model: "City",
				Battery: model.Battery{
					CapacityKWh: 50,
					MaxChargeKW: 11,
					Efficiency:  0.95,
				},
			},
		},
		EventList: []config.EventConfig{
			{ArrivalStep: 8, ParkingSteps: 6, SoC: 0.25, TargetSoC: 0.8, VehicleType: "compact"},
			{ArrivalStep: 9, ParkingSteps: 4, SoC: 0.5, TargetSoC: 0.9, VehicleType: "compact"},
		},
		Output: config.OutputConfig{
			ProfileCSV:   "profile.csv",
			SessionsJSON: "sessions.json",
		},
	}
}
