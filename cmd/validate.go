package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chargesim/chargesim/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a scenario file without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		events, err := cfg.Events()
		if err != nil {
			return err
		}
		cmd.Printf("scenario OK: %d points, %d events, policy %q\n",
			len(cfg.Site.Points), len(events), cfg.Simulation.Policy)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
