package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chargesim/chargesim/app"
	"github.com/chargesim/chargesim/config"
	"github.com/chargesim/chargesim/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "chargesim",
	Short: "EV charging demand simulator",
	Long: "chargesim replays a scenario of pre-sampled charging events against a " +
		"site with limited charging points and a shared power budget, producing a " +
		"time-stepped load profile for infrastructure and grid-impact analysis.",
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "scenario.yaml", "scenario file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
