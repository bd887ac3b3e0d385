package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chargesim/chargesim/core/sched"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List available allocation policies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sched.Names() {
			cmd.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}
