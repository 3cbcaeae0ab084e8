package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/cmd/cli/reportcmd"
)

var RootCmd = &cobra.Command{
	Use:   "wstat",
	Short: "wstat - workflow status summary from a monitoring database",
	Long: `wstat reads the SQLite monitoring database a workflow engine writes while a
batch executes and renders human-readable status reports: workflow summaries,
per-task-type status matrices, task listings and histories, node usage and
runtime-distribution plots.

It is a point-in-time snapshot reader: it never mutates workflow state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	RootCmd.PersistentFlags().StringP("file", "f", "", "monitoring database file (default ./monitoring.db)")
	RootCmd.PersistentFlags().IntP("runnum", "r", 0, "specific run number of interest (default = latest)")
	RootCmd.PersistentFlags().IntP("debug", "d", 0, "debug verbosity level")

	for _, cmd := range reportcmd.Commands {
		RootCmd.AddCommand(cmd)
	}
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%%ERROR: %v\n", err)
		os.Exit(1)
	}
}
