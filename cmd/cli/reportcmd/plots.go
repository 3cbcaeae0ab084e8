package reportcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/monitor"
	"github.com/TomGlanzman/Perp/internal/report"
)

var plotsCmd = &cobra.Command{
	Use:   "plots",
	Short: "Runtime-distribution histograms per task type",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := loadConfig(cmd)
		mon, err := openMonitor(cmd, conf)
		if err != nil {
			return err
		}
		defer func() { _ = mon.Close() }()

		rows, err := mon.TaskSummary(cmd.Context(), monitor.Filter{RunNum: runFlag(cmd)})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("Nothing to plot: no tasks selected")
			return nil
		}

		written, err := report.RuntimeHistograms(rows, conf.Report.PlotDir)
		if err != nil {
			return err
		}

		fmt.Printf("Total tasks = %d\n", len(rows))
		fmt.Printf("Histograms written = %d\n", len(written))
		fmt.Printf("Tasks with missing runtimes = %d\n", mon.MissingRuntimes())
		return nil
	},
}
