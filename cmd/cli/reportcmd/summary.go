package reportcmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/monitor"
	"github.com/TomGlanzman/Perp/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Workflow run summary plus the task status matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := loadConfig(cmd)
		mon, err := openMonitor(cmd, conf)
		if err != nil {
			return err
		}
		defer func() { _ = mon.Close() }()

		runnum := runFlag(cmd)
		run, err := mon.Index().Resolve(runnum)
		if err != nil {
			return err
		}
		report.WorkflowSummary(os.Stdout, run, run.RunNum == mon.Index().Max(), conf.Monitor.File)

		rows, err := mon.TaskSummary(cmd.Context(), monitor.Filter{RunNum: runnum})
		if err != nil {
			return err
		}
		report.StatusMatrix(os.Stdout, mon.Matrix(rows))
		return nil
	},
}
