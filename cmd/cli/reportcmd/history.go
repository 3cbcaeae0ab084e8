package reportcmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/monitor"
	"github.com/TomGlanzman/Perp/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Full lifecycle history of one task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Lookup("tasknum").Changed {
			return errors.New("you must specify a task number (--tasknum) for this report")
		}

		conf := loadConfig(cmd)
		mon, err := openMonitor(cmd, conf)
		if err != nil {
			return err
		}
		defer func() { _ = mon.Close() }()

		runnum := runFlag(cmd)
		if runnum.Valid {
			run, err := mon.Index().Resolve(runnum)
			if err != nil {
				return err
			}
			report.WorkflowSummary(os.Stdout, run, run.RunNum == mon.Index().Max(), conf.Monitor.File)
		}

		filter := taskFilter(cmd)
		rows, err := mon.TaskHistory(cmd.Context(), filter)
		if err != nil {
			return err
		}

		tasknum, _ := cmd.Flags().GetInt64("tasknum")
		fmt.Printf("Full history of task %d, containing %d state changes\n", tasknum, len(rows))

		limit, _ := cmd.Flags().GetInt64("limit")
		report.TaskTable(os.Stdout, rows, int(limit), false)

		// The closing matrix covers the run's current state, not the
		// single task's history.
		sumRows, err := mon.TaskSummary(cmd.Context(), monitor.Filter{RunNum: runnum})
		if err != nil {
			return err
		}
		report.StatusMatrix(os.Stdout, mon.Matrix(sumRows))
		return nil
	},
}

func init() {
	addTaskFlags(historyCmd)
}
