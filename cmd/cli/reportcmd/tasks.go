package reportcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/report"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Most recent status of every selected task",
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

		rows, err := mon.TaskSummary(cmd.Context(), taskFilter(cmd))
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt64("limit")
		printLimit := len(rows)
		if limit > 0 && int(limit) < printLimit {
			printLimit = int(limit)
		}
		fmt.Printf("MOST RECENT STATUS FOR SELECTED TASKS (# tasks selected = %d, print limit = %d)\n",
			len(rows), printLimit)

		extended, _ := cmd.Flags().GetBool("extended")
		report.TaskTable(os.Stdout, rows, int(limit), extended)
		report.NodeUsage(os.Stdout, mon.Nodes(rows))

		if oddball, _ := cmd.Flags().GetBool("oddball"); oddball {
			if err := printOddballListings(cmd, mon); err != nil {
				return err
			}
		}

		report.StatusMatrix(os.Stdout, mon.Matrix(rows))
		return nil
	},
}

func init() {
	addTaskFlags(tasksCmd)
	tasksCmd.Flags().BoolP("extended", "x", false, "print extended columns (log dir, stdout path)")
	tasksCmd.Flags().BoolP("oddball", "o", false, "include non-cached and non-dispatched task listings")
}
