package reportcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/monitor"
	"github.com/TomGlanzman/Perp/internal/report"
)

// printOddballListings appends the non-cached and non-dispatched task
// listings to a task report.
func printOddballListings(cmd *cobra.Command, mon *monitor.Monitor) error {
	cols, rows, err := mon.NonCachedTasks(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		fmt.Printf("\nList of most recent invocation of all %d non-cached tasks\n", len(rows))
		report.Generic(os.Stdout, cols, rows)
	} else {
		fmt.Println("\nThere are no non-cached tasks to report.")
	}

	cols, rows, err = mon.NonDispatchedTasks(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		fmt.Printf("\nList of %d non-dispatched cached tasks\n", len(rows))
		report.Generic(os.Stdout, cols, rows)
	} else {
		fmt.Println("\nThere are no non-dispatched tasks to report.")
	}
	return nil
}
