package reportcmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "History of every workflow run in the monitoring database",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := loadConfig(cmd)
		mon, err := openMonitor(cmd, conf)
		if err != nil {
			return err
		}
		defer func() { _ = mon.Close() }()

		report.RunHistory(os.Stdout, mon.Index().Runs())
		return nil
	},
}
