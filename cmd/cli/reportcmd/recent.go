package reportcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/report"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Most recent status updates across the whole run set",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := loadConfig(cmd)
		mon, err := openMonitor(cmd, conf)
		if err != nil {
			return err
		}
		defer func() { _ = mon.Close() }()

		limit := conf.Report.StatusLimit
		if cmd.Flags().Lookup("status-limit").Changed {
			limit, _ = cmd.Flags().GetInt("status-limit")
		}

		rows, err := mon.RecentStatus(cmd.Context(), limit)
		if err != nil {
			return err
		}

		fmt.Println("Recent workflow activity")
		report.TaskTable(os.Stdout, rows, 0, false)
		return nil
	},
}

func init() {
	recentCmd.Flags().IntP("status-limit", "L", 0, "limit status lines to N (default from config, 20)")
}
