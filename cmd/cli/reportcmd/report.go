// Package reportcmd defines one subcommand per report type. Every command
// runs one report to completion against a freshly-opened monitoring store
// and tears it down afterwards; fatal errors bubble up for a nonzero exit
// with no partial report.
package reportcmd

import (
	"github.com/guregu/null/v6"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TomGlanzman/Perp/internal/config"
	"github.com/TomGlanzman/Perp/internal/monitor"
	"github.com/TomGlanzman/Perp/internal/store"
)

// Commands lists every report subcommand for registration on the root.
var Commands = []*cobra.Command{
	summaryCmd,
	tasksCmd,
	historyCmd,
	runsCmd,
	recentCmd,
	plotsCmd,
	schemaCmd,
	viewsCmd,
}

// loadConfig reads the configuration and applies the logging and db-file
// flag overrides.
func loadConfig(cmd *cobra.Command) *config.WstatConfig {
	conf := config.FromCobraCmd(cmd)

	zerolog.SetGlobalLevel(conf.Level())
	if debug, _ := cmd.Flags().GetInt("debug"); debug > 0 {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if cmd.Flags().Lookup("file").Changed {
		file, _ := cmd.Flags().GetString("file")
		conf.Monitor.File = file
	}
	return conf
}

// openStore opens the monitoring database named by the configuration.
func openStore(conf *config.WstatConfig) (*store.Store, error) {
	return store.Open(conf.Monitor.File, conf.LockTimeout())
}

// openMonitor opens the store and builds the read model over it. The
// caller owns the returned monitor and must Close it.
func openMonitor(cmd *cobra.Command, conf *config.WstatConfig) (*monitor.Monitor, error) {
	st, err := openStore(conf)
	if err != nil {
		return nil, err
	}

	mon, err := monitor.New(cmd.Context(), st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return mon, nil
}

// intFlag returns a null.Int carrying the flag value only when the flag
// was set on the command line.
func intFlag(cmd *cobra.Command, name string) null.Int {
	if !cmd.Flags().Lookup(name).Changed {
		return null.Int{}
	}
	v, _ := cmd.Flags().GetInt64(name)
	return null.IntFrom(v)
}

// stringFlag returns a null.String carrying the flag value only when the
// flag was set on the command line.
func stringFlag(cmd *cobra.Command, name string) null.String {
	if !cmd.Flags().Lookup(name).Changed {
		return null.String{}
	}
	v, _ := cmd.Flags().GetString(name)
	return null.StringFrom(v)
}

// runFlag reads the persistent --runnum flag.
func runFlag(cmd *cobra.Command) null.Int {
	if !cmd.Flags().Lookup("runnum").Changed {
		return null.Int{}
	}
	v, _ := cmd.Flags().GetInt("runnum")
	return null.IntFrom(int64(v))
}

// taskFilter assembles the read-model filter from the task selection flags.
func taskFilter(cmd *cobra.Command) monitor.Filter {
	return monitor.Filter{
		RunNum:   runFlag(cmd),
		TaskNum:  intFlag(cmd, "tasknum"),
		TaskID:   intFlag(cmd, "taskid"),
		Function: stringFlag(cmd, "name"),
		Status:   stringFlag(cmd, "status"),
	}
}

// addTaskFlags registers the task selection flags shared by the tasks and
// history reports.
func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().Int64P("tasknum", "t", 0, "select a specific task number")
	cmd.Flags().Int64P("taskid", "T", 0, "select a specific task id")
	cmd.Flags().StringP("name", "n", "", "select tasks by function name")
	cmd.Flags().StringP("status", "S", "", "select tasks by status (a state name or preset: notdone, runz, dead, oddball)")
	cmd.Flags().Int64P("limit", "l", 0, "limit output to N tasks (default is no limit)")
}
