package reportcmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the monitoring database schema for all tables and views",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := loadConfig(cmd)
		st, err := openStore(conf)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		for _, kind := range []string{"table", "view"} {
			names, err := st.SchemaList(cmd.Context(), kind)
			if err != nil {
				return err
			}
			fmt.Printf("%ss: %v\n", kind, names)

			for _, name := range names {
				ddl, err := st.Schema(cmd.Context(), kind, name)
				if err != nil {
					return err
				}
				fmt.Println(ddl)
			}
		}
		return nil
	},
}
