package reportcmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Force re-provisioning of the reporting views",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := loadConfig(cmd)
		st, err := openStore(conf)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.ProvisionViews(cmd.Context()); err != nil {
			return err
		}
		log.Info().Msg("Reporting views are up to date")
		return nil
	},
}
