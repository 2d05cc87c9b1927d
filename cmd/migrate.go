package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, true)
			if err != nil {
				return err
			}
			defer closeDB(db)

			utils.InfoLogger.WithField("driver", cfg.DB.Driver).Info("Schema is up to date")
			return nil
		},
	}
}
