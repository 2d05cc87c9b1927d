package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/utils"
	"gorm.io/gorm"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "restaurant-reservation",
		Short:         "Restaurant table reservations with per-slot capacity control",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		utils.InitLogger(cfg.LogLevel)
		utils.SetJWTSecret(cfg.JWT.Secret, cfg.JWT.TTL)
		return cfg, nil
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd(loadConfig))
	root.AddCommand(newMigrateCmd(loadConfig))
	root.AddCommand(newUserCmd(loadConfig))

	return root
}

type configLoader func() (*config.Config, error)

func openDB(cfg *config.Config, migrate bool) (*gorm.DB, error) {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
