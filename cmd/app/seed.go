package main

import (
	"github.com/spf13/cobra"

	"stockdesk/internal/database"
	"stockdesk/internal/infra"
	"stockdesk/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo holdings and positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		ctx := cmd.Context()
		db, err := infra.NewDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		return database.SeedPortfolio(ctx,
			repository.NewHoldingRepository(db),
			repository.NewPositionRepository(db),
			log,
		)
	},
}
