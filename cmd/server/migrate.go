package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"invoicer/internal/infrastructure/storage/postgres"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			if cfg.UsesMemoryStore() {
				return errors.New("database.url is not set")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			pool, err := postgres.NewPool(ctx, poolConfig(cfg))
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.NewMigrator(pool).Run(ctx)
			if err != nil {
				return err
			}
			log.Infow("migrations complete", "applied", applied)
			return nil
		},
	}
}
