package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gridsense/gridsense/internal/cli"
	"github.com/gridsense/gridsense/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// initStorage migrates as part of opening.
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			defer closeStore(store)

			slog.Info(cli.FormatSuccess(fmt.Sprintf(
				"Database schema is at version %d", storage.ExpectedSchemaVersion)))
			return nil
		},
	}
}
