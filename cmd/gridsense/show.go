package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridsense/gridsense/internal/cli"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the last scanned layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer closeStore(store)

			detections, err := store.LatestDetections(ctx)
			if err != nil {
				return err
			}
			if len(detections) == 0 {
				fmt.Fprintln(os.Stdout, cli.FormatInfo("No scanned layout yet; run: gridsense scan <dump.json>"))
				return nil
			}

			for _, d := range detections {
				fmt.Fprintln(os.Stdout, cli.RenderDetection(d))
				fmt.Fprintln(os.Stdout)
			}
			return nil
		},
	}
}
