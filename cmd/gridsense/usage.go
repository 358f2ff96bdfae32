package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridsense/gridsense/internal/cli"
	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/recognize"
	"github.com/gridsense/gridsense/internal/screentime"
)

func usageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage <dump.json>",
		Short: "Parse a Screen Time recognition dump into daily app usage",
		Long: `Read the recognition dump of a Screen Time (usage summary) screenshot
and extract how many minutes per day each app is used. Pass the same dump to
'gridsense plan --usage' to weight recommendations by real usage.`,
		Args: cobra.ExactArgs(1),
		RunE: runUsage,
	}
}

func runUsage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := parseUsageDump(cmd, cfg, args[0])
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, cli.FormatWarning("No usage rows recognized in this dump"))
		return nil
	}

	fmt.Fprintln(os.Stdout, cli.FormatTitle("Daily usage"))
	fmt.Fprintln(os.Stdout, cli.RenderUsage(entries))
	return nil
}

// parseUsageDump runs recognition and Screen Time parsing over one dump.
func parseUsageDump(cmd *cobra.Command, cfg config.Config, source string) ([]model.ScreenTimeUsageEntry, error) {
	ctx := cmd.Context()

	reader := recognize.NewDumpReader()
	candidates, err := recognizeWithRetry(ctx, reader, source)
	if err != nil {
		return nil, fmt.Errorf("usage dump %s: %w", source, err)
	}

	parser := screentime.New(cfg.Filter, newCanonicalizer(cfg))
	entries := parser.ParseLocated(candidates)

	slog.Debug("Parsed usage dump",
		"candidates", len(candidates),
		"entries", len(entries))
	return entries, nil
}
