package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridsense/gridsense/internal/cli"
	"github.com/gridsense/gridsense/internal/common"
	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/gridmap"
	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/normalize"
	"github.com/gridsense/gridsense/internal/recognize"
	"github.com/gridsense/gridsense/internal/service"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dump.json> [dump.json...]",
		Short: "Map home-screen recognition dumps onto the app grid",
		Long: `Read one recognition dump per home-screen page, in page order, and
reconstruct which app sits in which grid cell. The mapped pages are stored
and become the current layout that planning works from.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().Bool("dry-run", false, "Show the mapped grid without saving")
	_ = viper.BindPFlag("scan.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	detections, err := scanPages(ctx, cfg, args)
	if err != nil {
		return err
	}

	for _, d := range detections {
		fmt.Fprintln(os.Stdout, cli.RenderDetection(d))
		fmt.Fprintln(os.Stdout)
		if d.Quality == model.ImportQualityLow {
			fmt.Fprintln(os.Stdout, cli.FormatWarning(
				fmt.Sprintf("Page %d recognition quality is low; consider retaking the screenshot", d.Page+1)))
		}
	}

	if viper.GetBool("scan.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		return nil
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	for _, d := range detections {
		if err := store.SaveDetection(ctx, d); err != nil {
			return fmt.Errorf("failed to save page %d: %w", d.Page, err)
		}
	}

	total := 0
	for _, d := range detections {
		total += len(d.Apps)
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("Scanned %d pages, %d apps", len(detections), total)))
	return nil
}

// scanPages runs recognition, normalization, and grid mapping over one dump
// per page. Page numbers follow argument order.
func scanPages(ctx context.Context, cfg config.Config, sources []string) ([]*model.HomeScreenDetection, error) {
	reader := recognize.NewDumpReader()
	normalizer := normalize.New(cfg.Filter)
	mapper := gridmap.New(cfg.Grid, cfg.Filter, newCanonicalizer(cfg))

	bar := newScanProgress(len(sources))

	detections := make([]*model.HomeScreenDetection, 0, len(sources))
	for page, source := range sources {
		candidates, err := recognizeWithRetry(ctx, reader, source)
		if err != nil {
			return nil, fmt.Errorf("page %d (%s): %w", page, source, err)
		}

		unique := normalizer.Process(candidates)
		quality := normalizer.EstimateImportQuality(unique)

		// The mapper gets every located candidate: widget inference and
		// duplicate-app resolution depend on the spatially distinct
		// copies that Process folds into one.
		detection := mapper.MapPage(page, candidates)
		detection.Quality = quality
		detections = append(detections, &detection)

		slog.Debug("Mapped page",
			"page", page,
			"candidates", len(candidates),
			"unique_labels", len(unique),
			"apps", len(detection.Apps),
			"widget_cells", len(detection.WidgetCells),
			"quality", quality)
		_ = bar.Add(1)
	}
	fmt.Fprintln(os.Stdout)

	return detections, nil
}

// recognizeWithRetry retries transient recognizer outages; unreadable dumps
// fail immediately.
func recognizeWithRetry(ctx context.Context, recognizer service.Recognizer, source string) ([]model.TextCandidate, error) {
	var candidates []model.TextCandidate
	err := common.WithRetry(ctx, func() error {
		var opErr error
		candidates, opErr = recognizer.Recognize(ctx, source)
		return opErr
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		Multiplier:   2,
	})
	return candidates, err
}

func newScanProgress(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Mapping pages...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func closeStore(store service.Storage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}
