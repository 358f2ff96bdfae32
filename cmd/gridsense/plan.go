package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridsense/gridsense/internal/cli"
	"github.com/gridsense/gridsense/internal/common"
	"github.com/gridsense/gridsense/internal/planner"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <profile-id>",
		Short: "Compute a layout recommendation from the latest scan",
		Long: `Build an ergonomic rearrangement of the scanned layout for a profile:
the apps you use most move to the slots your thumb reaches best. Supply a
Screen Time dump to weight apps by real usage; without one, apps keep their
scanned order as a usage proxy.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlan,
	}

	cmd.Flags().String("usage", "", "Screen Time recognition dump to weight apps by usage")
	cmd.Flags().Bool("dry-run", false, "Show the recommendation without saving")
	_ = viper.BindPFlag("plan.usage", cmd.Flags().Lookup("usage"))
	_ = viper.BindPFlag("plan.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	profile, err := store.GetProfile(ctx, args[0])
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("profile %q does not exist; create it with: gridsense profile set %s", args[0], args[0]), err)
	}

	detections, err := store.LatestDetections(ctx)
	if err != nil {
		return err
	}
	if len(detections) == 0 {
		return common.NewUserError("no scanned layout found; run: gridsense scan <dump.json>", nil)
	}

	canon := newCanonicalizer(cfg)
	apps, current, currentSlots, names := catalogFromDetections(canon, detections)

	if usageDump := viper.GetString("plan.usage"); usageDump != "" {
		entries, usageErr := parseUsageDump(cmd, cfg, usageDump)
		if usageErr != nil {
			return usageErr
		}
		matched := applyUsage(canon, apps, entries)
		slog.Info("Applied usage signal", "entries", len(entries), "matched_apps", matched)
	}

	plan := planner.BuildPlan(*profile, apps, current)

	fmt.Fprintln(os.Stdout, cli.FormatTitle("Layout recommendation"))
	fmt.Fprintln(os.Stdout, cli.RenderPlan(&plan, currentSlots, names))

	if viper.GetBool("plan.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		return nil
	}

	if err := store.SavePlan(ctx, &plan); err != nil {
		return err
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("Saved plan %s", plan.ID)))
	fmt.Fprintln(os.Stdout, cli.FormatInfo("Apply it step by step with: gridsense guide "+args[0]))
	return nil
}
