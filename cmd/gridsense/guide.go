package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gridsense/gridsense/internal/cli"
	"github.com/gridsense/gridsense/internal/common"
	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/tui"
)

func guideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guide <profile-id>",
		Short: "Walk through applying the latest plan move by move",
		Long: `Step through the recommended moves one at a time while you rearrange
icons on the device. Progress is saved after every step, so quitting (or an
interrupt) keeps the walkthrough resumable exactly where you left off.`,
		Args: cobra.ExactArgs(1),
		RunE: runGuide,
	}

	cmd.Flags().Bool("restart", false, "Discard saved progress and start the walkthrough over")
	_ = viper.BindPFlag("guide.restart", cmd.Flags().Lookup("restart"))

	return cmd
}

func runGuide(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(os.Stdout, "gridsense guide "+args[0])
	ctx := handler.HandleInterrupts(cmd.Context())

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	plan, err := store.LatestPlan(ctx, args[0])
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError("no plan found for this profile; run: gridsense plan "+args[0], err)
		}
		return err
	}

	draft, err := store.LatestDraft(ctx, plan.ID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		draft = nil
	case err != nil:
		return err
	}

	if draft != nil && viper.GetBool("guide.restart") {
		if delErr := store.DeleteDraft(ctx, draft.ID); delErr != nil {
			return delErr
		}
		draft = nil
	}

	if draft == nil {
		detections, detErr := store.LatestDetections(ctx)
		if detErr != nil {
			return detErr
		}
		canon := newCanonicalizer(cfg)
		_, _, currentSlots, names := catalogFromDetections(canon, detections)

		draft = &model.GuidedApplyDraft{
			PlanID: plan.ID,
			Moves:  cli.PlanMoves(plan, currentSlots, names),
		}
		if err := store.SaveDraft(ctx, draft); err != nil {
			return err
		}
	} else if draft.Remaining() > 0 {
		slog.Info(cli.FormatInfo(fmt.Sprintf("Resuming walkthrough, %d moves left", draft.Remaining())))
	}

	if len(draft.Moves) == 0 {
		fmt.Fprintln(os.Stdout, cli.FormatSuccess("Everything is already where it belongs."))
		return nil
	}
	if draft.Complete() {
		fmt.Fprintln(os.Stdout, cli.FormatSuccess("This plan is fully applied. Use --restart to walk through it again."))
		return nil
	}

	final, err := tui.Run(ctx, draft, store)
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}

	if final.Complete() {
		fmt.Fprintln(os.Stdout, cli.FormatSuccess("All moves placed. Enjoy the new layout!"))
	} else {
		fmt.Fprintln(os.Stdout, cli.FormatInfo(fmt.Sprintf(
			"%d moves left. Resume anytime with: gridsense guide %s", final.Remaining(), args[0])))
	}
	return nil
}
