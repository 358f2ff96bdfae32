package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridsense/gridsense/internal/cli"
	"github.com/gridsense/gridsense/internal/common"
	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/planner"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage ergonomic profiles",
		Long: `A profile captures how you hold the phone: handedness, grip, the
grid dimensions of your device, and how much each planning goal matters.
Plans are always computed against a profile.`,
	}

	cmd.AddCommand(profileSetCmd())
	cmd.AddCommand(profileListCmd())
	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileDeleteCmd())
	cmd.AddCommand(profileCalibrateCmd())

	return cmd
}

func profileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileSet,
	}

	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("handedness", "right", "Handedness (left, right, alternating)")
	cmd.Flags().String("grip", "oneHand", "Grip (oneHand, twoHand)")
	cmd.Flags().Int("rows", 0, "Grid rows (default from config)")
	cmd.Flags().Int("columns", 0, "Grid columns (default from config)")
	cmd.Flags().Float64("utility", 0.6, "Weight of usage-reachability utility")
	cmd.Flags().Float64("flow", 0.2, "Weight of task-flow adjacency")
	cmd.Flags().Float64("aesthetics", 0.1, "Weight of visual grouping")
	cmd.Flags().Float64("move-cost", 0.1, "Weight of the rearrangement cost penalty")

	return cmd
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	handedness, err := parseHandedness(mustString(cmd, "handedness"))
	if err != nil {
		return err
	}
	grip, err := parseGrip(mustString(cmd, "grip"))
	if err != nil {
		return err
	}

	rows, _ := cmd.Flags().GetInt("rows")
	if rows <= 0 {
		rows = cfg.Grid.Rows
	}
	columns, _ := cmd.Flags().GetInt("columns")
	if columns <= 0 {
		columns = cfg.Grid.Columns
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	profile := &model.Profile{
		ID:         args[0],
		Name:       mustString(cmd, "name"),
		Handedness: handedness,
		Grip:       grip,
		GoalWeights: model.GoalWeights{
			Utility:    mustFloat(cmd, "utility"),
			Flow:       mustFloat(cmd, "flow"),
			Aesthetics: mustFloat(cmd, "aesthetics"),
			MoveCost:   mustFloat(cmd, "move-cost"),
		},
		Rows:    rows,
		Columns: columns,
	}

	// An existing profile keeps its calibration across updates.
	if existing, getErr := store.GetProfile(ctx, profile.ID); getErr == nil {
		profile.Reachability = existing.Reachability
	} else if !errors.Is(getErr, common.ErrNotFound) {
		return getErr
	}

	if err := store.SaveProfile(ctx, profile); err != nil {
		return err
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Saved profile %q", profile.ID)))
	return nil
}

func profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
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

			profiles, err := store.ListProfiles(ctx)
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Fprintln(os.Stdout, cli.FormatInfo("No profiles yet; create one with: gridsense profile set <id>"))
				return nil
			}

			for _, p := range profiles {
				calibrated := ""
				if len(p.Reachability) > 0 {
					calibrated = cli.SuccessStyle.Render("  calibrated")
				}
				fmt.Fprintf(os.Stdout, "%s  %s %s %dx%d%s\n",
					cli.BoldStyle.Render(p.ID), p.Handedness, p.Grip, p.Rows, p.Columns, calibrated)
			}
			return nil
		},
	}
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one profile with its goal weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			p, err := store.GetProfile(ctx, args[0])
			if err != nil {
				return err
			}

			content := fmt.Sprintf(
				"Handedness:  %s\nGrip:        %s\nGrid:        %d rows x %d columns\n\nUtility:     %.2f\nFlow:        %.2f\nAesthetics:  %.2f\nMove cost:   %.2f\n\nCalibrated slots: %d",
				p.Handedness, p.Grip, p.Rows, p.Columns,
				p.GoalWeights.Utility, p.GoalWeights.Flow,
				p.GoalWeights.Aesthetics, p.GoalWeights.MoveCost,
				len(p.Reachability))
			fmt.Fprintln(os.Stdout, cli.RenderBox("Profile "+p.ID, content))
			return nil
		},
	}
}

func profileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if err := store.DeleteProfile(ctx, args[0]); err != nil {
				return err
			}
			slog.Info(cli.FormatSuccess(fmt.Sprintf("Deleted profile %q", args[0])))
			return nil
		},
	}
}

func profileCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate <id> <samples.json>",
		Short: "Import tap-timing samples and derive per-slot reachability",
		Long: `Read calibration samples (measured tap reaction times per grid slot)
and convert them into per-slot reachability weights for the profile. Slots
the user hits fastest get the highest weight; without calibration the
handedness heuristic applies.`,
		Args: cobra.ExactArgs(2),
		RunE: runProfileCalibrate,
	}
	return cmd
}

func runProfileCalibrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read samples: %w", err)
	}
	var samples []model.CalibrationSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return fmt.Errorf("failed to decode samples: %w", err)
	}
	if len(samples) == 0 {
		return common.NewUserError("the samples file contains no calibration samples", nil)
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStore(store)

	profile, err := store.GetProfile(ctx, args[0])
	if err != nil {
		return err
	}

	profile.Reachability = planner.ReachabilityFromSamples(samples)
	if err := store.SaveProfile(ctx, profile); err != nil {
		return err
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf(
		"Calibrated %d slots from %d samples for profile %q",
		len(profile.Reachability), len(samples), profile.ID)))
	return nil
}

func parseHandedness(s string) (model.Handedness, error) {
	switch model.Handedness(s) {
	case model.HandednessLeft, model.HandednessRight, model.HandednessAlternating:
		return model.Handedness(s), nil
	default:
		return "", common.NewUserError(fmt.Sprintf("invalid handedness %q (left, right, alternating)", s), nil)
	}
}

func parseGrip(s string) (model.Grip, error) {
	switch model.Grip(s) {
	case model.GripOneHand, model.GripTwoHand:
		return model.Grip(s), nil
	default:
		return "", common.NewUserError(fmt.Sprintf("invalid grip %q (oneHand, twoHand)", s), nil)
	}
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustFloat(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}
