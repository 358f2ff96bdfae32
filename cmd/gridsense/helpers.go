package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/gridsense/gridsense/internal/canonical"
	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/service"
	"github.com/gridsense/gridsense/internal/storage"
)

// loadConfig merges the config file over the built-in defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context, cfg config.Config) (service.Storage, error) {
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = "$HOME/.local/share/gridsense/gridsense.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newCanonicalizer builds the shared name canonicalizer from config.
func newCanonicalizer(cfg config.Config) *canonical.Canonicalizer {
	return canonical.New(canonical.DefaultVocabulary(), cfg.Match)
}

// appID derives the stable cross-run identity of an app from its display
// name.
func appID(canon *canonical.Canonicalizer, displayName string) string {
	return strings.ReplaceAll(canon.CanonicalName(displayName), " ", "-")
}

// catalogFromDetections flattens stored detections into the planner's app
// catalog plus current slot assignments, deduplicating repeated sightings
// across pages by app identity.
func catalogFromDetections(canon *canonical.Canonicalizer, detections []*model.HomeScreenDetection) ([]model.AppItem, []model.LayoutAssignment, map[string]model.Slot, map[string]string) {
	apps := make([]model.AppItem, 0)
	current := make([]model.LayoutAssignment, 0)
	slots := make(map[string]model.Slot)
	names := make(map[string]string)

	for _, d := range detections {
		for _, a := range d.Apps {
			id := appID(canon, a.AppName)
			if _, seen := slots[id]; seen {
				slog.Debug("Duplicate app across pages", "app", a.AppName, "id", id)
				continue
			}
			slots[id] = a.Slot
			names[id] = a.AppName
			apps = append(apps, model.AppItem{ID: id, DisplayName: a.AppName})
			current = append(current, model.LayoutAssignment{AppID: id, Slot: a.Slot})
		}
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	sort.Slice(current, func(i, j int) bool { return current[i].AppID < current[j].AppID })
	return apps, current, slots, names
}

// applyUsage attaches usage scores to catalog apps by canonical identity,
// scaled so the most-used app scores 1.0. Apps without an entry keep a nil
// score and fall back to rank ordering in the planner.
func applyUsage(canon *canonical.Canonicalizer, apps []model.AppItem, entries []model.ScreenTimeUsageEntry) int {
	if len(entries) == 0 {
		return 0
	}

	maxMinutes := 0.0
	byID := make(map[string]float64, len(entries))
	for _, e := range entries {
		id := appID(canon, e.AppName)
		if e.MinutesPerDay > byID[id] {
			byID[id] = e.MinutesPerDay
		}
		if e.MinutesPerDay > maxMinutes {
			maxMinutes = e.MinutesPerDay
		}
	}
	if maxMinutes <= 0 {
		return 0
	}

	matched := 0
	for i := range apps {
		minutes, ok := byID[apps[i].ID]
		if !ok {
			continue
		}
		score := minutes / maxMinutes
		apps[i].UsageScore = &score
		matched++
	}
	return matched
}
