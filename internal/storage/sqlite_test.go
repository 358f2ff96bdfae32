package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/gridsense/internal/common"
	"github.com/gridsense/gridsense/internal/model"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testProfile(id string) *model.Profile {
	return &model.Profile{
		ID:         id,
		Name:       "Default",
		Handedness: model.HandednessRight,
		Grip:       model.GripOneHand,
		GoalWeights: model.GoalWeights{
			Utility:    0.6,
			Flow:       0.2,
			Aesthetics: 0.1,
			MoveCost:   0.1,
		},
		Rows:    6,
		Columns: 4,
	}
}

func TestProfileRoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	profile := testProfile("p1")
	profile.Reachability = model.ReachabilityMap{
		{Type: model.SlotTypeApp, Page: 0, Row: 5, Column: 0}:  0.95,
		{Type: model.SlotTypeApp, Page: 0, Row: 0, Column: 3}:  0.15,
		{Type: model.SlotTypeDock, Page: 0, Row: 0, Column: 1}: 1.0,
	}
	require.NoError(t, store.SaveProfile(ctx, profile))

	got, err := store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, profile.Name, got.Name)
	assert.Equal(t, model.HandednessRight, got.Handedness)
	assert.Equal(t, model.GripOneHand, got.Grip)
	assert.Equal(t, profile.GoalWeights, got.GoalWeights)
	assert.Equal(t, 6, got.Rows)
	assert.Equal(t, 4, got.Columns)
	assert.Equal(t, profile.Reachability, got.Reachability)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestProfileUpsert(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	profile := testProfile("p1")
	require.NoError(t, store.SaveProfile(ctx, profile))

	profile.Handedness = model.HandednessLeft
	profile.Grip = model.GripTwoHand
	require.NoError(t, store.SaveProfile(ctx, profile))

	got, err := store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.HandednessLeft, got.Handedness)
	assert.Equal(t, model.GripTwoHand, got.Grip)

	all, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProfileWithoutCalibration(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, testProfile("p1")))

	got, err := store.GetProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got.Reachability)
}

func TestProfileNotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListProfilesOrdering(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	for _, p := range []struct{ id, name string }{
		{"p1", "Work"},
		{"p2", "Commute"},
		{"p3", "Home"},
	} {
		profile := testProfile(p.id)
		profile.Name = p.name
		require.NoError(t, store.SaveProfile(ctx, profile))
	}

	all, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Commute", all[0].Name)
	assert.Equal(t, "Home", all[1].Name)
	assert.Equal(t, "Work", all[2].Name)
}

func TestDeleteProfile(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, testProfile("p1")))
	require.NoError(t, store.DeleteProfile(ctx, "p1"))

	_, err := store.GetProfile(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteProfile(ctx, "p1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPlanRoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	plan := &model.LayoutPlan{
		ProfileID: "p1",
		Recommended: []model.LayoutAssignment{
			{AppID: "maps", Slot: model.Slot{Type: model.SlotTypeApp, Row: 5, Column: 0}},
			{AppID: "mail", Slot: model.Slot{Type: model.SlotTypeDock, Column: 1}},
		},
		CurrentScore:     model.ScoreBreakdown{UtilityScore: 0.4},
		RecommendedScore: model.ScoreBreakdown{UtilityScore: 0.55},
	}
	require.NoError(t, store.SavePlan(ctx, plan))
	require.NotEmpty(t, plan.ID)
	require.False(t, plan.CreatedAt.IsZero())

	got, err := store.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ProfileID, got.ProfileID)
	assert.Equal(t, plan.Recommended, got.Recommended)
	assert.InDelta(t, 0.15, got.Improvement(), 1e-9)
}

func TestLatestPlan(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	older := &model.LayoutPlan{
		ProfileID:   "p1",
		Recommended: []model.LayoutAssignment{},
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &model.LayoutPlan{
		ProfileID: "p1",
		Recommended: []model.LayoutAssignment{
			{AppID: "maps", Slot: model.Slot{Type: model.SlotTypeApp, Row: 5}},
		},
		CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	other := &model.LayoutPlan{
		ProfileID:   "p2",
		Recommended: []model.LayoutAssignment{},
		CreatedAt:   time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SavePlan(ctx, older))
	require.NoError(t, store.SavePlan(ctx, newer))
	require.NoError(t, store.SavePlan(ctx, other))

	got, err := store.LatestPlan(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = store.LatestPlan(ctx, "p3")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDraftRoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	draft := &model.GuidedApplyDraft{
		PlanID: "plan-1",
		Moves: []model.PlannedMove{
			{
				AppID:       "maps",
				DisplayName: "Maps",
				From:        model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 0},
				To:          model.Slot{Type: model.SlotTypeApp, Row: 5, Column: 0},
			},
			{
				AppID: "mail",
				From:  model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 2},
				To:    model.Slot{Type: model.SlotTypeDock, Column: 1},
				Done:  true,
			},
		},
		Cursor: 1,
	}
	require.NoError(t, store.SaveDraft(ctx, draft))
	require.NotEmpty(t, draft.ID)

	got, err := store.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Moves, got.Moves)
	assert.Equal(t, 1, got.Cursor)
	assert.Equal(t, 1, got.Remaining())
}

func TestLatestDraftTracksUpdates(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	first := &model.GuidedApplyDraft{PlanID: "plan-1", Moves: []model.PlannedMove{{AppID: "a"}}}
	require.NoError(t, store.SaveDraft(ctx, first))

	second := &model.GuidedApplyDraft{PlanID: "plan-1", Moves: []model.PlannedMove{{AppID: "b"}}}
	require.NoError(t, store.SaveDraft(ctx, second))

	// Advancing the cursor on the first draft makes it the latest again.
	first.Cursor = 1
	first.Moves[0].Done = true
	first.UpdatedAt = time.Now().UTC().Add(time.Second)
	_, err := store.db.ExecContext(ctx, `UPDATE drafts SET updated_at = ? WHERE id = ?`, first.UpdatedAt, first.ID)
	require.NoError(t, err)

	got, err := store.LatestDraft(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestDeleteDraft(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	draft := &model.GuidedApplyDraft{PlanID: "plan-1", Moves: []model.PlannedMove{}}
	require.NoError(t, store.SaveDraft(ctx, draft))
	require.NoError(t, store.DeleteDraft(ctx, draft.ID))

	_, err := store.GetDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLatestDetectionsKeepsNewestPerPage(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	stale := &model.HomeScreenDetection{
		Page: 0, Rows: 6, Columns: 4,
		Apps: []model.DetectedAppSlot{
			{AppName: "Maps", Slot: model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 0}},
		},
	}
	fresh := &model.HomeScreenDetection{
		Page: 0, Rows: 6, Columns: 4,
		Apps: []model.DetectedAppSlot{
			{AppName: "Maps", Slot: model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 0}},
			{AppName: "Mail", Slot: model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 2}},
		},
	}
	second := &model.HomeScreenDetection{Page: 1, Rows: 6, Columns: 4}

	require.NoError(t, store.SaveDetection(ctx, stale))
	require.NoError(t, store.SaveDetection(ctx, second))
	require.NoError(t, store.SaveDetection(ctx, fresh))

	got, err := store.LatestDetections(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Page)
	assert.Len(t, got[0].Apps, 2)
	assert.Equal(t, 1, got[1].Page)
}

func TestLatestDetectionsEmpty(t *testing.T) {
	store := setupTestStorage(t)

	got, err := store.LatestDetections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		id := NewID()
		assert.Len(t, id, 32)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
