package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
)

func TestCatalogFromDetections(t *testing.T) {
	canon := newCanonicalizer(config.Default())
	detections := []*model.HomeScreenDetection{
		{
			Page: 0, Rows: 6, Columns: 4,
			Apps: []model.DetectedAppSlot{
				{AppName: "Maps", Slot: model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 0}},
				{AppName: "Phone", Slot: model.Slot{Type: model.SlotTypeDock, Column: 0}},
			},
		},
		{
			Page: 1, Rows: 6, Columns: 4,
			Apps: []model.DetectedAppSlot{
				// Same app seen again on another page keeps its first slot.
				{AppName: "maps", Slot: model.Slot{Type: model.SlotTypeApp, Page: 1, Row: 2, Column: 1}},
				{AppName: "Camera", Slot: model.Slot{Type: model.SlotTypeApp, Page: 1, Row: 4, Column: 2}},
			},
		},
	}

	apps, current, slots, names := catalogFromDetections(canon, detections)

	require.Len(t, apps, 3)
	require.Len(t, current, 3)
	assert.Equal(t, model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 0}, slots["maps"])
	assert.Equal(t, "Maps", names["maps"])
	assert.Contains(t, names, "phone")
	assert.Contains(t, names, "camera")
}

func TestApplyUsageScalesToMax(t *testing.T) {
	canon := newCanonicalizer(config.Default())
	apps := []model.AppItem{
		{ID: "instagram", DisplayName: "Instagram"},
		{ID: "maps", DisplayName: "Maps"},
		{ID: "camera", DisplayName: "Camera"},
	}
	entries := []model.ScreenTimeUsageEntry{
		{AppName: "Instagram", MinutesPerDay: 80},
		{AppName: "Maps", MinutesPerDay: 40},
		{AppName: "Unknown App", MinutesPerDay: 10},
	}

	matched := applyUsage(canon, apps, entries)

	assert.Equal(t, 2, matched)
	require.NotNil(t, apps[0].UsageScore)
	assert.InDelta(t, 1.0, *apps[0].UsageScore, 1e-9)
	require.NotNil(t, apps[1].UsageScore)
	assert.InDelta(t, 0.5, *apps[1].UsageScore, 1e-9)
	assert.Nil(t, apps[2].UsageScore)
}

func TestApplyUsageEmptyEntries(t *testing.T) {
	canon := newCanonicalizer(config.Default())
	apps := []model.AppItem{{ID: "maps", DisplayName: "Maps"}}

	assert.Equal(t, 0, applyUsage(canon, apps, nil))
	assert.Nil(t, apps[0].UsageScore)
}

func TestAppID(t *testing.T) {
	canon := newCanonicalizer(config.Default())

	assert.Equal(t, "google-maps", appID(canon, "Google Maps"))
	assert.Equal(t, "instagram", appID(canon, "Insta"))
}
