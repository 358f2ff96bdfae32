package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/gridsense/internal/model"
)

func TestFormatSlot(t *testing.T) {
	tests := []struct {
		name string
		slot model.Slot
		want string
	}{
		{
			name: "grid cell",
			slot: model.Slot{Type: model.SlotTypeApp, Page: 0, Row: 5, Column: 0},
			want: "page 1 r5c0",
		},
		{
			name: "dock",
			slot: model.Slot{Type: model.SlotTypeDock, Column: 2},
			want: "dock 3",
		},
		{
			name: "holding",
			slot: model.Slot{Type: model.SlotTypeHolding},
			want: "holding area",
		},
		{
			name: "unplaced",
			slot: model.Slot{},
			want: "unplaced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSlot(tt.slot))
		})
	}
}

func TestPlanMovesSkipsSettledApps(t *testing.T) {
	plan := &model.LayoutPlan{
		Recommended: []model.LayoutAssignment{
			{AppID: "maps", Slot: model.Slot{Type: model.SlotTypeApp, Row: 5, Column: 0}},
			{AppID: "mail", Slot: model.Slot{Type: model.SlotTypeDock, Column: 1}},
			{AppID: "camera", Slot: model.Slot{Type: model.SlotTypeApp, Row: 4, Column: 2}},
		},
	}
	current := map[string]model.Slot{
		"maps":   {Type: model.SlotTypeApp, Row: 0, Column: 0},
		"mail":   {Type: model.SlotTypeDock, Column: 1},
		"camera": {Type: model.SlotTypeApp, Row: 4, Column: 2},
	}
	names := map[string]string{"maps": "Maps", "mail": "Mail", "camera": "Camera"}

	moves := PlanMoves(plan, current, names)
	require.Len(t, moves, 1)
	assert.Equal(t, "Maps", moves[0].DisplayName)
	assert.Equal(t, current["maps"], moves[0].From)
	assert.Equal(t, plan.Recommended[0].Slot, moves[0].To)
}

func TestPlanMovesOrderedByDestination(t *testing.T) {
	plan := &model.LayoutPlan{
		Recommended: []model.LayoutAssignment{
			{AppID: "c", Slot: model.Slot{Type: model.SlotTypeApp, Page: 1, Row: 0, Column: 0}},
			{AppID: "a", Slot: model.Slot{Type: model.SlotTypeDock, Column: 0}},
			{AppID: "b", Slot: model.Slot{Type: model.SlotTypeApp, Page: 0, Row: 3, Column: 1}},
		},
	}

	moves := PlanMoves(plan, nil, nil)
	require.Len(t, moves, 3)
	assert.Equal(t, "b", moves[0].AppID)
	assert.Equal(t, "a", moves[1].AppID)
	assert.Equal(t, "c", moves[2].AppID)
}

func TestRenderDetectionDrawsTopRowFirst(t *testing.T) {
	d := &model.HomeScreenDetection{
		Page: 0, Rows: 6, Columns: 4,
		Apps: []model.DetectedAppSlot{
			{AppName: "Calendar", Slot: model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 0}},
			{AppName: "Camera", Slot: model.Slot{Type: model.SlotTypeApp, Row: 5, Column: 0}},
		},
		WidgetCells: []model.Slot{
			{Type: model.SlotTypeWidgetLocked, Row: 0, Column: 2},
		},
	}

	out := RenderDetection(d)
	top := strings.Index(out, "Calendar")
	bottom := strings.Index(out, "Camera")
	widget := strings.Index(out, "[widget]")
	require.NotEqual(t, -1, top)
	require.NotEqual(t, -1, bottom)
	require.NotEqual(t, -1, widget)
	assert.Less(t, top, bottom)
	assert.Less(t, widget, bottom)
}

func TestRenderDetectionMarksWidgets(t *testing.T) {
	d := &model.HomeScreenDetection{
		Page: 0, Rows: 2, Columns: 2,
		Apps: []model.DetectedAppSlot{
			{AppName: "Maps", Slot: model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 0}},
			{AppName: "Phone", Slot: model.Slot{Type: model.SlotTypeDock, Column: 0}},
		},
		WidgetCells: []model.Slot{
			{Type: model.SlotTypeWidgetLocked, Row: 1, Column: 0},
		},
	}

	out := RenderDetection(d)
	assert.Contains(t, out, "Maps")
	assert.Contains(t, out, "Phone")
	assert.Contains(t, out, "[widget]")
}

func TestRenderDetectionEmpty(t *testing.T) {
	assert.Contains(t, RenderDetection(nil), "empty page")
	assert.Contains(t, RenderDetection(&model.HomeScreenDetection{}), "empty page")
}

func TestRenderUsage(t *testing.T) {
	out := RenderUsage([]model.ScreenTimeUsageEntry{
		{AppName: "Instagram", MinutesPerDay: 80},
		{AppName: "Maps", MinutesPerDay: 45},
		{AppName: "Books", MinutesPerDay: 150},
	})
	assert.Contains(t, out, "1h 20m")
	assert.Contains(t, out, "45m")
	assert.Contains(t, out, "2h 30m")
}
