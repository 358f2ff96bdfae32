package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
)

type dumpBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type dumpDetection struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        dumpBox `json:"box"`
}

func writeRecognitionDump(t *testing.T, name string, entries []dumpDetection) string {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestScanPagesKeepsDuplicateCopiesForTheMapper(t *testing.T) {
	// The same label read twice on one page: a high-confidence copy inside
	// a widget near the top, and the genuine icon caption near the bottom.
	// The caption's cell must win and the widget copy's cell end up locked,
	// which only works if both copies reach the mapper.
	dump := writeRecognitionDump(t, "page0.json", []dumpDetection{
		{Text: "Maps", Confidence: 0.95, Box: dumpBox{X: 0.60, Y: 0.83}},
		{Text: "Maps", Confidence: 0.90, Box: dumpBox{X: 0.60, Y: 0.20}},
		{Text: "Camera", Confidence: 0.90, Box: dumpBox{X: 0.10, Y: 0.20}},
	})

	detections, err := scanPages(context.Background(), config.Default(), []string{dump})
	require.NoError(t, err)
	require.Len(t, detections, 1)

	var maps *model.DetectedAppSlot
	for i := range detections[0].Apps {
		if detections[0].Apps[i].AppName == "Maps" {
			require.Nil(t, maps, "Maps mapped to more than one cell")
			maps = &detections[0].Apps[i]
		}
	}
	require.NotNil(t, maps)
	assert.Equal(t, 4, maps.Slot.Row)
	assert.Contains(t, detections[0].WidgetCells,
		model.Slot{Type: model.SlotTypeApp, Row: 0, Column: 2})
}
