// Package recognize is the boundary to the platform OCR service. The
// on-device recognizer itself lives outside this codebase; what ships here
// is the contract (see service.Recognizer) and a reader for recognition
// dumps exported from the device, so the pipeline can run offline against
// captured screenshots.
package recognize

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridsense/gridsense/internal/common"
	"github.com/gridsense/gridsense/internal/model"
)

// dumpEntry is one detection in an exported recognition dump. The box is
// origin plus size in normalized [0,1] coordinates with a bottom-left
// origin, exactly as the platform recognizer reports it.
type dumpEntry struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"box"`
}

// DumpReader implements service.Recognizer over recognition dumps exported
// as JSON files. A missing dump means recognition is unavailable for that
// capture; a dump that cannot be decoded is treated like an unreadable
// image.
type DumpReader struct{}

// NewDumpReader creates a DumpReader.
func NewDumpReader() *DumpReader {
	return &DumpReader{}
}

// Recognize reads the dump at source and converts its detections into text
// candidates. An empty dump is a valid empty result, not an error.
func (r *DumpReader) Recognize(_ context.Context, source string) ([]model.TextCandidate, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: reading recognition dump %q: %v",
			common.ErrRecognitionUnavailable, source, err)
	}

	var entries []dumpEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decoding recognition dump %q: %v",
			common.ErrImageUnreadable, source, err)
	}

	candidates := make([]model.TextCandidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, model.TextCandidate{
			Text:       e.Text,
			Confidence: e.Confidence,
			CenterX:    e.Box.X + e.Box.W/2,
			CenterY:    e.Box.Y + e.Box.H/2,
			BoxWidth:   e.Box.W,
			BoxHeight:  e.Box.H,
		})
	}
	return candidates, nil
}
