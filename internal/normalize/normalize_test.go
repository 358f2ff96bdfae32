package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
)

func newTestNormalizer() *Normalizer {
	return New(config.DefaultFilterConfig())
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		text     string
		wantText string
		wantOK   bool
	}{
		{
			name:     "plain app label",
			text:     "Maps",
			wantText: "Maps",
			wantOK:   true,
		},
		{
			name:     "collapses whitespace runs",
			text:     "  Google   Maps ",
			wantText: "Google Maps",
			wantOK:   true,
		},
		{
			name:     "strips wrapping punctuation",
			text:     `"Notes"`,
			wantText: "Notes",
			wantOK:   true,
		},
		{
			name:   "too short",
			text:   "M",
			wantOK: false,
		},
		{
			name:   "too long",
			text:   "this caption is far too long to be an icon",
			wantOK: false,
		},
		{
			name:   "pure digits",
			text:   "1234",
			wantOK: false,
		},
		{
			name:   "too many words",
			text:   "one two three four five",
			wantOK: false,
		},
		{
			name:   "disallowed characters",
			text:   "50% off",
			wantOK: false,
		},
		{
			name:   "stop term case insensitive",
			text:   "SEARCH",
			wantOK: false,
		},
		{
			name:   "stop term battery",
			text:   "Battery",
			wantOK: false,
		},
		{
			name:     "allowed punctuation survives",
			text:     "B&H Photo",
			wantText: "B&H Photo",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Normalize(model.TextCandidate{Text: tt.text, Confidence: 0.9})
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantText, got.Text)
			}
		})
	}
}

func TestProcess_DeduplicatesByHighestConfidence(t *testing.T) {
	n := newTestNormalizer()

	in := []model.TextCandidate{
		{Text: "Maps", Confidence: 0.60},
		{Text: "maps", Confidence: 0.92},
		{Text: "MAPS ", Confidence: 0.75},
		{Text: "Mail", Confidence: 0.88},
	}

	out := n.Process(in)
	require.Len(t, out, 2)

	// Sorted by descending confidence.
	assert.Equal(t, "maps", out[0].Text)
	assert.InDelta(t, 0.92, out[0].Confidence, 1e-9)
	assert.Equal(t, "Mail", out[1].Text)

	// Survivor confidence dominates every discarded duplicate.
	for _, c := range in {
		if c.Text != "Mail" {
			assert.GreaterOrEqual(t, out[0].Confidence, c.Confidence)
		}
	}
}

func TestProcess_Idempotent(t *testing.T) {
	n := newTestNormalizer()

	in := []model.TextCandidate{
		{Text: " Photos ", Confidence: 0.8},
		{Text: "Camera", Confidence: 0.7},
		{Text: "photos", Confidence: 0.9},
		{Text: "Search", Confidence: 0.99},
	}

	once := n.Process(in)
	twice := n.Process(once)
	assert.Equal(t, once, twice)
}

func TestProcess_TieBrokenByText(t *testing.T) {
	n := newTestNormalizer()

	out := n.Process([]model.TextCandidate{
		{Text: "Notes", Confidence: 0.8},
		{Text: "Files", Confidence: 0.8},
	})
	require.Len(t, out, 2)
	assert.Equal(t, "Files", out[0].Text)
	assert.Equal(t, "Notes", out[1].Text)
}

func TestEstimateImportQuality(t *testing.T) {
	n := newTestNormalizer()

	many := func(count int, confidence float64) []model.TextCandidate {
		out := make([]model.TextCandidate, count)
		names := []string{
			"Maps", "Mail", "Notes", "Files", "Music", "Photos", "Camera",
			"Safari", "Weather App", "Clock", "Health", "Wallet", "Translate",
			"Podcasts", "Shortcuts",
		}
		for i := range out {
			out[i] = model.TextCandidate{Text: names[i%len(names)], Confidence: confidence}
		}
		return out
	}

	tests := []struct {
		name string
		in   []model.TextCandidate
		want model.ImportQuality
	}{
		{"empty is low", nil, model.ImportQualityLow},
		{"dense and confident is high", many(14, 0.85), model.ImportQualityHigh},
		{"sparse but confident is medium", many(7, 0.85), model.ImportQualityMedium},
		{"dense but uncertain is medium", many(14, 0.60), model.ImportQualityMedium},
		{"few and uncertain is low", many(3, 0.40), model.ImportQualityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.EstimateImportQuality(tt.in))
		})
	}
}
