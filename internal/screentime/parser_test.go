package screentime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/gridsense/internal/canonical"
	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
)

func newTestParser() *Parser {
	canon := canonical.New(canonical.DefaultVocabulary(), config.DefaultMatchConfig())
	return New(config.DefaultFilterConfig(), canon)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1h 20m", 80, true},
		{"1 h 20 min", 80, true},
		{"2,5 h", 150, true},
		{"2.5h", 150, true},
		{"1.30", 90, true},
		{"1:30", 90, true},
		{"45m", 45, true},
		{"3h", 180, true},
		{"12 minutes", 12, true},
		{"0m", 0, false},
		{"0h 0m", 0, false},
		{"1.75", 0, false},
		{"Instagram", 0, false},
		{"", 0, false},
		{"45", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDuration(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseLocated_ReferenceFixture(t *testing.T) {
	p := newTestParser()

	entries := p.ParseLocated([]model.TextCandidate{
		{Text: "Instagram", Confidence: 0.9, CenterX: 0.15, CenterY: 0.82},
		{Text: "1h 20m", Confidence: 0.9, CenterX: 0.84, CenterY: 0.82},
		{Text: "Maps", Confidence: 0.9, CenterX: 0.18, CenterY: 0.74},
		{Text: "45m", Confidence: 0.9, CenterX: 0.85, CenterY: 0.74},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "Instagram", entries[0].AppName)
	assert.InDelta(t, 80.0, entries[0].MinutesPerDay, 1e-9)
	assert.Equal(t, "Maps", entries[1].AppName)
	assert.InDelta(t, 45.0, entries[1].MinutesPerDay, 1e-9)
}

func TestParseLocated_StopTermsDiscarded(t *testing.T) {
	p := newTestParser()

	entries := p.ParseLocated([]model.TextCandidate{
		{Text: "Most Used", Confidence: 0.95, CenterX: 0.2, CenterY: 0.95},
		{Text: "Last 7 Days", Confidence: 0.95, CenterX: 0.8, CenterY: 0.95},
		{Text: "YouTube", Confidence: 0.9, CenterX: 0.15, CenterY: 0.70},
		{Text: "2:15", Confidence: 0.9, CenterX: 0.85, CenterY: 0.70},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "YouTube", entries[0].AppName)
	assert.InDelta(t, 135.0, entries[0].MinutesPerDay, 1e-9)
}

func TestParseLocated_SplitRowStrategy(t *testing.T) {
	p := newTestParser()

	// Duration cell read before the name, so the inline suffix scan fails
	// and the split strategy has to find the duration token.
	entries := p.ParseLocated([]model.TextCandidate{
		{Text: "45m", Confidence: 0.9, CenterX: 0.10, CenterY: 0.70},
		{Text: "Maps", Confidence: 0.9, CenterX: 0.60, CenterY: 0.70},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "Maps", entries[0].AppName)
	assert.InDelta(t, 45.0, entries[0].MinutesPerDay, 1e-9)
}

func TestParseLocated_DuplicatesFoldByCanonicalName(t *testing.T) {
	p := newTestParser()

	entries := p.ParseLocated([]model.TextCandidate{
		{Text: "Instagram", Confidence: 0.95, CenterX: 0.15, CenterY: 0.82},
		{Text: "1h 20m", Confidence: 0.95, CenterX: 0.84, CenterY: 0.82},
		// The alias "Insta" folds into the same canonical app; the lower
		// confidence copy loses.
		{Text: "Insta", Confidence: 0.60, CenterX: 0.15, CenterY: 0.60},
		{Text: "55m", Confidence: 0.60, CenterX: 0.84, CenterY: 0.60},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "Instagram", entries[0].AppName)
	assert.InDelta(t, 80.0, entries[0].MinutesPerDay, 1e-9)
}

func TestParseLocated_OrderingAndTies(t *testing.T) {
	p := newTestParser()

	entries := p.ParseLocated([]model.TextCandidate{
		{Text: "Zillow", Confidence: 0.9, CenterX: 0.15, CenterY: 0.90},
		{Text: "30m", Confidence: 0.9, CenterX: 0.84, CenterY: 0.90},
		{Text: "Amazon", Confidence: 0.9, CenterX: 0.15, CenterY: 0.80},
		{Text: "30m", Confidence: 0.9, CenterX: 0.84, CenterY: 0.80},
		{Text: "Reddit", Confidence: 0.9, CenterX: 0.15, CenterY: 0.70},
		{Text: "2h", Confidence: 0.9, CenterX: 0.84, CenterY: 0.70},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "Reddit", entries[0].AppName)
	assert.Equal(t, "Amazon", entries[1].AppName)
	assert.Equal(t, "Zillow", entries[2].AppName)
}

func TestParseLocated_RejectsDurationOnlyAndDigitNames(t *testing.T) {
	p := newTestParser()

	entries := p.ParseLocated([]model.TextCandidate{
		// A row that is all duration: no name to attach it to.
		{Text: "1h 20m", Confidence: 0.9, CenterX: 0.5, CenterY: 0.9},
		// A row whose name would be pure digits.
		{Text: "2048", Confidence: 0.9, CenterX: 0.15, CenterY: 0.7},
		{Text: "15m", Confidence: 0.9, CenterX: 0.85, CenterY: 0.7},
	})

	assert.Empty(t, entries)
}

func TestParseLines(t *testing.T) {
	p := newTestParser()

	entries := p.ParseLines([]string{
		"Screen Time",
		"Instagram 1h 20m",
		"Maps 45m",
		"",
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "Instagram", entries[0].AppName)
	assert.InDelta(t, 80.0, entries[0].MinutesPerDay, 1e-9)
	assert.InDelta(t, 1.0, entries[0].Confidence, 1e-9)
	assert.Equal(t, "Maps", entries[1].AppName)
}
