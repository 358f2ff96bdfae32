// Package normalize cleans and deduplicates raw OCR text candidates before
// any spatial interpretation happens. It has no grid awareness; it only
// decides whether a detection's text could plausibly be an app label and
// collapses OCR duplicates down to their most confident instance.
package normalize

import (
	"sort"
	"strings"
	"unicode"

	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
)

const (
	minTextLen = 2
	maxTextLen = 24
	maxWords   = 4

	highQualityCount      = 12
	highQualityConfidence = 0.75
	medQualityCount       = 6
	medQualityConfidence  = 0.55
)

// Normalizer filters and deduplicates text candidates using an injected
// filtering vocabulary.
type Normalizer struct {
	stopTerms         map[string]struct{}
	ignoredSubstrings []string
}

// New creates a Normalizer from the given filter configuration.
func New(cfg config.FilterConfig) *Normalizer {
	stop := make(map[string]struct{}, len(cfg.StopTerms))
	for _, t := range cfg.StopTerms {
		stop[strings.ToLower(t)] = struct{}{}
	}
	return &Normalizer{
		stopTerms:         stop,
		ignoredSubstrings: lowerAll(cfg.IgnoredSubstrings),
	}
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// CleanText collapses whitespace runs to single spaces, trims the ends, and
// strips wrapping punctuation OCR tends to attach to icon captions.
func CleanText(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	s = strings.Trim(s, `"'()[]{}<>:;,`)
	return strings.TrimSpace(s)
}

// Normalize cleans one candidate and reports whether it survives the
// admissibility rules. The returned candidate carries the cleaned text.
func (n *Normalizer) Normalize(c model.TextCandidate) (model.TextCandidate, bool) {
	cleaned := CleanText(c.Text)
	if !n.acceptable(cleaned) {
		return model.TextCandidate{}, false
	}
	c.Text = cleaned
	return c, true
}

func (n *Normalizer) acceptable(text string) bool {
	runes := []rune(text)
	if len(runes) < minTextLen || len(runes) > maxTextLen {
		return false
	}
	if isPureDigits(text) {
		return false
	}
	if len(strings.Fields(text)) > maxWords {
		return false
	}
	for _, r := range runes {
		if !allowedRune(r) {
			return false
		}
	}
	lower := strings.ToLower(text)
	if _, stop := n.stopTerms[lower]; stop {
		return false
	}
	for _, sub := range n.ignoredSubstrings {
		if strings.Contains(lower, sub) {
			return false
		}
	}
	return true
}

func allowedRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '.', '_', '+', '-', '&', '\'':
		return true
	}
	return false
}

func isPureDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Process normalizes every candidate, then deduplicates by lower-cased text
// keeping the highest-confidence instance per key. Output is sorted by
// descending confidence with ties broken by ascending text, so repeated
// runs over identical input produce identical output.
func (n *Normalizer) Process(candidates []model.TextCandidate) []model.TextCandidate {
	best := make(map[string]model.TextCandidate)
	for _, raw := range candidates {
		c, ok := n.Normalize(raw)
		if !ok {
			continue
		}
		key := strings.ToLower(c.Text)
		if prev, seen := best[key]; !seen || c.Confidence > prev.Confidence {
			best[key] = c
		}
	}

	out := make([]model.TextCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// EstimateImportQuality grades one OCR pass after normalization: high needs
// at least 12 surviving candidates averaging 0.75 confidence, medium at
// least 6 averaging 0.55. Empty input is always low.
func (n *Normalizer) EstimateImportQuality(candidates []model.TextCandidate) model.ImportQuality {
	processed := n.Process(candidates)
	if len(processed) == 0 {
		return model.ImportQualityLow
	}

	var sum float64
	for _, c := range processed {
		sum += c.Confidence
	}
	mean := sum / float64(len(processed))

	switch {
	case len(processed) >= highQualityCount && mean >= highQualityConfidence:
		return model.ImportQualityHigh
	case len(processed) >= medQualityCount && mean >= medQualityConfidence:
		return model.ImportQualityMedium
	default:
		return model.ImportQualityLow
	}
}
