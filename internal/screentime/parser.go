// Package screentime recovers per-app daily usage estimates from the text
// detections of a usage-summary screenshot. Detections are grouped into
// visual rows, each row is read as "app name, duration", and OCR variants
// of the same app are folded together.
package screentime

import (
	"sort"
	"strings"

	"github.com/gridsense/gridsense/internal/canonical"
	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/normalize"
)

const (
	// rowClusterTolerance is how far a detection's Y may drift from its
	// row's anchor and still belong to the same visual row.
	rowClusterTolerance = 0.025

	minNameLen = 2
	maxNameLen = 32
)

// Parser extracts usage entries from located usage-screen candidates.
type Parser struct {
	stop  map[string]struct{}
	canon *canonical.Canonicalizer
}

// New creates a Parser with the given usage-screen stop terms.
func New(filter config.FilterConfig, canon *canonical.Canonicalizer) *Parser {
	stop := make(map[string]struct{}, len(filter.UsageStopTerms))
	for _, t := range filter.UsageStopTerms {
		stop[strings.ToLower(t)] = struct{}{}
	}
	return &Parser{stop: stop, canon: canon}
}

// ParseLocated groups located candidates into visual rows and extracts one
// usage entry per row that reads as an app name plus a duration. Duplicate
// apps keep the higher-confidence entry; output is ordered by descending
// minutes, ties by case-insensitive name.
func (p *Parser) ParseLocated(candidates []model.TextCandidate) []model.ScreenTimeUsageEntry {
	kept := make([]model.TextCandidate, 0, len(candidates))
	for _, c := range candidates {
		c.Text = normalize.CleanText(c.Text)
		if c.Text == "" || p.isStopTerm(c.Text) {
			continue
		}
		kept = append(kept, c)
	}

	var entries []model.ScreenTimeUsageEntry
	for _, row := range clusterRows(kept) {
		if entry, ok := p.parseRow(row); ok {
			entries = append(entries, entry)
		}
	}
	return p.finalize(entries)
}

// ParseLines applies the inline strategy to a plain, non-located text dump,
// one line per visual row.
func (p *Parser) ParseLines(lines []string) []model.ScreenTimeUsageEntry {
	var entries []model.ScreenTimeUsageEntry
	for _, line := range lines {
		text := normalize.CleanText(line)
		if text == "" || p.isStopTerm(text) {
			continue
		}
		if entry, ok := p.parseInline(strings.Fields(text), 1.0); ok {
			entries = append(entries, entry)
		}
	}
	return p.finalize(entries)
}

func (p *Parser) isStopTerm(text string) bool {
	_, ok := p.stop[strings.ToLower(text)]
	return ok
}

// clusterRows sorts candidates top-to-bottom, left-to-right and groups
// consecutive detections whose Y sits within the cluster tolerance of the
// row's first member.
func clusterRows(candidates []model.TextCandidate) [][]model.TextCandidate {
	sorted := make([]model.TextCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CenterY != sorted[j].CenterY {
			return sorted[i].CenterY > sorted[j].CenterY
		}
		return sorted[i].CenterX < sorted[j].CenterX
	})

	var rows [][]model.TextCandidate
	for _, c := range sorted {
		if len(rows) > 0 {
			anchor := rows[len(rows)-1][0]
			if abs(c.CenterY-anchor.CenterY) <= rowClusterTolerance {
				rows[len(rows)-1] = append(rows[len(rows)-1], c)
				continue
			}
		}
		rows = append(rows, []model.TextCandidate{c})
	}

	// Re-sort each row by X so reading order is stable regardless of the
	// Y jitter inside the row.
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].CenterX < row[j].CenterX
		})
	}
	return rows
}

// parseRow tries the inline strategy first, then the split-row strategy.
func (p *Parser) parseRow(row []model.TextCandidate) (model.ScreenTimeUsageEntry, bool) {
	var tokens []string
	var confSum float64
	for _, c := range row {
		tokens = append(tokens, strings.Fields(c.Text)...)
		confSum += c.Confidence
	}
	confidence := confSum / float64(len(row))

	if entry, ok := p.parseInline(tokens, confidence); ok {
		return entry, true
	}
	return p.parseSplit(tokens, confidence)
}

// parseInline treats the row as one line of text and scans token suffixes
// right to left for the longest suffix that parses as a duration; the
// remaining prefix is the app name.
func (p *Parser) parseInline(tokens []string, confidence float64) (model.ScreenTimeUsageEntry, bool) {
	for start := 0; start < len(tokens); start++ {
		suffix := strings.Join(tokens[start:], " ")
		minutes, ok := ParseDuration(suffix)
		if !ok {
			continue
		}
		name := strings.Join(tokens[:start], " ")
		if !p.acceptableName(name) {
			return model.ScreenTimeUsageEntry{}, false
		}
		return model.ScreenTimeUsageEntry{
			AppName:       name,
			MinutesPerDay: minutes,
			Confidence:    confidence,
		}, true
	}
	return model.ScreenTimeUsageEntry{}, false
}

// parseSplit handles rows where the duration is not a clean suffix: the
// single token with the largest parseable duration is the duration cell
// and everything else is the name.
func (p *Parser) parseSplit(tokens []string, confidence float64) (model.ScreenTimeUsageEntry, bool) {
	if len(tokens) < 2 {
		return model.ScreenTimeUsageEntry{}, false
	}

	bestIdx := -1
	bestMinutes := 0.0
	for i, tok := range tokens {
		if minutes, ok := ParseDuration(tok); ok && minutes > bestMinutes {
			bestIdx = i
			bestMinutes = minutes
		}
	}
	if bestIdx < 0 {
		return model.ScreenTimeUsageEntry{}, false
	}

	rest := make([]string, 0, len(tokens)-1)
	for i, tok := range tokens {
		if i != bestIdx {
			rest = append(rest, tok)
		}
	}
	name := strings.Join(rest, " ")
	if !p.acceptableName(name) {
		return model.ScreenTimeUsageEntry{}, false
	}
	return model.ScreenTimeUsageEntry{
		AppName:       name,
		MinutesPerDay: bestMinutes,
		Confidence:    confidence,
	}, true
}

func (p *Parser) acceptableName(name string) bool {
	runes := []rune(name)
	if len(runes) < minNameLen || len(runes) > maxNameLen {
		return false
	}
	if p.isStopTerm(name) {
		return false
	}
	if _, isDuration := ParseDuration(name); isDuration {
		return false
	}
	if isPureDigits(name) {
		return false
	}
	return true
}

func isPureDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// finalize folds duplicate canonical names keeping the higher-confidence
// entry, then orders by descending minutes with case-insensitive name
// ascending as the tiebreak.
func (p *Parser) finalize(entries []model.ScreenTimeUsageEntry) []model.ScreenTimeUsageEntry {
	best := make(map[string]model.ScreenTimeUsageEntry)
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		key := p.canon.CanonicalName(e.AppName)
		prev, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = e
			continue
		}
		if e.Confidence > prev.Confidence {
			best[key] = e
		}
	}

	out := make([]model.ScreenTimeUsageEntry, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MinutesPerDay != out[j].MinutesPerDay {
			return out[i].MinutesPerDay > out[j].MinutesPerDay
		}
		return strings.ToLower(out[i].AppName) < strings.ToLower(out[j].AppName)
	})
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
