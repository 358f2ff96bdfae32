// Package gridmap turns one page's located text candidates into a discrete
// home-screen detection: app cells, dock cells, and the cells inferred to
// be covered by widgets.
package gridmap

import (
	"math"
	"sort"
	"strings"

	"github.com/gridsense/gridsense/internal/canonical"
	"github.com/gridsense/gridsense/internal/config"
	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/normalize"
)

// Admissibility limits for icon captions. Captions are short, narrow and
// sit in known vertical bands; anything bigger is widget or chrome text.
const (
	maxLabelWidth       = 0.34
	maxLabelHeight      = 0.11
	maxAspect           = 13.5
	wideAspect          = 11.5
	wideAspectWidth     = 0.16
	minLabelY           = 0.08
	maxLabelY           = 0.99
	topOverhangWidth    = 0.14
	maxLabelWords       = 3
	phraseRejectWidth   = 0.22
	fitnessBase         = 0.70
	fitnessBandWeight   = 0.30
	fitnessBandCenter   = 0.72
	fitnessBandSigma    = 0.24
	duplicateRowBonus   = 0.04
)

// Widget inference thresholds. A widget signal is either a physically large
// detection, a multi-word phrase wider than any icon caption, or calendar /
// weather vocabulary with non-trivial extent.
const (
	largeSignalWidth   = 0.24
	largeSignalHeight  = 0.07
	phraseSignalWidth  = 0.14
	phraseSignalHeight = 0.035
	vocabSignalWidth   = 0.10
	vocabSignalHeight  = 0.03
	strongWideWidth    = 0.20
	maxWidgetAnchorRow = 2
	maxWidgetCoverRow  = 1

	topLockSpreadWide   = 0.33
	topLockSpreadAlone  = 0.58
	topLockSpreadStrong = 0.48
	topLockSpreadMany   = 0.42
)

// Mapper maps located candidates onto a rows-by-columns grid.
type Mapper struct {
	geom   config.GridGeometry
	canon  *canonical.Canonicalizer
	stop   map[string]struct{}
	vocab  []string
}

// New creates a Mapper for the given geometry and filter vocabulary. The
// canonicalizer folds OCR variants of one app name during duplicate
// resolution.
func New(geom config.GridGeometry, filter config.FilterConfig, canon *canonical.Canonicalizer) *Mapper {
	stop := make(map[string]struct{}, len(filter.StopTerms))
	for _, t := range filter.StopTerms {
		stop[strings.ToLower(t)] = struct{}{}
	}
	vocab := make([]string, len(filter.WidgetVocabulary))
	for i, t := range filter.WidgetVocabulary {
		vocab[i] = strings.ToLower(t)
	}
	return &Mapper{geom: geom, canon: canon, stop: stop, vocab: vocab}
}

type scoredSlot struct {
	candidate model.TextCandidate
	slot      model.Slot
	fitness   float64
}

// MapPage maps one screenshot page's candidates to a HomeScreenDetection.
// Non-positive grid dimensions yield an empty detection with the dimensions
// clamped to zero; this is a degraded result, not an error.
func (m *Mapper) MapPage(page int, candidates []model.TextCandidate) model.HomeScreenDetection {
	rows, cols := m.geom.Rows, m.geom.Columns
	if rows <= 0 || cols <= 0 {
		return model.HomeScreenDetection{
			Page:    page,
			Rows:    maxInt(rows, 0),
			Columns: maxInt(cols, 0),
		}
	}

	locked := m.inferWidgetCells(page, candidates)

	// Best candidate per slot, accumulated as a fold over the stream.
	best := make(map[model.Slot]scoredSlot)
	for _, c := range candidates {
		cleaned := c
		cleaned.Text = normalize.CleanText(c.Text)
		if !m.isLikelyAppLabel(cleaned) {
			continue
		}

		slot, fitness, ok := m.assignSlot(page, cleaned)
		if !ok {
			continue
		}
		if _, isLocked := locked[slot]; isLocked && slot.Type == model.SlotTypeApp {
			continue
		}

		prev, seen := best[slot]
		if !seen || fitness > prev.fitness ||
			(fitness == prev.fitness && cleaned.Text < prev.candidate.Text) {
			best[slot] = scoredSlot{candidate: cleaned, slot: slot, fitness: fitness}
		}
	}

	winners := make([]scoredSlot, 0, len(best))
	for _, s := range best {
		winners = append(winners, s)
	}

	apps := m.resolveDuplicates(winners, locked)

	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Slot != apps[j].Slot {
			return apps[i].Slot.Less(apps[j].Slot)
		}
		return apps[i].AppName < apps[j].AppName
	})

	widgetCells := make([]model.Slot, 0, len(locked))
	for s := range locked {
		widgetCells = append(widgetCells, s)
	}
	sort.Slice(widgetCells, func(i, j int) bool {
		if widgetCells[i].Row != widgetCells[j].Row {
			return widgetCells[i].Row < widgetCells[j].Row
		}
		return widgetCells[i].Column < widgetCells[j].Column
	})

	return model.HomeScreenDetection{
		Page:        page,
		Rows:        rows,
		Columns:     cols,
		Apps:        apps,
		WidgetCells: widgetCells,
	}
}

// isLikelyAppLabel is the admissibility filter for icon captions. Geometry
// checks pass when the recognizer reported no box for the candidate.
func (m *Mapper) isLikelyAppLabel(c model.TextCandidate) bool {
	text := c.Text
	if len(text) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	if _, stop := m.stop[lower]; stop {
		return false
	}
	if isShortDigitToken(text) {
		return false
	}
	words := len(strings.Fields(text))
	if words > maxLabelWords {
		return false
	}

	w, h := c.BoxWidth, c.BoxHeight
	if w > maxLabelWidth {
		return false
	}
	if h > maxLabelHeight {
		return false
	}
	if w > 0 && h > 0 {
		aspect := w / h
		if aspect > maxAspect {
			return false
		}
		if aspect > wideAspect && w > wideAspectWidth {
			return false
		}
	}

	y := c.YFromTop()
	if y < minLabelY || y > maxLabelY {
		return false
	}
	if y < m.geom.AppGridTopY-m.geom.TopOverhang && w > topOverhangWidth {
		return false
	}
	// Dead zone between the app grid and the dock (page dots live there).
	if y > m.geom.AppGridBottomY+m.geom.TopEdgeTolerance && y < m.geom.DockTopY {
		return false
	}
	if words >= 2 && w > phraseRejectWidth {
		return false
	}
	return true
}

// assignSlot resolves a candidate to a dock or app-grid slot and computes
// its fitness. Dock fitness is raw confidence; app-grid fitness trusts
// captions sitting near the usual caption offset inside their row more than
// captions near a row's top edge, which are likelier bleed from the row
// above.
func (m *Mapper) assignSlot(page int, c model.TextCandidate) (model.Slot, float64, bool) {
	col := m.columnFor(c.CenterX)
	y := c.YFromTop()

	if y >= m.geom.DockTopY && y <= m.geom.DockBottomY {
		slot := model.Slot{Type: model.SlotTypeDock, Page: page, Row: 0, Column: col}
		return slot, c.Confidence, true
	}
	if y > m.geom.DockBottomY {
		return model.Slot{}, 0, false
	}
	if y < m.geom.AppGridTopY-m.geom.TopOverhang {
		return model.Slot{}, 0, false
	}

	rowFloat := m.rowFloat(y)
	row := int(math.Floor(rowFloat))
	if row < 0 {
		row = 0
	}
	if row > m.geom.Rows-1 {
		row = m.geom.Rows - 1
	}

	frac := rowFloat - float64(row)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	z := (frac - fitnessBandCenter) / fitnessBandSigma
	bandScore := math.Exp(-0.5 * z * z)
	fitness := c.Confidence * (fitnessBase + fitnessBandWeight*bandScore)

	slot := model.Slot{Type: model.SlotTypeApp, Page: page, Row: row, Column: col}
	return slot, fitness, true
}

func (m *Mapper) columnFor(x float64) int {
	if x < 0 {
		x = 0
	}
	if x > 0.9999 {
		x = 0.9999
	}
	return int(x * float64(m.geom.Columns))
}

// rowFloat maps a distance-from-top onto a fractional row index over the
// band from the grid top down to the dock bottom.
func (m *Mapper) rowFloat(y float64) float64 {
	span := m.geom.DockBottomY - m.geom.AppGridTopY
	if span <= 0 {
		return 0
	}
	return (y - m.geom.AppGridTopY) / span * float64(m.geom.Rows)
}

// resolveDuplicates folds same-page winners claiming the same canonical app
// name down to one slot each. The survivor is ranked by fitness plus a
// small lower-row bonus; displaced app cells at or above the survivor's row
// become widget-locked, correcting widget text mis-read as an icon caption
// above the genuine icon.
func (m *Mapper) resolveDuplicates(winners []scoredSlot, locked map[model.Slot]struct{}) []model.DetectedAppSlot {
	byName := make(map[string][]scoredSlot)
	for _, w := range winners {
		key := m.canon.CanonicalName(w.candidate.Text)
		byName[key] = append(byName[key], w)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []model.DetectedAppSlot
	for _, name := range names {
		group := byName[name]
		sort.Slice(group, func(i, j int) bool {
			ri := group[i].fitness + duplicateRowBonus*float64(group[i].slot.Row)
			rj := group[j].fitness + duplicateRowBonus*float64(group[j].slot.Row)
			if ri != rj {
				return ri > rj
			}
			if group[i].candidate.Confidence != group[j].candidate.Confidence {
				return group[i].candidate.Confidence > group[j].candidate.Confidence
			}
			return group[i].slot.Less(group[j].slot)
		})

		keep := group[0]
		out = append(out, model.DetectedAppSlot{
			AppName:     keep.candidate.Text,
			Confidence:  keep.candidate.Confidence,
			Slot:        keep.slot,
			LabelWidth:  keep.candidate.BoxWidth,
			LabelHeight: keep.candidate.BoxHeight,
		})

		for _, loser := range group[1:] {
			if loser.slot.Type == model.SlotTypeApp && loser.slot.Row <= keep.slot.Row {
				cell := loser.slot
				cell.Type = model.SlotTypeApp
				locked[cell] = struct{}{}
			}
		}
	}
	return out
}

func isShortDigitToken(text string) bool {
	if len(text) == 0 || len(text) > 2 {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
