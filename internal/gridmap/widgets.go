package gridmap

import (
	"math"
	"strings"

	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/normalize"
)

type widgetSignal struct {
	candidate model.TextCandidate
	anchorRow int
	anchorCol int
	strong    bool
	wide      bool
	slack     bool
}

// inferWidgetCells scans every candidate on the page, admissible or not,
// for widget evidence and returns the set of app-grid cells a widget is
// inferred to cover. Widgets live in the top band of the grid, so covered
// cells are confined to the top two rows.
func (m *Mapper) inferWidgetCells(page int, candidates []model.TextCandidate) map[model.Slot]struct{} {
	locked := make(map[model.Slot]struct{})

	var signals []widgetSignal
	for _, c := range candidates {
		c.Text = normalize.CleanText(c.Text)
		sig, ok := m.classifyWidgetSignal(c)
		if !ok {
			continue
		}
		signals = append(signals, sig)
		m.coverCells(page, sig, locked)
	}

	if m.shouldLockTopBand(signals) {
		for row := 0; row <= maxWidgetCoverRow; row++ {
			for col := 0; col < m.geom.Columns; col++ {
				locked[model.Slot{Type: model.SlotTypeApp, Page: page, Row: row, Column: col}] = struct{}{}
			}
		}
	}
	return locked
}

// classifyWidgetSignal decides whether a candidate is widget evidence: a
// physically large detection, a wide multi-word phrase, or calendar/weather
// vocabulary with real extent. Candidates without geometry never qualify.
func (m *Mapper) classifyWidgetSignal(c model.TextCandidate) (widgetSignal, bool) {
	w, h := c.BoxWidth, c.BoxHeight
	words := len(strings.Fields(c.Text))

	large := w > largeSignalWidth || h > largeSignalHeight
	phrase := words >= 2 && w > phraseSignalWidth && h > phraseSignalHeight
	vocab := m.matchesWidgetVocabulary(c.Text) && w > vocabSignalWidth && h > vocabSignalHeight
	if !large && !phrase && !vocab {
		return widgetSignal{}, false
	}

	row := int(math.Floor(m.rowFloat(c.YFromTop())))
	if row < 0 {
		row = 0
	}
	if row > maxWidgetAnchorRow {
		return widgetSignal{}, false
	}

	return widgetSignal{
		candidate: c,
		anchorRow: row,
		anchorCol: m.columnFor(c.CenterX),
		strong:    large,
		wide:      w > strongWideWidth,
		slack:     large || phrase,
	}, true
}

func (m *Mapper) matchesWidgetVocabulary(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range m.vocab {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// coverCells unions the rectangle of cells a signal's label spans into the
// locked set. Large and phrase signals get one extra column of slack since
// their true extent usually exceeds the recognized text box.
func (m *Mapper) coverCells(page int, sig widgetSignal, locked map[model.Slot]struct{}) {
	cellsWide := int(math.Ceil(sig.candidate.BoxWidth * float64(m.geom.Columns)))
	if cellsWide < 1 {
		cellsWide = 1
	}
	rowSpan := m.geom.DockBottomY - m.geom.AppGridTopY
	cellsHigh := 1
	if rowSpan > 0 {
		cellsHigh = int(math.Ceil(sig.candidate.BoxHeight * float64(m.geom.Rows) / rowSpan))
		if cellsHigh < 1 {
			cellsHigh = 1
		}
	}
	if sig.slack {
		cellsWide++
	}

	startCol := sig.anchorCol - (cellsWide-1)/2
	endCol := startCol + cellsWide - 1
	if startCol < 0 {
		startCol = 0
	}
	if endCol > m.geom.Columns-1 {
		endCol = m.geom.Columns - 1
	}

	startRow := sig.anchorRow
	endRow := sig.anchorRow + cellsHigh - 1
	if startRow > maxWidgetCoverRow {
		return
	}
	if endRow > maxWidgetCoverRow {
		endRow = maxWidgetCoverRow
	}

	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			locked[model.Slot{Type: model.SlotTypeApp, Page: page, Row: row, Column: col}] = struct{}{}
		}
	}
}

// shouldLockTopBand detects widget stacks OCR could not cleanly bound: when
// several top-band signals spread across the screen, the whole top two rows
// are treated as widget-covered.
func (m *Mapper) shouldLockTopBand(signals []widgetSignal) bool {
	var topBand []widgetSignal
	for _, s := range signals {
		if s.anchorRow <= maxWidgetCoverRow {
			topBand = append(topBand, s)
		}
	}
	if len(topBand) < 2 {
		return false
	}

	minX, maxX := 1.0, 0.0
	strong, strongWide := 0, 0
	for _, s := range topBand {
		x := s.candidate.CenterX
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if s.strong {
			strong++
		}
		if s.strong && s.wide {
			strongWide++
		}
	}
	spread := maxX - minX

	switch {
	case strongWide >= 2 && spread >= topLockSpreadWide:
		return true
	case spread >= topLockSpreadAlone:
		return true
	case strong >= 1 && spread >= topLockSpreadStrong:
		return true
	case strong >= 1 && len(topBand) >= 3 && spread >= topLockSpreadMany:
		return true
	}
	return false
}
