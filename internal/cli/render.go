package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gridsense/gridsense/internal/model"
)

const cellWidth = 12

// RenderDetection draws one mapped home-screen page as a text grid, with
// the dock row separated below it.
func RenderDetection(d *model.HomeScreenDetection) string {
	if d == nil || d.Rows <= 0 || d.Columns <= 0 {
		return SubtleStyle.Render("(empty page)")
	}

	cells := make(map[model.Slot]string, len(d.Apps))
	dock := make([]string, 0, 4)
	for _, app := range d.Apps {
		if app.Slot.Type == model.SlotTypeDock {
			dock = append(dock, app.AppName)
			continue
		}
		cells[app.Slot] = app.AppName
	}
	widgets := make(map[model.Slot]bool, len(d.WidgetCells))
	for _, w := range d.WidgetCells {
		widgets[model.Slot{Type: model.SlotTypeApp, Page: w.Page, Row: w.Row, Column: w.Column}] = true
	}

	lines := make([]string, 0, d.Rows+2)
	lines = append(lines, TitleStyle.UnsetMargins().Render(fmt.Sprintf("Page %d", d.Page+1)))
	// Row 0 is the top row of the grid, right under any widgets.
	for row := 0; row < d.Rows; row++ {
		var b strings.Builder
		for col := 0; col < d.Columns; col++ {
			key := model.Slot{Type: model.SlotTypeApp, Page: d.Page, Row: row, Column: col}
			switch {
			case widgets[key]:
				b.WriteString(WidgetCellStyle.Render("[widget]"))
			case cells[key] != "":
				b.WriteString(CellStyle.Render(truncateCell(cells[key])))
			default:
				b.WriteString(SubtleStyle.Width(cellWidth).Align(lipgloss.Center).Render("·"))
			}
		}
		lines = append(lines, b.String())
	}
	if len(dock) > 0 {
		var b strings.Builder
		for _, name := range dock {
			b.WriteString(CellStyle.Render(truncateCell(name)))
		}
		lines = append(lines, DockStyle.Render(b.String()))
	}
	return strings.Join(lines, "\n")
}

// RenderUsage draws parsed screen-time entries as an aligned table, highest
// usage first.
func RenderUsage(entries []model.ScreenTimeUsageEntry) string {
	if len(entries) == 0 {
		return SubtleStyle.Render("(no usage entries)")
	}

	width := 0
	for _, e := range entries {
		if len(e.AppName) > width {
			width = len(e.AppName)
		}
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, e.AppName, formatMinutes(e.MinutesPerDay)))
	}
	return strings.Join(lines, "\n")
}

// RenderPlan summarizes a layout plan: the score delta and the moves that
// realize it, ordered by destination slot.
func RenderPlan(plan *model.LayoutPlan, current map[string]model.Slot, names map[string]string) string {
	if plan == nil || len(plan.Recommended) == 0 {
		return SubtleStyle.Render("(no recommendation)")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Current score:     %.3f\n", plan.CurrentScore.Aggregate()))
	b.WriteString(fmt.Sprintf("Recommended score: %.3f\n", plan.RecommendedScore.Aggregate()))
	delta := plan.Improvement()
	improvement := fmt.Sprintf("Improvement:       %+.3f", delta)
	if delta > 0 {
		b.WriteString(SuccessStyle.Render(improvement))
	} else {
		b.WriteString(SubtleStyle.Render(improvement))
	}
	b.WriteString("\n")

	moves := PlanMoves(plan, current, names)
	if len(moves) == 0 {
		b.WriteString("\n" + FormatSuccess("Everything is already where it belongs."))
		return b.String()
	}

	b.WriteString("\nMoves:\n")
	for i, m := range moves {
		b.WriteString(fmt.Sprintf("  %2d. %s  %s → %s\n",
			i+1, BoldStyle.Render(m.DisplayName), FormatSlot(m.From), FormatSlot(m.To)))
	}
	return b.String()
}

// PlanMoves derives the ordered move list from a plan: every app whose
// recommended slot differs from its current one, sorted by destination.
func PlanMoves(plan *model.LayoutPlan, current map[string]model.Slot, names map[string]string) []model.PlannedMove {
	if plan == nil {
		return nil
	}
	moves := make([]model.PlannedMove, 0, len(plan.Recommended))
	for _, a := range plan.Recommended {
		from, known := current[a.AppID]
		if known && from == a.Slot {
			continue
		}
		name := names[a.AppID]
		if name == "" {
			name = a.AppID
		}
		moves = append(moves, model.PlannedMove{
			AppID:       a.AppID,
			DisplayName: name,
			From:        from,
			To:          a.Slot,
		})
	}
	sort.Slice(moves, func(i, j int) bool {
		if moves[i].To != moves[j].To {
			return moves[i].To.Less(moves[j].To)
		}
		return moves[i].AppID < moves[j].AppID
	})
	return moves
}

// FormatSlot renders a slot as a short human-readable location.
func FormatSlot(s model.Slot) string {
	switch s.Type {
	case model.SlotTypeDock:
		return fmt.Sprintf("dock %d", s.Column+1)
	case model.SlotTypeHolding:
		return "holding area"
	case model.SlotTypeWidgetLocked:
		return fmt.Sprintf("page %d widget cell r%dc%d", s.Page+1, s.Row, s.Column)
	case "":
		return "unplaced"
	default:
		return fmt.Sprintf("page %d r%dc%d", s.Page+1, s.Row, s.Column)
	}
}

func formatMinutes(minutes float64) string {
	m := int(minutes + 0.5)
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh %dm", m/60, m%60)
}

func truncateCell(name string) string {
	const max = cellWidth - 2
	if len(name) <= max {
		return name
	}
	return name[:max-1] + "…"
}
