package tui

import (
	"fmt"
	"strings"

	"github.com/gridsense/gridsense/internal/cli"
)

// View renders the walkthrough.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.draft.Moves) == 0 {
		return cli.FormatSuccess("Nothing to move.") + "\n"
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle("Guided apply"))
	b.WriteString("\n\n")

	total := len(m.draft.Moves)
	done := total - m.draft.Remaining()
	b.WriteString(m.progress.ViewAs(float64(done) / float64(total)))
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("  %d/%d", done, total)))
	b.WriteString("\n\n")

	idx := m.currentIndex()
	if idx < 0 {
		b.WriteString(cli.FormatSuccess("All moves placed!"))
		b.WriteString("\n")
		return b.String()
	}

	current := m.draft.Moves[idx]
	b.WriteString(cli.BoldStyle.Render(current.DisplayName))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  →  %s\n\n",
		cli.SubtleStyle.Render(cli.FormatSlot(current.From)),
		cli.InfoStyle.Render(cli.FormatSlot(current.To))))

	b.WriteString(m.renderQueue(idx))

	if m.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(cli.FormatWarning("Could not save progress: " + m.saveErr.Error()))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	b.WriteString("\n")
	return b.String()
}

// renderQueue shows a short window of surrounding moves with their status.
func (m Model) renderQueue(current int) string {
	const window = 5
	start := current - 1
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.draft.Moves) {
		end = len(m.draft.Moves)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		mv := m.draft.Moves[i]
		line := fmt.Sprintf("%s → %s", mv.DisplayName, cli.FormatSlot(mv.To))
		switch {
		case mv.Done:
			b.WriteString(cli.SuccessStyle.Render("  " + cli.SuccessIcon + " " + line))
		case i == current:
			b.WriteString(cli.BoldStyle.Render("  ▸ " + line))
		default:
			b.WriteString(cli.SubtleStyle.Render("    " + line))
		}
		b.WriteString("\n")
	}
	if end < len(m.draft.Moves) {
		b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("    … %d more", len(m.draft.Moves)-end)))
		b.WriteString("\n")
	}
	return b.String()
}
