package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/service"
)

// Run executes the walkthrough until the user finishes or quits and returns
// the final draft state. The draft is persisted after every step, so a
// canceled context or interrupt loses at most the in-flight keypress.
func Run(ctx context.Context, draft *model.GuidedApplyDraft, store service.DraftStore) (*model.GuidedApplyDraft, error) {
	p := tea.NewProgram(New(draft, store), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return draft, fmt.Errorf("walkthrough failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return draft, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Draft(), nil
}
