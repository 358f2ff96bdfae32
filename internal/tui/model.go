// Package tui implements the interactive guided-apply walkthrough: it steps
// the user through a plan's move list one move at a time and persists the
// draft after every step so an interrupted session resumes where it left off.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridsense/gridsense/internal/model"
	"github.com/gridsense/gridsense/internal/service"
)

// draftSavedMsg reports the outcome of persisting the draft.
type draftSavedMsg struct {
	err error
}

// Model holds the walkthrough state.
type Model struct {
	store    service.DraftStore
	draft    *model.GuidedApplyDraft
	keymap   KeyMap
	help     help.Model
	progress progress.Model
	saveErr  error
	width    int
	height   int
	quitting bool
}

// New creates a walkthrough over the given draft. The store may be nil in
// tests; steps are then not persisted.
func New(draft *model.GuidedApplyDraft, store service.DraftStore) Model {
	pb := progress.New(progress.WithDefaultGradient())
	pb.Width = 40
	return Model{
		store:    store,
		draft:    draft,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		progress: pb,
	}
}

// Draft returns the walkthrough's current draft state.
func (m Model) Draft() *model.GuidedApplyDraft {
	return m.draft
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if msg.Width > 20 {
			m.progress.Width = min(msg.Width-10, 60)
		}
		return m, nil

	case draftSavedMsg:
		m.saveErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Sequence(m.saveDraft(), tea.Quit)

		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keymap.Done):
			return m.markCurrentDone()

		case key.Matches(msg, m.keymap.Skip):
			return m.skipCurrent()

		case key.Matches(msg, m.keymap.Back):
			return m.undoLast()
		}
	}

	return m, nil
}

// markCurrentDone marks the move under the cursor as placed and advances to
// the next open move. When nothing remains, the walkthrough finishes.
func (m Model) markCurrentDone() (tea.Model, tea.Cmd) {
	idx := m.currentIndex()
	if idx < 0 {
		m.quitting = true
		return m, tea.Sequence(m.saveDraft(), tea.Quit)
	}
	m.draft.Moves[idx].Done = true
	m.draft.Cursor = m.nextOpenIndex(idx + 1)
	if m.draft.Complete() {
		m.quitting = true
		return m, tea.Sequence(m.saveDraft(), tea.Quit)
	}
	return m, m.saveDraft()
}

// skipCurrent leaves the move open and advances the cursor past it.
func (m Model) skipCurrent() (tea.Model, tea.Cmd) {
	idx := m.currentIndex()
	if idx < 0 {
		return m, nil
	}
	next := m.nextOpenIndex(idx + 1)
	if next == idx {
		// Only one open move left; nowhere to skip to.
		return m, nil
	}
	m.draft.Cursor = next
	return m, m.saveDraft()
}

// undoLast reopens the most recently completed move and points the cursor
// at it.
func (m Model) undoLast() (tea.Model, tea.Cmd) {
	for i := len(m.draft.Moves) - 1; i >= 0; i-- {
		if m.draft.Moves[i].Done {
			m.draft.Moves[i].Done = false
			m.draft.Cursor = i
			return m, m.saveDraft()
		}
	}
	return m, nil
}

// currentIndex returns the index of the move under the cursor, normalized
// to the next open move. Returns -1 when every move is done.
func (m Model) currentIndex() int {
	if len(m.draft.Moves) == 0 {
		return -1
	}
	start := m.draft.Cursor
	if start < 0 || start >= len(m.draft.Moves) {
		start = 0
	}
	idx := m.nextOpenIndex(start)
	if m.draft.Moves[idx].Done {
		return -1
	}
	return idx
}

// nextOpenIndex returns the first not-done move at or after start, wrapping
// around once. When all moves are done it returns start clamped in range.
func (m Model) nextOpenIndex(start int) int {
	n := len(m.draft.Moves)
	if n == 0 {
		return 0
	}
	for offset := 0; offset < n; offset++ {
		i := (start + offset) % n
		if !m.draft.Moves[i].Done {
			return i
		}
	}
	if start >= n {
		return n - 1
	}
	return start
}

func (m Model) saveDraft() tea.Cmd {
	if m.store == nil {
		return nil
	}
	draft := m.draft
	store := m.store
	return func() tea.Msg {
		return draftSavedMsg{err: store.SaveDraft(context.Background(), draft)}
	}
}
