package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsense/gridsense/internal/model"
)

func testDraft() *model.GuidedApplyDraft {
	return &model.GuidedApplyDraft{
		ID:     "d1",
		PlanID: "plan-1",
		Moves: []model.PlannedMove{
			{AppID: "maps", DisplayName: "Maps", To: model.Slot{Type: model.SlotTypeApp, Row: 5}},
			{AppID: "mail", DisplayName: "Mail", To: model.Slot{Type: model.SlotTypeDock, Column: 1}},
			{AppID: "camera", DisplayName: "Camera", To: model.Slot{Type: model.SlotTypeApp, Row: 4, Column: 2}},
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got
}

func TestMarkDoneAdvancesCursor(t *testing.T) {
	m := New(testDraft(), nil)

	m = update(t, m, keyMsg("enter"))

	assert.True(t, m.draft.Moves[0].Done)
	assert.Equal(t, 1, m.draft.Cursor)
	assert.Equal(t, 2, m.draft.Remaining())
	assert.False(t, m.quitting)
}

func TestCompletingLastMoveQuits(t *testing.T) {
	m := New(testDraft(), nil)

	m = update(t, m, keyMsg("enter"))
	m = update(t, m, keyMsg("enter"))
	m = update(t, m, keyMsg("enter"))

	assert.True(t, m.draft.Complete())
	assert.True(t, m.quitting)
}

func TestSkipLeavesMoveOpen(t *testing.T) {
	m := New(testDraft(), nil)

	m = update(t, m, keyMsg("s"))

	assert.False(t, m.draft.Moves[0].Done)
	assert.Equal(t, 1, m.draft.Cursor)
	assert.Equal(t, 3, m.draft.Remaining())
}

func TestSkipWrapsToOpenMove(t *testing.T) {
	draft := testDraft()
	draft.Moves[1].Done = true
	draft.Moves[2].Done = true
	m := New(draft, nil)

	// Only one open move; skip has nowhere to go.
	m = update(t, m, keyMsg("s"))
	assert.Equal(t, 0, m.draft.Cursor)
}

func TestUndoReopensLastDone(t *testing.T) {
	m := New(testDraft(), nil)

	m = update(t, m, keyMsg("enter"))
	m = update(t, m, keyMsg("enter"))
	require.Equal(t, 1, m.draft.Remaining())

	m = update(t, m, keyMsg("u"))

	assert.False(t, m.draft.Moves[1].Done)
	assert.Equal(t, 1, m.draft.Cursor)
	assert.Equal(t, 2, m.draft.Remaining())
}

func TestUndoOnFreshDraftIsNoop(t *testing.T) {
	m := New(testDraft(), nil)

	m = update(t, m, keyMsg("u"))

	assert.Equal(t, 0, m.draft.Cursor)
	assert.Equal(t, 3, m.draft.Remaining())
}

func TestResumeSkipsCompletedMoves(t *testing.T) {
	draft := testDraft()
	draft.Moves[0].Done = true
	draft.Cursor = 0
	m := New(draft, nil)

	assert.Equal(t, 1, m.currentIndex())
}

func TestViewShowsCurrentMove(t *testing.T) {
	m := New(testDraft(), nil)

	out := m.View()
	assert.Contains(t, out, "Maps")
	assert.Contains(t, out, "0/3")
}

func TestViewEmptyDraft(t *testing.T) {
	m := New(&model.GuidedApplyDraft{}, nil)

	assert.Contains(t, m.View(), "Nothing to move")
}
