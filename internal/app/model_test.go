package app

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"curator/internal/cache"
	"curator/internal/types"
)

func newTestModel() Model {
	rename := textinput.New()
	rename.Prompt = "title: "
	return Model{
		memo:        cache.New(),
		renameInput: rename,
		groups: []*types.Group{
			{ID: 3, Title: "Running"},
			{ID: 4, Title: "Hiking"},
		},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pressKey(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.updateKey(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	return next, cmd
}

func TestRenameKeySeedsEditorWithCurrentTitle(t *testing.T) {
	m := newTestModel()
	m, _ = pressKey(t, m, keyRunes("e"))
	if m.mode != uiModeRenameGroup {
		t.Fatalf("expected rename mode, got %d", m.mode)
	}
	if got := m.renameInput.Value(); got != "Running" {
		t.Fatalf("expected editor seeded with current title, got %q", got)
	}

	m, _ = pressKey(t, m, keyRunes(" 2"))
	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != uiModeNormal {
		t.Fatalf("expected confirm to leave rename mode")
	}
	if cmd == nil {
		t.Fatalf("expected a rename command for the edited title")
	}
	if !m.mutating {
		t.Fatalf("expected rename to mark the model mutating")
	}
}

func TestRenameWithUnchangedTitleIssuesNothing(t *testing.T) {
	m := newTestModel()
	m, _ = pressKey(t, m, keyRunes("e"))
	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no remote call for an unchanged title")
	}
	if m.mode != uiModeNormal || m.mutating {
		t.Fatalf("expected a quiet return to normal mode")
	}
}

func TestRenameEscCancels(t *testing.T) {
	m := newTestModel()
	m, _ = pressKey(t, m, keyRunes("e"))
	m, _ = pressKey(t, m, keyRunes("x"))
	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.mode != uiModeNormal || m.mutating {
		t.Fatalf("expected esc to discard the edit")
	}
}

func TestRenameSuccessRefreshesAndToasts(t *testing.T) {
	m := newTestModel()
	m.mutating = true
	updated, cmd := m.updateMessage(updateGroupMsg{group: &types.Group{ID: 3, Title: "Road Running"}})
	next := updated.(Model)
	if next.mutating {
		t.Fatalf("expected resolution to clear the mutation flag")
	}
	if cmd == nil {
		t.Fatalf("expected a group list refetch after rename")
	}
	if next.status == "" || next.statusErr {
		t.Fatalf("expected a success toast, got %q err=%v", next.status, next.statusErr)
	}
}

func TestCanceledRefetchStaysQuiet(t *testing.T) {
	m := newTestModel()
	updated, _ := m.updateMessage(groupMsg{id: 3, err: context.Canceled})
	next := updated.(Model)
	if next.status != "" || next.statusErr {
		t.Fatalf("canceled refetch must not surface a toast, got %q", next.status)
	}

	updated, _ = next.updateMessage(groupMsg{id: 3, err: errors.New("hub unreachable")})
	next = updated.(Model)
	if next.status == "" || !next.statusErr {
		t.Fatalf("expected a real failure to surface, got %q", next.status)
	}
}
