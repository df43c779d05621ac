package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHandleTextInputAppendsRunes(t *testing.T) {
	m, _, _ := newTestModel(t, testEntries(3), Options{})
	current := m.currentLevel()
	handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	if !handled {
		t.Fatalf("expected key press to be handled")
	}
	if current.Filter != "abc" {
		t.Fatalf("expected filter 'abc', got %q", current.Filter)
	}
	if !m.filterCursorDirty {
		t.Fatalf("expected caret blink reset after an edit")
	}
}

func TestHandleTextInputLeavesNavigationKeys(t *testing.T) {
	m, _, _ := newTestModel(t, testEntries(3), Options{})
	current := m.currentLevel()
	current.SetFilter("abc")
	for _, key := range []tea.KeyType{tea.KeyLeft, tea.KeyRight, tea.KeyUp, tea.KeyDown, tea.KeyEnter, tea.KeyTab} {
		if handled, _ := m.handleTextInput(tea.KeyMsg{Type: key}); handled {
			t.Fatalf("expected %v to fall through to navigation", key)
		}
	}
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true}); handled {
		t.Fatalf("expected alt-modified runes to be ignored")
	}
	if current.Filter != "abc" {
		t.Fatalf("expected filter untouched, got %q", current.Filter)
	}
}

func TestHandleTextInputEditing(t *testing.T) {
	m, _, _ := newTestModel(t, testEntries(3), Options{})
	h := NewHarness(m)
	current := m.currentLevel()
	h.Type("srv 01")
	if current.Filter != "srv 01" {
		t.Fatalf("expected spaces accepted, got %q", current.Filter)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlW})
	if current.Filter != "srv " {
		t.Fatalf("expected word removed, got %q", current.Filter)
	}
	h.Press(tea.KeyBackspace)
	if current.Filter != "srv" {
		t.Fatalf("expected backspace to trim, got %q", current.Filter)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlU})
	if current.Filter != "" {
		t.Fatalf("expected ctrl+u to clear, got %q", current.Filter)
	}
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyBackspace}); handled {
		t.Fatalf("expected backspace on an empty query to fall through")
	}
}

func TestHandleTextInputIgnoredWhileTransferring(t *testing.T) {
	m, _, _ := newTestModel(t, testEntries(3), Options{})
	m.loading = true
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); handled {
		t.Fatalf("expected input ignored while loading")
	}
}

func TestFilterPrompt(t *testing.T) {
	m, _, _ := newTestModel(t, testEntries(1), Options{})
	if prompt := m.filterPrompt(); !strings.Contains(prompt, "type to search") {
		t.Fatalf("expected placeholder in prompt, got %q", prompt)
	}
	m.currentLevel().SetFilter("srv")
	prompt := m.filterPrompt()
	if !strings.Contains(prompt, "srv") || strings.Contains(prompt, "type to search") {
		t.Fatalf("expected query in prompt, got %q", prompt)
	}
}
