package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness feeds messages to a Model without a terminal and runs the
// commands it returns synchronously.
type Harness struct {
	model *Model
	quit  bool
}

func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send delivers msg and everything its commands produce.
func (h *Harness) Send(msg tea.Msg) {
	if h.model != nil {
		h.dispatch(msg)
	}
}

// Press sends one key event per key type.
func (h *Harness) Press(keys ...tea.KeyType) {
	for _, key := range keys {
		h.Send(tea.KeyMsg{Type: key})
	}
}

// Type sends text as rune key events, one per rune.
func (h *Harness) Type(text string) {
	for _, r := range text {
		key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			key.Type = tea.KeySpace
		}
		h.Send(key)
	}
}

// Quit reports whether a command asked the program to exit.
func (h *Harness) Quit() bool { return h.quit }

func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

func (h *Harness) Model() *Model { return h.model }

func (h *Harness) dispatch(msg tea.Msg) {
	next, cmd := h.model.Update(msg)
	if m, ok := next.(*Model); ok {
		h.model = m
	}
	h.run(cmd)
}

// run executes cmd and routes its result. Batches are expanded; messages
// the model has no handler for, such as cursor blinks, are dropped.
func (h *Harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.QuitMsg:
		h.quit = true
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	default:
		if h.model.handlerFor(msg) != nil {
			h.dispatch(msg)
		}
	}
}
