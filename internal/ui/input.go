package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
)

const (
	filterMark        = "» "
	filterPlaceholder = "(type to search servers)"
)

type filterEdit func(*level) bool

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// handleTextInput applies search edits. Keys it does not claim fall through
// to navigation.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.loading {
		return false, nil
	}
	current := m.currentLevel()
	if current == nil {
		return false, nil
	}
	op, edit := filterEditFor(msg)
	if edit == nil || !edit(current) {
		return false, nil
	}
	m.afterFilterEdit(current, op)
	return true, nil
}

func filterEditFor(msg tea.KeyMsg) (string, filterEdit) {
	switch msg.Type {
	case tea.KeyCtrlU:
		return "clear", (*level).ClearFilter
	case tea.KeyCtrlW:
		return "word-backspace", (*level).TrimFilterWord
	case tea.KeyBackspace, tea.KeyCtrlH:
		return "backspace", (*level).TrimFilterRune
	case tea.KeySpace:
		return "append", func(l *level) bool { return l.AppendFilter(" ") }
	case tea.KeyRunes:
		if msg.Alt || !printable(msg.Runes) {
			return "", nil
		}
		text := string(msg.Runes)
		return "append", func(l *level) bool { return l.AppendFilter(text) }
	}
	return "", nil
}

func printable(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func (m *Model) afterFilterEdit(current *level, op string) {
	m.filterCursorDirty = true
	m.errMsg = ""
	m.forceClearInfo()
	events.Filter.Edit(op, current.ID, current.Filter)
	m.syncViewport(current)
}

// filterPrompt renders the search line. The caret sits after the query, or
// on the first placeholder rune while the query is empty.
func (m *Model) filterPrompt() string {
	prompt := renderWith(styles.FilterPrompt, filterMark)
	current := m.currentLevel()
	if current == nil {
		return prompt
	}
	if current.Filter == "" {
		runes := []rune(filterPlaceholder)
		caret := m.renderCaret(string(runes[0]), styles.FilterPlaceholder)
		return prompt + caret + renderWith(styles.FilterPlaceholder, string(runes[1:]))
	}
	return prompt + renderWith(styles.Filter, current.Filter) + m.renderCaret(" ", styles.Filter)
}

func renderWith(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

func (m *Model) renderCaret(char string, text *lipgloss.Style) string {
	base := lipgloss.NewStyle()
	if text != nil {
		base = text.Copy()
	}
	base = base.Inline(true)
	m.filterCursor.SetChar(char)
	m.filterCursor.TextStyle = base

	switch {
	case m.filterCursor.Blink:
		return base.Render(char)
	case styles.Cursor != nil:
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	default:
		return base.Reverse(true).Render(char)
	}
}
