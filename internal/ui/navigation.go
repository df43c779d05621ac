package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
)

var errNoLauncher = errors.New("no transfer launcher configured")

func (m *Model) handleEscapeKey() tea.Cmd {
	current := m.currentLevel()
	if current == nil || current.Filter == "" {
		return tea.Quit
	}
	current.ClearFilter()
	m.afterFilterEdit(current, "clear")
	return nil
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	item, ok := current.Selected()
	if !ok {
		return nil
	}
	events.UI.Select(current.ID, item.Title, item.Action.Addr(), current.Filter)
	if m.launcher == nil {
		m.errMsg = errNoLauncher.Error()
		return nil
	}
	return m.transferCmd(item)
}

func (m *Model) handleToggleKey() tea.Cmd {
	if m.opener == nil || m.view == nil {
		return nil
	}
	from := m.ordering
	to := from.Toggle()
	if err := m.opener.Open(m, to); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.forceClearInfo()
	events.UI.Toggle(from.Wire(), to.Wire())
	return nil
}

func (m *Model) handleRefreshKey() tea.Cmd {
	if m.refresher == nil {
		m.setInfo("Refresh is not available.")
		return nil
	}
	if !m.refresher.Refresh() {
		m.setInfo("Refresh requested too soon; try again shortly.")
		return nil
	}
	m.setInfo("Refreshing server list…")
	return nil
}

func (m *Model) moveCursorUp() {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursorUp() {
			m.traceCursor(current)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorDown() {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursorDown() {
			m.traceCursor(current)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveNextPage() {
	if current := m.currentLevel(); current != nil {
		if current.NextPage() {
			events.UI.Page(current.ID, current.Page(), current.Pages())
		}
		m.syncViewport(current)
	}
}

func (m *Model) movePrevPage() {
	if current := m.currentLevel(); current != nil {
		if current.PrevPage() {
			events.UI.Page(current.ID, current.Page(), current.Pages())
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorHome() {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursorHome() {
			m.traceCursor(current)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorEnd() {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursorEnd() {
			m.traceCursor(current)
		}
		m.syncViewport(current)
	}
}

func (m *Model) traceCursor(l *level) {
	events.UI.Cursor(l.ID, l.Page(), l.Cursor)
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.Type == tea.KeyTab {
		return m.handleToggleKey()
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "ctrl+r":
		return m.handleRefreshKey()
	case "up":
		m.moveCursorUp()
	case "down":
		m.moveCursorDown()
	case "right", "pgdown":
		m.moveNextPage()
	case "left", "pgup":
		m.movePrevPage()
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	}
	return nil
}
