package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/ui/command"
)

func (m *Model) transferCmd(item menu.Descriptor) tea.Cmd {
	m.loading = true
	m.pendingLabel = item.Title
	m.errMsg = ""
	m.forceClearInfo()
	return m.bus.Execute(m.ctx, command.Request{
		ID:     m.ordering.Wire(),
		Label:  item.Title,
		Target: item.Action,
	})
}

// handleActionResultMsg ends a transfer. Success quits the menu; a failure
// stays on screen so another server can be picked.
func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	m.loading, m.pendingLabel = false, ""
	m.forceClearInfo()
	if err := result.Err; err != nil {
		m.errMsg = err.Error()
		events.Action.Error(err)
		return nil
	}
	if m.verbose && result.Info != "" {
		m.setInfo(result.Info)
	}
	events.Action.Success(result.Info)
	return tea.Quit
}
