package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func waitForViewUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return updatesDoneMsg{}
		}
		return viewUpdatedMsg{}
	}
}

// viewUpdatedMsg signals that the registry holds freshly rebuilt views.
type viewUpdatedMsg struct{}

type updatesDoneMsg struct{}

func (m *Model) handleViewUpdatedMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(viewUpdatedMsg); !ok {
		return nil
	}
	if m.opener != nil && m.view != nil {
		if err := m.opener.Open(m, m.ordering); err != nil {
			m.errMsg = err.Error()
		}
	}
	if m.updates != nil {
		return waitForViewUpdate(m.updates)
	}
	return nil
}

func (m *Model) handleUpdatesDoneMsg(tea.Msg) tea.Cmd {
	m.updates = nil
	return nil
}
