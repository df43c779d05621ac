package command

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/transfer"
)

// Request encapsulates a transfer invocation for one menu slot.
type Request struct {
	ID     string
	Label  string
	Target menu.Transfer
}

// Bus coordinates the execution of slot actions.
type Bus struct {
	launcher transfer.Launcher
}

// New initialises a command bus that hands transfers to launcher.
func New(launcher transfer.Launcher) *Bus {
	return &Bus{launcher: launcher}
}

// Execute wraps a transfer into a Bubble Tea command while emitting trace
// logs. The command resolves to a menu.ActionResult, or nil when the bus has
// no launcher.
func (b *Bus) Execute(ctx context.Context, req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if b == nil || b.launcher == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		err := b.launcher.Transfer(ctx, req.Target.IP, req.Target.Port)
		result := menu.ActionResult{Err: err}
		if err == nil {
			result.Info = b.launcher.Describe(req.Target.IP, req.Target.Port)
		}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", result))
		return result
	}
}
