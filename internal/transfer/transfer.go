package transfer

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
)

// Launcher moves the player to another server.
type Launcher interface {
	Transfer(ctx context.Context, ip string, port uint16) error
	Describe(ip string, port uint16) string
}

// Address formats ip and port as host:port.
func Address(ip string, port uint16) string {
	return net.JoinHostPort(ip, strconv.Itoa(int(port)))
}

// New returns a CommandLauncher when template is non-empty and a
// ClipboardLauncher otherwise.
func New(template string) Launcher {
	if strings.TrimSpace(template) != "" {
		return &CommandLauncher{Template: template}
	}
	return &ClipboardLauncher{}
}

// CommandLauncher runs an external command for each transfer. The template
// may reference {ip}, {port} and {addr}.
type CommandLauncher struct {
	Template string

	run func(ctx context.Context, name string, args ...string) error
}

// Args expands the template into a command line.
func (l *CommandLauncher) Args(ip string, port uint16) []string {
	replacer := strings.NewReplacer(
		"{ip}", ip,
		"{port}", strconv.Itoa(int(port)),
		"{addr}", Address(ip, port),
	)
	fields := strings.Fields(l.Template)
	for i, field := range fields {
		fields[i] = replacer.Replace(field)
	}
	return fields
}

func (l *CommandLauncher) Transfer(ctx context.Context, ip string, port uint16) error {
	addr := Address(ip, port)
	args := l.Args(ip, port)
	if len(args) == 0 {
		return fmt.Errorf("transfer to %s: empty command", addr)
	}
	events.Transfer.Launch("command", addr)
	run := l.run
	if run == nil {
		run = runCommand
	}
	err := run(ctx, args[0], args[1:]...)
	events.Transfer.Result(addr, err)
	if err != nil {
		return fmt.Errorf("transfer to %s: %w", addr, err)
	}
	return nil
}

func (l *CommandLauncher) Describe(ip string, port uint16) string {
	return fmt.Sprintf("Launched %s", Address(ip, port))
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// ClipboardLauncher copies the target address so the player can paste it
// into the game's direct-connect dialog.
type ClipboardLauncher struct {
	write func(string) error
}

func (l *ClipboardLauncher) Transfer(ctx context.Context, ip string, port uint16) error {
	addr := Address(ip, port)
	events.Transfer.Launch("clipboard", addr)
	write := l.write
	if write == nil {
		if clipboard.Unsupported {
			err := fmt.Errorf("transfer to %s: clipboard unsupported on this system", addr)
			events.Transfer.Result(addr, err)
			return err
		}
		write = clipboard.WriteAll
	}
	err := write(addr)
	events.Transfer.Result(addr, err)
	if err != nil {
		return fmt.Errorf("transfer to %s: %w", addr, err)
	}
	return nil
}

func (l *ClipboardLauncher) Describe(ip string, port uint16) string {
	return fmt.Sprintf("Copied %s to clipboard", Address(ip, port))
}
