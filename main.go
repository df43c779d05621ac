package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/app"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/config"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	tty := probeTerminals(os.Stdin, os.Stdout, os.Stderr)
	events.App.Start(startupTracePayload(cfg, tty))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, cfg.App)
	stop()
	events.App.Exit(err)
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload bundles the resolved configuration and process context
// for the trace log.
func startupTracePayload(cfg config.Config, tty ttyReport) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	payload := map[string]interface{}{
		"argv":       cfg.Args,
		"flags":      flags,
		"config":     cfg,
		"configFile": cfg.File,
		"tty":        tty,
	}
	record := func(key string, value string, err error) {
		if err != nil {
			payload[key+"Error"] = err.Error()
			return
		}
		payload[key] = value
	}
	exe, err := os.Executable()
	record("executable", exe, err)
	cwd, err := os.Getwd()
	record("cwd", cwd, err)
	return payload
}
