// Command catalogd polls the Minecraft servers listed in servers.toml and
// serves the results at /api/get_server_list.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalogd"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/state"
)

const shutdownGrace = 10 * time.Second

func fatal(msg string, err error, attrs ...any) {
	args := make([]any, 0, 2+len(attrs))
	args = append(args, "err", err)
	args = append(args, attrs...)
	slog.Error(msg, args...)
	os.Exit(1)
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func main() {
	runID := "run-" + uuid.NewString()
	slog.SetDefault(slog.New(newHandler(os.Stderr, "text", slog.LevelInfo)).With("run_id", runID))

	cfg, err := catalogd.LoadConfig()
	if err != nil {
		fatal("config load failed", err)
	}
	slog.SetDefault(slog.New(newHandler(os.Stderr, cfg.LogFormat, cfg.LogLevel)).With("run_id", runID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting catalogd",
		"listen", cfg.Listen,
		"servers_file", cfg.Poller.ServersFile,
		"interval", cfg.Poller.Interval,
		"concurrency", cfg.Poller.Concurrency,
	)

	store := state.NewCatalogStore()
	poller := catalogd.NewPoller(cfg.Poller, store,
		catalogd.WithPollerLogger(slog.Default().With("component", "poller")))
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		_ = poller.Run(ctx)
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           catalogd.NewRouter(store, slog.Default().With("component", "http")),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			fatal("http server failed", err, "listen", cfg.Listen)
		}
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown incomplete", "err", err)
	}
	stop()
	select {
	case <-pollDone:
	case <-shutdownCtx.Done():
		slog.Error("shutdown timed out, forcing exit", "grace", shutdownGrace)
		os.Exit(2)
	}
}
