package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/backend"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/transfer"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/ui"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/views"
)

// Config describes user-provided application options.
type Config struct {
	CatalogURL      string
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	InitialOrdering catalog.Ordering
	TransferCommand string
	Width           int
	Height          int
	ShowFooter      bool
	Verbose         bool
}

// Services bundles the long-lived objects behind the menu.
type Services struct {
	Cache    *backend.CatalogCache
	Views    *views.Registry
	Launcher transfer.Launcher
	Updates  <-chan struct{}
}

// Build wires the catalog client, cache and view registry. The returned
// Updates channel fires after every cycle once the views have been rebuilt.
func Build(cfg Config, fetcher backend.Fetcher) (*Services, error) {
	if fetcher == nil {
		client, err := catalog.NewClient(cfg.CatalogURL, 0)
		if err != nil {
			return nil, err
		}
		fetcher = client
	}
	cache := backend.NewCatalogCache(fetcher,
		backend.WithInterval(cfg.RefreshInterval),
		backend.WithFetchTimeout(cfg.FetchTimeout),
		backend.WithLogger(logging.Logger().With("component", "catalog")),
	)
	registry := views.New(cache)
	registry.Attach(cache)

	updates := make(chan struct{}, 1)
	cache.OnUpdate(func() error {
		select {
		case updates <- struct{}{}:
		default:
		}
		return nil
	})

	return &Services{
		Cache:    cache,
		Views:    registry,
		Launcher: transfer.New(cfg.TransferCommand),
		Updates:  updates,
	}, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(ctx context.Context, cfg Config) error {
	svc, err := Build(cfg, nil)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	if err := svc.Cache.Start(ctx); err != nil {
		return fmt.Errorf("start catalog cache: %w", err)
	}
	defer func() {
		svc.Cache.Stop()
		svc.Cache.Wait()
	}()

	model := ui.NewModel(ui.Options{
		Context:    ctx,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Views:      svc.Views,
		Refresher:  svc.Cache,
		Launcher:   svc.Launcher,
		Updates:    svc.Updates,
	})
	if err := svc.Views.Open(model, cfg.InitialOrdering); err != nil {
		return fmt.Errorf("open %s: %w", cfg.InitialOrdering.Wire(), err)
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
