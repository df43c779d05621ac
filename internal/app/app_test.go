package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/backend"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/transfer"
)

func TestBuildSignalsUpdatesAfterViewsRebuilt(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "app.log"))
	t.Cleanup(func() { logging.Configure("") })
	fetcher := backend.FetcherFunc(func(_ context.Context, o catalog.Ordering) ([]catalog.Entry, error) {
		return []catalog.Entry{{Name: o.Wire(), PlayersOnline: 3, PlayersMax: 10}}, nil
	})
	svc, err := Build(Config{RefreshInterval: time.Hour, FetchTimeout: time.Second}, fetcher)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := svc.Launcher.(*transfer.ClipboardLauncher); !ok {
		t.Fatalf("expected clipboard launcher without a transfer command, got %T", svc.Launcher)
	}
	if err := svc.Cache.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		svc.Cache.Stop()
		svc.Cache.Wait()
	}()

	select {
	case <-svc.Updates:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for update signal")
	}
	view := svc.Views.View(catalog.ByPopulationAsc)
	if len(view.Descriptors) != 1 || view.Descriptors[0].Title != "PlayerReverse [3/10]" {
		t.Fatalf("expected rebuilt asc view before signal, got %#v", view.Descriptors)
	}
}

func TestBuildRejectsBadURL(t *testing.T) {
	if _, err := Build(Config{CatalogURL: "not a url"}, nil); err == nil {
		t.Fatalf("expected error for invalid catalog url")
	}
}
