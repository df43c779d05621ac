package views

import (
	"context"
	"testing"
	"time"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/backend"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
	"github.com/google/go-cmp/cmp"
)

func TestCacheToViewPipeline(t *testing.T) {
	alpha := catalog.Entry{
		Name:          "Alpha",
		PlayersOnline: 10,
		PlayersMax:    20,
		Icon:          "grass_block",
		Description:   "Line1\nLine2",
		VersionName:   "1.20",
		IP:            "1.2.3.4",
		Port:          25565,
		IsOnline:      true,
	}
	cache := backend.NewCatalogCache(backend.FetcherFunc(func(_ context.Context, o catalog.Ordering) ([]catalog.Entry, error) {
		if o == catalog.ByPopulationDesc {
			return []catalog.Entry{alpha}, nil
		}
		return nil, context.DeadlineExceeded
	}), backend.WithInterval(time.Hour))

	registry := New(cache)
	registry.Attach(cache)

	rebuilt := make(chan *MaterializedView, 1)
	cache.OnUpdate(func() error {
		rebuilt <- registry.View(catalog.ByPopulationDesc)
		return nil
	})

	if err := cache.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		cache.Stop()
		cache.Wait()
	}()

	var view *MaterializedView
	select {
	case view = <-rebuilt:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for rebuild")
	}

	want := []menu.Descriptor{{
		Icon:   "grass_block",
		Title:  "Alpha [10/20]",
		Lore:   []string{"Version: 1.20", "", "Line1", "Line2"},
		Amount: 10,
		Online: true,
		Action: menu.Transfer{IP: "1.2.3.4", Port: 25565},
	}}
	if diff := cmp.Diff(want, view.Descriptors); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
	if view.Generation != 1 {
		t.Fatalf("expected view built from generation 1, got %d", view.Generation)
	}
	if asc := registry.View(catalog.ByPopulationAsc); len(asc.Descriptors) != 0 || asc.Pages != 1 {
		t.Fatalf("expected asc view to remain empty after failed fetch")
	}
}
