package catalogd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/slp"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/state"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func names(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestCycleMapsStatusAndSorts(t *testing.T) {
	servers := []Server{
		{IP: "a.example", Name: "A", Icon: "stone", Description: "first"},
		{IP: "b.example", Name: "B"},
		{IP: "c.example", Name: "C"},
		{IP: "down.example", Name: "Down", Icon: "tnt"},
	}
	online := map[string]int64{"a.example": 5, "b.example": 1, "c.example": 5}
	query := func(_ context.Context, host string, _ *uint16) (*slp.Status, error) {
		n, ok := online[host]
		if !ok {
			return nil, errors.New("connection refused")
		}
		return &slp.Status{Port: 25566, VersionName: "1.20.4", PlayersOnline: n, PlayersMax: 20}, nil
	}
	store := state.NewCatalogStore()
	p := NewPoller(PollerConfig{}, store, WithQuery(query), WithPollerLogger(quietLogger()))
	p.load = func(string) ([]Server, error) { return servers, nil }

	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	asc := store.Entries(catalog.ByPopulationAsc)
	if diff := cmp.Diff([]string{"Down", "B", "A", "C"}, names(asc)); diff != "" {
		t.Fatalf("asc mismatch (-want +got):\n%s", diff)
	}
	desc := store.Entries(catalog.ByPopulationDesc)
	if diff := cmp.Diff([]string{"C", "A", "B", "Down"}, names(desc)); diff != "" {
		t.Fatalf("desc mismatch (-want +got):\n%s", diff)
	}

	want := catalog.Entry{
		PlayersOnline: 5,
		VersionName:   "1.20.4",
		Description:   "first",
		Icon:          "stone",
		IsOnline:      true,
		IP:            "a.example",
		Port:          25566,
		Name:          "A",
		PlayersMax:    20,
	}
	if diff := cmp.Diff(want, asc[2]); diff != "" {
		t.Fatalf("online entry mismatch (-want +got):\n%s", diff)
	}
	down := catalog.Entry{Icon: "tnt", IP: "down.example", Port: 25565, Name: "Down"}
	if diff := cmp.Diff(down, asc[0]); diff != "" {
		t.Fatalf("offline entry mismatch (-want +got):\n%s", diff)
	}
}

func TestCycleLoadFailureKeepsStore(t *testing.T) {
	store := state.NewCatalogStore()
	store.Replace([]catalog.Entry{{Name: "kept"}}, []catalog.Entry{{Name: "kept"}})
	before := store.UpdatedAt()

	p := NewPoller(PollerConfig{ServersFile: filepath.Join(t.TempDir(), "missing.toml")}, store,
		WithPollerLogger(quietLogger()))
	if err := p.Cycle(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if got := names(store.Entries(catalog.ByPopulationDesc)); len(got) != 1 || got[0] != "kept" {
		t.Fatalf("expected store untouched, got %v", got)
	}
	if !store.UpdatedAt().Equal(before) {
		t.Fatalf("expected updated_at unchanged")
	}
}

func TestCycleRespectsConcurrencyLimit(t *testing.T) {
	servers := make([]Server, 12)
	for i := range servers {
		servers[i] = Server{IP: fmt.Sprintf("10.0.0.%d", i), Name: fmt.Sprintf("s%d", i)}
	}
	var inflight, peak atomic.Int32
	query := func(context.Context, string, *uint16) (*slp.Status, error) {
		n := inflight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inflight.Add(-1)
		return &slp.Status{Port: 25565}, nil
	}
	p := NewPoller(PollerConfig{Concurrency: 3, Rate: 1000}, state.NewCatalogStore(),
		WithQuery(query), WithPollerLogger(quietLogger()))
	p.load = func(string) ([]Server, error) { return servers, nil }

	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if got := peak.Load(); got > 3 {
		t.Fatalf("expected at most 3 concurrent pings, got %d", got)
	}
}

func TestRunPublishesFromServersFile(t *testing.T) {
	server := testutil.StartSLPServer(t, testutil.StatusJSON("Paper 1.21", 767, 7, 40, "hi"))
	path := filepath.Join(t.TempDir(), "servers.toml")
	body := fmt.Sprintf("[[servers]]\nip = %q\nport = %d\nicon = \"diamond_block\"\nname = \"Alpha\"\ndescription = \"Hello\"\n",
		server.Host, server.Port)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write servers: %v", err)
	}

	store := state.NewCatalogStore()
	p := NewPoller(PollerConfig{ServersFile: path, Interval: time.Hour}, store, WithPollerLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	testutil.WaitFor(t, 5*time.Second, func() bool {
		return len(store.Entries(catalog.ByPopulationDesc)) == 1
	})
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}

	got := store.Entries(catalog.ByPopulationDesc)[0]
	want := catalog.Entry{
		PlayersOnline: 7,
		VersionName:   "Paper 1.21",
		Description:   "Hello",
		Icon:          "diamond_block",
		IsOnline:      true,
		IP:            server.Host,
		Port:          server.Port,
		Name:          "Alpha",
		PlayersMax:    40,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestReverseIsExactMirror(t *testing.T) {
	asc := SortAscending(testutil.Entries(5))
	desc := Reverse(asc)
	for i := range asc {
		if asc[i].Name != desc[len(desc)-1-i].Name {
			t.Fatalf("expected desc to mirror asc at %d", i)
		}
	}
}

func TestCycleClampsNegativePlayerCounts(t *testing.T) {
	query := func(context.Context, string, *uint16) (*slp.Status, error) {
		return &slp.Status{Port: 25565, PlayersOnline: -3, PlayersMax: -1}, nil
	}
	store := state.NewCatalogStore()
	p := NewPoller(PollerConfig{}, store, WithQuery(query), WithPollerLogger(quietLogger()))
	p.load = func(string) ([]Server, error) { return []Server{{IP: "odd.example", Name: "Odd"}}, nil }

	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	got := store.Entries(catalog.ByPopulationDesc)[0]
	if got.PlayersOnline != 0 || got.PlayersMax != 0 {
		t.Fatalf("expected counts clamped to 0, got %d/%d", got.PlayersOnline, got.PlayersMax)
	}
}
