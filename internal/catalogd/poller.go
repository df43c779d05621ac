package catalogd

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/slp"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/state"
)

const (
	DefaultInterval      = 10 * time.Second
	DefaultRetryInterval = 10 * time.Second
	DefaultConcurrency   = 16
	DefaultRate          = 20

	offlinePort = slp.DefaultPort
)

// QueryFunc pings one server.
type QueryFunc func(ctx context.Context, host string, port *uint16) (*slp.Status, error)

// PollerConfig tunes a Poller. Zero values take the defaults.
type PollerConfig struct {
	ServersFile   string
	Interval      time.Duration
	RetryInterval time.Duration
	Concurrency   int
	Rate          float64
	ForceIPv4     bool
}

// Poller periodically pings every configured server and publishes both
// orderings to the store.
type Poller struct {
	cfg     PollerConfig
	store   state.CatalogStore
	query   QueryFunc
	limiter *rate.Limiter
	logger  *slog.Logger
	load    func(string) ([]Server, error)
}

// PollerOption customises a Poller.
type PollerOption func(*Poller)

// WithQuery replaces slp.Query.
func WithQuery(fn QueryFunc) PollerOption {
	return func(p *Poller) {
		if fn != nil {
			p.query = fn
		}
	}
}

// WithPollerLogger sets the logger.
func WithPollerLogger(logger *slog.Logger) PollerOption {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPoller builds a poller publishing into store.
func NewPoller(cfg PollerConfig, store state.CatalogStore, opts ...PollerOption) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}
	burst := int(cfg.Rate)
	if burst < 1 {
		burst = 1
	}
	p := &Poller{
		cfg:     cfg,
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), burst),
		logger:  slog.Default(),
		load:    LoadServers,
	}
	forceIPv4 := cfg.ForceIPv4 || slp.ForceIPv4FromEnv()
	p.query = func(ctx context.Context, host string, port *uint16) (*slp.Status, error) {
		return slp.Query(ctx, host, port, slp.WithForceIPv4(forceIPv4))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	for {
		wait := p.cfg.Interval
		if err := p.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait = p.cfg.RetryInterval
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// Cycle performs one load, ping and publish round. A load failure leaves the
// store untouched.
func (p *Poller) Cycle(ctx context.Context) error {
	logger := p.logger.With("cycle_id", uuid.NewString())
	start := time.Now()

	servers, err := p.load(p.cfg.ServersFile)
	if err != nil {
		logger.Warn("failed to load servers", "path", p.cfg.ServersFile, "err", err, "retry_in", p.cfg.RetryInterval)
		return err
	}

	entries := make([]catalog.Entry, len(servers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, srv := range servers {
		if err := p.limiter.Wait(gctx); err != nil {
			break
		}
		g.Go(func() error {
			entries[i] = p.ping(gctx, logger, srv)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	asc := SortAscending(entries)
	desc := Reverse(asc)
	p.store.Replace(desc, asc)

	online := 0
	for _, e := range entries {
		if e.IsOnline {
			online++
		}
	}
	logger.Info("published server list",
		"servers", len(entries),
		"online", online,
		"durationMs", time.Since(start).Milliseconds(),
	)
	return nil
}

func (p *Poller) ping(ctx context.Context, logger *slog.Logger, srv Server) catalog.Entry {
	status, err := p.query(ctx, srv.IP, srv.Port)
	if err != nil {
		logger.Debug("server offline", "name", srv.Name, "ip", srv.IP, "err", err)
		return OfflineEntry(srv)
	}
	return catalog.Entry{
		PlayersOnline: max(status.PlayersOnline, 0),
		VersionName:   status.VersionName,
		Description:   srv.Description,
		Icon:          srv.Icon,
		IsOnline:      true,
		IP:            srv.IP,
		Port:          status.Port,
		Name:          srv.Name,
		PlayersMax:    max(status.PlayersMax, 0),
	}
}

// OfflineEntry is the record published for an unreachable server.
func OfflineEntry(srv Server) catalog.Entry {
	return catalog.Entry{
		Description: srv.Description,
		Icon:        srv.Icon,
		IP:          srv.IP,
		Port:        offlinePort,
		Name:        srv.Name,
	}
}

// SortAscending returns a copy stably sorted by players online.
func SortAscending(entries []catalog.Entry) []catalog.Entry {
	out := catalog.CloneEntries(entries)
	slices.SortStableFunc(out, func(a, b catalog.Entry) int {
		switch {
		case a.PlayersOnline < b.PlayersOnline:
			return -1
		case a.PlayersOnline > b.PlayersOnline:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Reverse returns entries in the opposite order.
func Reverse(entries []catalog.Entry) []catalog.Entry {
	out := catalog.CloneEntries(entries)
	slices.Reverse(out)
	return out
}
