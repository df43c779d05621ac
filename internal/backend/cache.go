package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
)

const (
	DefaultInterval      = 10 * time.Minute
	DefaultFetchTimeout  = 30 * time.Second
	DefaultMinRefreshGap = 5 * time.Second
)

// ErrAlreadyStarted is returned when Start is called on a running cache.
var ErrAlreadyStarted = errors.New("catalog cache already started")

// Fetcher retrieves the entry list for one ordering.
type Fetcher interface {
	Fetch(ctx context.Context, o catalog.Ordering) ([]catalog.Entry, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, o catalog.Ordering) ([]catalog.Entry, error)

func (f FetcherFunc) Fetch(ctx context.Context, o catalog.Ordering) ([]catalog.Entry, error) {
	return f(ctx, o)
}

// Option configures a CatalogCache.
type Option func(*CatalogCache)

// WithInterval sets the delay between refresh cycles.
func WithInterval(d time.Duration) Option {
	return func(c *CatalogCache) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithFetchTimeout bounds each individual fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *CatalogCache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithMinRefreshGap sets the minimum gap between accepted manual refreshes.
func WithMinRefreshGap(d time.Duration) Option {
	return func(c *CatalogCache) {
		c.gate = newThrottle(d)
	}
}

// WithLogger routes cache diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CatalogCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// CatalogCache keeps the latest entry list per ordering and refreshes both on
// an interval. Reads never block; each ordering is swapped as a whole.
type CatalogCache struct {
	fetcher      Fetcher
	interval     time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
	gate         *throttle

	snapshots   [2]atomic.Pointer[[]catalog.Entry]
	generation  atomic.Uint64
	subscribers *SubscriberRegistry
	trigger     chan struct{}

	mu       sync.Mutex
	started  bool
	cancel   context.CancelFunc
	done     chan struct{}
	lastErrs map[catalog.Ordering]error
}

// NewCatalogCache builds a cache around fetcher. The loop does not run until
// Start is called.
func NewCatalogCache(fetcher Fetcher, opts ...Option) *CatalogCache {
	c := &CatalogCache{
		fetcher:      fetcher,
		interval:     DefaultInterval,
		fetchTimeout: DefaultFetchTimeout,
		logger:       slog.New(slog.DiscardHandler),
		gate:         newThrottle(DefaultMinRefreshGap),
		trigger:      make(chan struct{}, 1),
		lastErrs:     map[catalog.Ordering]error{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.subscribers = NewSubscriberRegistry(c.logger)
	return c
}

// Start launches the refresh loop and returns immediately. The first cycle
// runs right away. A second call fails with ErrAlreadyStarted.
func (c *CatalogCache) Start(ctx context.Context) error {
	if c.fetcher == nil {
		return fmt.Errorf("catalog cache has no fetcher")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	loopCtx, cancel := context.WithCancel(ctx)
	c.started = true
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(loopCtx, c.done)
	return nil
}

// Stop cancels the refresh loop. An in-flight fetch is abandoned.
func (c *CatalogCache) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the refresh loop has exited. It returns immediately if
// the cache was never started.
func (c *CatalogCache) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Current returns a copy of the latest entries for o. Before the first
// successful fetch of o it returns an empty slice.
func (c *CatalogCache) Current(o catalog.Ordering) []catalog.Entry {
	if !o.Valid() {
		return []catalog.Entry{}
	}
	p := c.snapshots[o].Load()
	if p == nil {
		return []catalog.Entry{}
	}
	return catalog.CloneEntries(*p)
}

// Generation counts completed refresh cycles.
func (c *CatalogCache) Generation() uint64 {
	return c.generation.Load()
}

// LastErrors returns the fetch failures of the most recent cycle.
func (c *CatalogCache) LastErrors() map[catalog.Ordering]error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[catalog.Ordering]error, len(c.lastErrs))
	for k, v := range c.lastErrs {
		out[k] = v
	}
	return out
}

// OnUpdate registers cb to run after every completed cycle, successful or
// not, after the snapshots for that cycle have been stored.
func (c *CatalogCache) OnUpdate(cb func() error) {
	c.subscribers.Add(cb)
}

// Refresh asks the loop to run a cycle now. It reports false when the request
// was throttled.
func (c *CatalogCache) Refresh() bool {
	if !c.gate.allow() {
		events.Catalog.Manual(false)
		return false
	}
	events.Catalog.Manual(true)
	select {
	case c.trigger <- struct{}{}:
	default:
	}
	return true
}

func (c *CatalogCache) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if !c.cycle(ctx) {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-c.trigger:
			ticker.Reset(c.interval)
		}
		if !c.cycle(ctx) {
			return
		}
	}
}

type fetchResult struct {
	entries []catalog.Entry
	err     error
}

// cycle runs one refresh and reports whether the loop should continue.
func (c *CatalogCache) cycle(ctx context.Context) bool {
	gen := c.generation.Load() + 1
	started := time.Now()
	events.Catalog.RefreshStart(gen)

	results := make(map[catalog.Ordering]fetchResult, len(catalog.Orderings))
	for _, o := range catalog.Orderings {
		entries, err := c.fetch(ctx, o)
		if ctx.Err() != nil {
			return false
		}
		results[o] = fetchResult{entries: entries, err: err}
	}

	errs := make(map[catalog.Ordering]error)
	for _, o := range catalog.Orderings {
		res := results[o]
		if res.err != nil {
			errs[o] = res.err
			c.logger.Warn("catalog fetch failed; keeping previous snapshot",
				"ordering", o.Wire(), "generation", gen, "err", res.err)
			events.Catalog.FetchFailed(o.Wire(), res.err)
			continue
		}
		snapshot := catalog.CloneEntries(res.entries)
		c.snapshots[o].Store(&snapshot)
		events.Catalog.FetchOK(o.Wire(), len(snapshot))
	}

	c.mu.Lock()
	c.lastErrs = errs
	c.mu.Unlock()
	c.generation.Store(gen)

	c.logger.Info("catalog refresh complete",
		"generation", gen,
		"failures", len(errs),
		"durationMs", time.Since(started).Milliseconds())
	events.Catalog.RefreshDone(gen, len(errs))

	_ = c.subscribers.Notify()
	return true
}

// fetch runs a single fetch under the per-fetch deadline. The deadline is
// enforced even if the fetcher ignores its context.
func (c *CatalogCache) fetch(ctx context.Context, o catalog.Ordering) ([]catalog.Entry, error) {
	fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	ch := make(chan fetchResult, 1)
	go func() {
		entries, err := c.fetcher.Fetch(fctx, o)
		ch <- fetchResult{entries: entries, err: err}
	}()

	var res fetchResult
	select {
	case res = <-ch:
	case <-fctx.Done():
		res = fetchResult{err: fctx.Err()}
	}
	if res.err == nil {
		return res.entries, nil
	}
	var fe *catalog.FetchError
	if errors.As(res.err, &fe) {
		return nil, res.err
	}
	return nil, &catalog.FetchError{Ordering: o, Err: res.err}
}
