package views

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging/events"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
)

// ErrUnknownOrdering is returned by Open for an ordering outside the known set.
var ErrUnknownOrdering = errors.New("unknown ordering")

// Source supplies the entries a view is built from.
type Source interface {
	Current(o catalog.Ordering) []catalog.Entry
	Generation() uint64
}

// Updater is a Source that can announce completed refreshes.
type Updater interface {
	Source
	OnUpdate(cb func() error)
}

// Viewer displays a materialized view.
type Viewer interface {
	Show(view *MaterializedView) error
}

// MaterializedView is an immutable, render-ready view of one ordering.
type MaterializedView struct {
	Ordering    catalog.Ordering
	Descriptors []menu.Descriptor
	PageSize    int
	Pages       int
	Generation  uint64
	BuiltAt     time.Time
}

// Page returns the descriptors on zero-based page i, clamped to the
// available range.
func (v *MaterializedView) Page(i int) []menu.Descriptor {
	pages := menu.Paginate(v.Descriptors, v.PageSize)
	return pages[menu.ClampPage(i, len(pages))]
}

func newView(o catalog.Ordering, descs []menu.Descriptor, generation uint64, builtAt time.Time) *MaterializedView {
	return &MaterializedView{
		Ordering:    o,
		Descriptors: descs,
		PageSize:    menu.PageSize,
		Pages:       menu.PageCount(len(descs), menu.PageSize),
		Generation:  generation,
		BuiltAt:     builtAt,
	}
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source used to stamp views.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry holds the current materialized view for each ordering.
type Registry struct {
	source Source
	now    func() time.Time
	views  [2]atomic.Pointer[MaterializedView]
}

// New returns a registry whose views start empty until the first Rebuild.
func New(source Source, opts ...Option) *Registry {
	r := &Registry{source: source, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	for _, o := range catalog.Orderings {
		r.views[o].Store(newView(o, []menu.Descriptor{}, 0, time.Time{}))
	}
	return r
}

// Attach subscribes the registry to updater and builds the initial views.
func (r *Registry) Attach(updater Updater) {
	updater.OnUpdate(r.Rebuild)
	_ = r.Rebuild()
}

// Rebuild re-materializes every ordering from the source and swaps each
// view in whole.
func (r *Registry) Rebuild() error {
	if r.source == nil {
		return fmt.Errorf("view registry has no source")
	}
	gen := r.source.Generation()
	for _, o := range catalog.Orderings {
		descs := menu.Materialize(r.source.Current(o))
		view := newView(o, descs, gen, r.now())
		r.views[o].Store(view)
		events.View.Rebuild(o.Wire(), gen, len(descs), view.Pages)
	}
	return nil
}

// View returns the current view for o, or nil for an unknown ordering.
func (r *Registry) View(o catalog.Ordering) *MaterializedView {
	if !o.Valid() {
		return nil
	}
	return r.views[o].Load()
}

// Open shows the view that is current at call time to viewer.
func (r *Registry) Open(viewer Viewer, o catalog.Ordering) error {
	view := r.View(o)
	if view == nil {
		return fmt.Errorf("open %d: %w", int(o), ErrUnknownOrdering)
	}
	if viewer == nil {
		return fmt.Errorf("open %s: no viewer", o.Wire())
	}
	events.View.Open(o.Wire(), view.Generation)
	return viewer.Show(view)
}
