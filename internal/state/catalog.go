package state

import (
	"sync"
	"time"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
)

// CatalogStore holds the published server list for each ordering.
type CatalogStore interface {
	Entries(o catalog.Ordering) []catalog.Entry
	Replace(desc, asc []catalog.Entry)
	UpdatedAt() time.Time
}

type catalogStore struct {
	mu        sync.RWMutex
	entries   map[catalog.Ordering][]catalog.Entry
	updatedAt time.Time
	now       func() time.Time
}

// NewCatalogStore returns an empty store. Every ordering reads as an empty
// list until the first publish.
func NewCatalogStore() CatalogStore {
	return &catalogStore{
		entries: make(map[catalog.Ordering][]catalog.Entry, len(catalog.Orderings)),
		now:     time.Now,
	}
}

func (s *catalogStore) Entries(o catalog.Ordering) []catalog.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.CloneEntries(s.entries[o])
}

// Replace publishes both orderings under one lock so readers never pair a
// new descending list with an old ascending one.
func (s *catalogStore) Replace(desc, asc []catalog.Entry) {
	d, a := catalog.CloneEntries(desc), catalog.CloneEntries(asc)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[catalog.ByPopulationDesc] = d
	s.entries[catalog.ByPopulationAsc] = a
	s.updatedAt = s.now()
}

func (s *catalogStore) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
