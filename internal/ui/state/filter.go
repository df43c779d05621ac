package state

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
)

// The search query is edited at its end only; left and right page the list.

// SetFilter replaces the query and re-applies it. Entering a query remembers
// the selected server and clearing it moves the cursor back to that server,
// wherever a refresh in between has placed it.
func (l *Level) SetFilter(query string) {
	wasActive := strings.TrimSpace(l.Filter) != ""
	active := strings.TrimSpace(query) != ""
	if active && !wasActive {
		l.LastSelected = ""
		if item, ok := l.Selected(); ok {
			l.LastSelected = item.Action.Addr()
		}
	}

	l.Filter = query
	l.applyFilter()

	switch {
	case active:
		l.Cursor = max(BestMatchIndex(l.Items, query), 0)
	case wasActive:
		l.Cursor = max(l.IndexOf(l.LastSelected), 0)
		l.LastSelected = ""
	}
}

// AppendFilter adds text to the end of the query.
func (l *Level) AppendFilter(text string) bool {
	if text == "" {
		return false
	}
	l.SetFilter(l.Filter + text)
	return true
}

// TrimFilterRune drops the last rune of the query.
func (l *Level) TrimFilterRune() bool {
	runes := []rune(l.Filter)
	if len(runes) == 0 {
		return false
	}
	l.SetFilter(string(runes[:len(runes)-1]))
	return true
}

// TrimFilterWord drops trailing spaces and then the last word of the query.
func (l *Level) TrimFilterWord() bool {
	if l.Filter == "" {
		return false
	}
	trimmed := strings.TrimRightFunc(l.Filter, unicode.IsSpace)
	cut := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	l.SetFilter(trimmed[:cut+1])
	return true
}

// ClearFilter empties the query.
func (l *Level) ClearFilter() bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("")
	return true
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), len(l.Items)-1)
	if l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// FilterItems keeps the descriptors whose title fuzzily matches query. When
// nothing matches fuzzily it falls back to a substring match on the title or
// the transfer address.
func FilterItems(items []menu.Descriptor, query string) []menu.Descriptor {
	q := strings.TrimSpace(query)
	if q == "" {
		return CloneItems(items)
	}
	hits := make(map[int]bool, len(items))
	for _, rank := range fuzzy.RankFindNormalizedFold(q, titles(items)) {
		hits[rank.OriginalIndex] = true
	}
	if len(hits) == 0 {
		lower := strings.ToLower(q)
		for i, item := range items {
			if strings.Contains(strings.ToLower(item.Title), lower) ||
				strings.Contains(strings.ToLower(item.Action.Addr()), lower) {
				hits[i] = true
			}
		}
	}
	out := make([]menu.Descriptor, 0, len(hits))
	for i, item := range items {
		if hits[i] {
			out = append(out, item)
		}
	}
	return out
}

const (
	tierExact = iota
	tierTitlePrefix
	tierAddrPrefix
	tierTitleContains
	tierNone
)

func matchTier(item menu.Descriptor, lower string) int {
	title := strings.ToLower(item.Title)
	addr := strings.ToLower(item.Action.Addr())
	switch {
	case title == lower || addr == lower:
		return tierExact
	case strings.HasPrefix(title, lower):
		return tierTitlePrefix
	case strings.HasPrefix(addr, lower):
		return tierAddrPrefix
	case strings.Contains(title, lower):
		return tierTitleContains
	default:
		return tierNone
	}
}

// BestMatchIndex picks the item the cursor should land on for query. It
// returns -1 only for an empty list.
func BestMatchIndex(items []menu.Descriptor, query string) int {
	if len(items) == 0 {
		return -1
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return 0
	}
	lower := strings.ToLower(q)
	best, bestTier := -1, tierNone
	for i, item := range items {
		if tier := matchTier(item, lower); tier < bestTier {
			best, bestTier = i, tier
		}
	}
	if best >= 0 {
		return best
	}

	ranks := fuzzy.RankFindNormalizedFold(q, titles(items))
	if len(ranks) == 0 {
		return 0
	}
	closest := slices.MinFunc(ranks, func(a, b fuzzy.Rank) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.OriginalIndex, b.OriginalIndex)
	})
	return closest.OriginalIndex
}

func titles(items []menu.Descriptor) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}
