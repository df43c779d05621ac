package state

import (
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
)

// Level holds the cursor, filter and viewport for one ordering's list.
type Level struct {
	ID     string
	Title  string
	Items  []menu.Descriptor
	Full   []menu.Descriptor
	Filter string
	Cursor int
	// LastSelected is the address under the cursor when the filter was
	// entered.
	LastSelected   string
	PageSize       int
	ViewportOffset int
}

// NewLevel constructs a Level over items, paged in pageSize slots.
func NewLevel(id, title string, items []menu.Descriptor, pageSize int) *Level {
	if pageSize <= 0 {
		pageSize = menu.PageSize
	}
	l := &Level{
		ID:       id,
		Title:    title,
		PageSize: pageSize,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index of the item whose transfer address is addr.
func (l *Level) IndexOf(addr string) int {
	if addr == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.Action.Addr() == addr {
			return i
		}
	}
	return -1
}

// Selected returns the descriptor under the cursor.
func (l *Level) Selected() (menu.Descriptor, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Descriptor{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the level items. The cursor follows the previously
// selected server when it is still listed.
func (l *Level) UpdateItems(items []menu.Descriptor) {
	prev := ""
	if current, ok := l.Selected(); ok {
		prev = current.Action.Addr()
	}
	l.Full = CloneItems(items)
	l.applyFilter()
	if idx := l.IndexOf(prev); idx >= 0 {
		l.Cursor = idx
	}
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
	}
}
