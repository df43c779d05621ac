package state

import "github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"

// Pages returns the number of pages the filtered items occupy.
func (l *Level) Pages() int {
	return menu.PageCount(len(l.Items), l.PageSize)
}

// Page returns the zero-based page holding the cursor.
func (l *Level) Page() int {
	if len(l.Items) == 0 || l.Cursor < 0 {
		return 0
	}
	return menu.ClampPage(l.Cursor/l.pageSize(), l.Pages())
}

// PageBounds returns the half-open item range of the cursor's page.
func (l *Level) PageBounds() (start, end int) {
	size := l.pageSize()
	start = l.Page() * size
	end = start + size
	if end > len(l.Items) {
		end = len(l.Items)
	}
	if start > end {
		start = end
	}
	return start, end
}

// MoveCursorUp moves one item up, wrapping to the last item.
func (l *Level) MoveCursorUp() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	if l.Cursor > 0 {
		l.Cursor--
	} else {
		l.Cursor = n - 1
	}
	return old != l.Cursor
}

// MoveCursorDown moves one item down, wrapping to the first item.
func (l *Level) MoveCursorDown() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	if l.Cursor < n-1 {
		l.Cursor++
	} else {
		l.Cursor = 0
	}
	return old != l.Cursor
}

// MoveCursorHome moves the cursor to the first item.
func (l *Level) MoveCursorHome() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = 0
	return old != l.Cursor
}

// MoveCursorEnd moves the cursor to the last item.
func (l *Level) MoveCursorEnd() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = n - 1
	return old != l.Cursor
}

// NextPage moves the cursor to the first item of the following page. It
// does nothing on the last page.
func (l *Level) NextPage() bool {
	return l.gotoPage(l.Page() + 1)
}

// PrevPage moves the cursor to the first item of the preceding page. It
// does nothing on the first page.
func (l *Level) PrevPage() bool {
	return l.gotoPage(l.Page() - 1)
}

func (l *Level) gotoPage(page int) bool {
	if len(l.Items) == 0 || page < 0 || page >= l.Pages() {
		return false
	}
	old := l.Cursor
	l.Cursor = page * l.pageSize()
	l.ViewportOffset = 0
	return old != l.Cursor
}

func (l *Level) pageSize() int {
	if l.PageSize <= 0 {
		return menu.PageSize
	}
	return l.PageSize
}

// EnsureCursorVisible adjusts the viewport offset, relative to the start of
// the cursor's page, so the cursor stays visible within maxVisible rows.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	start, end := l.PageBounds()
	rel := l.Cursor - start
	maxOffset := (end - start) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.ViewportOffset > maxOffset {
		l.ViewportOffset = maxOffset
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
	if rel < l.ViewportOffset {
		l.ViewportOffset = rel
	}
	if upper := l.ViewportOffset + maxVisible - 1; rel > upper {
		l.ViewportOffset = rel - maxVisible + 1
		if l.ViewportOffset > maxOffset {
			l.ViewportOffset = maxOffset
		}
	}
}
