package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
)

const (
	sidePanelMinCols   = 32
	sidePanelShare     = 0.45
	bottomBarRows      = 2
	itemMark           = "▌ "
	ellipsis           = "…"
	footerHint         = "↑/↓ move  ←/→ page  tab order  enter join  ctrl+r refresh  esc quit"
	offlineSuffix      = " (offline)"
	loadingPlaceholder = "Loading server list…"
)

// line is one screen row. mark is drawn in markStyle ahead of text so the
// slot gutter can be coloured apart from the label.
type line struct {
	mark      string
	markStyle *lipgloss.Style
	text      string
	style     *lipgloss.Style
}

func (l line) render() string {
	text := l.text
	if l.style != nil {
		text = l.style.Render(text)
	}
	if l.mark == "" {
		return text
	}
	mark := l.mark
	if l.markStyle != nil {
		mark = l.markStyle.Render(mark)
	}
	return mark + text
}

func (l line) width() int {
	return ansi.StringWidth(l.mark) + ansi.StringWidth(l.text)
}

// clip shortens the row to cols cells. The mark is kept whole when it fits.
func (l line) clip(cols int) line {
	if cols <= 0 || l.width() <= cols {
		return l
	}
	markW := ansi.StringWidth(l.mark)
	if markW >= cols {
		return line{text: truncateText(l.mark+l.text, cols), style: l.style}
	}
	l.text = truncateText(l.text, cols-markW)
	return l
}

func joinLines(lines []line) string {
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.render()
	}
	return strings.Join(rendered, "\n")
}

// sidePanelCols is the preview panel width, or 0 when the terminal is too
// narrow to split.
func (m *Model) sidePanelCols() int {
	if m.width <= 0 {
		return 0
	}
	if cols := int(float64(m.width) * sidePanelShare); cols >= sidePanelMinCols {
		return cols
	}
	return 0
}

func (m *Model) hasSidePreview() bool {
	return m.sidePanelCols() > 0 && m.activePreview() != nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.hasSidePreview() {
		return m.renderSplit()
	}
	return m.renderStacked()
}

// mainColumn holds the header, the visible slots and the trailer.
func (m *Model) mainColumn(cols int) []line {
	out := []line{{text: m.menuHeader(), style: styles.Header}}
	out = append(out, m.listLines(cols)...)
	return append(out, m.trailerLines()...)
}

func (m *Model) renderStacked() string {
	body := fitRows(m.mainColumn(m.width), m.height-bottomBarRows, m.width)
	return joinLines(append(body, m.bottomBar()...))
}

func (m *Model) renderSplit() string {
	panelCols := m.sidePanelCols()
	listCols := m.width - panelCols

	body := m.mainColumn(listCols)
	rows := m.height - bottomBarRows
	if m.height <= 0 {
		rows = len(body)
	}
	rows = max(rows, 1)
	body = fitRows(body, rows, listCols)

	left := make([]string, rows)
	for i := range left {
		var cell string
		if i < len(body) {
			cell = body[i].render()
		}
		left[i] = padCells(cell, listCols)
	}
	panel := renderPreviewPanel(m.activePreview(), panelCols, rows)
	top := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(left, "\n"), panel)
	return top + "\n" + joinLines(m.bottomBar())
}

// listLines renders the slots of the cursor's page that fit the viewport.
func (m *Model) listLines(cols int) []line {
	current := m.currentLevel()
	if current == nil {
		return []line{{text: loadingPlaceholder, style: styles.Loading}}
	}
	m.syncViewport(current)
	if len(current.Items) == 0 {
		if current.Filter != "" {
			return []line{{text: fmt.Sprintf("No matches for %q", current.Filter), style: styles.Info}}
		}
		return []line{{text: "(no servers listed)", style: styles.Info}}
	}

	first, last := current.PageBounds()
	first += current.ViewportOffset
	if room := m.maxVisibleItems(); room > 0 {
		last = min(last, first+room)
	}
	out := make([]line, 0, last-first)
	for idx := first; idx < last; idx++ {
		out = append(out, m.buildItemLine(current.Items[idx], idx == current.Cursor, cols))
	}
	return out
}

// buildItemLine renders one slot. With cols > 0 the label is padded so the
// selection background spans the column.
func (m *Model) buildItemLine(item menu.Descriptor, selected bool, cols int) line {
	l := line{mark: itemMark, markStyle: styles.ItemIndicator, text: item.Title, style: styles.Item}
	if !item.Online {
		l.text += offlineSuffix
		l.style = styles.Offline
	}
	if selected {
		l.markStyle = styles.SelectedItemIndicator
		l.style = styles.SelectedItem
	}
	if gap := cols - l.width(); cols > 0 && gap > 0 {
		l.text += strings.Repeat(" ", gap)
	}
	return l
}

func (m *Model) bottomBar() []line {
	status := line{}
	if m.errMsg != "" {
		status = line{text: "Error: " + m.errMsg, style: styles.Error}
	} else if m.loading {
		status = line{text: fmt.Sprintf("Transferring to %s…", m.pendingLabel), style: styles.Loading}
	}
	return []line{status.clip(m.width), line{text: m.filterPrompt()}.clip(m.width)}
}

// trailerLines holds the info notice and footer, each after a blank row.
func (m *Model) trailerLines() []line {
	var out []line
	if info := m.currentInfo(); info != "" {
		out = append(out, line{}, line{text: info, style: styles.Info})
	}
	if m.showFooter {
		out = append(out, line{}, line{text: footerHint, style: styles.Footer})
	}
	return out
}

// menuHeader is the page title followed by the ordering label.
func (m *Model) menuHeader() string {
	current := m.currentLevel()
	if current == nil {
		return menu.Title(1, 1)
	}
	return menu.Title(current.Page()+1, current.Pages()) + "  " + current.Title
}

// maxVisibleItems is the slot budget left after the header, trailer and
// bottom bar, or -1 when the height is unknown.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	reserved := 1 + bottomBarRows
	if m.currentInfo() != "" {
		reserved += 2
	}
	if m.showFooter {
		reserved += 2
	}
	return max(m.height-reserved, 1)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	m.syncViewport(m.currentLevel())
	return nil
}

// fitRows clips every row to cols and, when rows is positive, replaces the
// overflow with a single ellipsis row.
func fitRows(lines []line, rows, cols int) []line {
	if rows > 0 && len(lines) > rows {
		lines = append(lines[:rows-1:rows-1], line{text: ellipsis})
	}
	out := make([]line, len(lines))
	for i, l := range lines {
		out[i] = l.clip(cols)
	}
	return out
}

func padCells(s string, cols int) string {
	w := lipgloss.Width(s)
	switch {
	case w > cols:
		return ansi.Truncate(s, cols, ellipsis)
	case w < cols:
		return s + strings.Repeat(" ", cols-w)
	}
	return s
}

// truncateText trims text to cols display cells. Server names are often
// full-width, so cells are not runes.
func truncateText(text string, cols int) string {
	if cols <= 0 || ansi.StringWidth(text) <= cols {
		return text
	}
	return ansi.Truncate(text, cols, ellipsis)
}
