package ui

import (
	"strconv"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/format/table"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
)

// previewData is the side panel content for the selected slot.
type previewData struct {
	title string
	lore  []string
	facts []string
}

func (m *Model) activePreview() *previewData {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	item, ok := current.Selected()
	if !ok {
		return nil
	}
	return buildPreview(item)
}

func buildPreview(item menu.Descriptor) *previewData {
	status := "online"
	if !item.Online {
		status = "offline"
	}
	rows := [][]string{
		{"Address", item.Action.Addr()},
		{"Icon", iconLabel(item)},
		{"Stack", strconv.Itoa(item.Amount)},
		{"Status", status},
	}
	return &previewData{
		title: item.Title,
		lore:  append([]string(nil), item.Lore...),
		facts: table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft}),
	}
}

// lines flattens the preview into panel body rows: lore, a separator, then
// the fact table.
func (p *previewData) lines() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.lore)+len(p.facts)+1)
	out = append(out, p.lore...)
	out = append(out, "")
	out = append(out, p.facts...)
	return out
}

func iconLabel(item menu.Descriptor) string {
	if item.IconFallback {
		return item.Icon + " (default)"
	}
	return item.Icon
}
