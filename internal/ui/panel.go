package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPreviewPanel draws the lore box in exactly cols columns and rows
// rows. The slot title heads the box; body rows past the bottom collapse
// into an ellipsis row.
func renderPreviewPanel(preview *previewData, cols, rows int) string {
	innerCols := max(cols-2, 1)
	innerRows := max(rows-2, 1)

	title := ellipsis
	var body []string
	if preview != nil {
		title = preview.title
		body = preview.lines()
	}

	content := make([]string, 0, innerRows)
	content = append(content, styles.PreviewTitle.Render(truncateText(title, innerCols)))
	for _, row := range body {
		if len(content) == innerRows-1 && len(body) > innerRows-1 {
			content = append(content, styles.PreviewBody.Render(ellipsis))
			break
		}
		if len(content) == innerRows {
			break
		}
		content = append(content, styles.PreviewBody.Render(truncateText(row, innerCols)))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.PreviewBorder.GetForeground()).
		Width(innerCols).
		Height(innerRows)
	return box.Render(strings.Join(content, "\n"))
}
