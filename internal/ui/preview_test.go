package ui

import (
	"strings"
	"testing"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"
)

func TestPreviewMarksDefaultIcon(t *testing.T) {
	entry := testEntries(1)[0]
	entry.Icon = "not_a_real_icon"
	got := strings.Join(buildPreview(menu.Describe(entry)).facts, "\n")
	if !strings.Contains(got, "grass_block (default)") {
		t.Fatalf("expected default icon marker, got:\n%s", got)
	}

	entry.Icon = "WHITE_CONCRETE"
	got = strings.Join(buildPreview(menu.Describe(entry)).facts, "\n")
	if !strings.Contains(got, "white_concrete") || strings.Contains(got, "(default)") {
		t.Fatalf("expected resolved icon without marker, got:\n%s", got)
	}
}
