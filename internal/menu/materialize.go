package menu

import (
	"fmt"
	"strings"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
)

// Materialize turns entries into descriptors, one per entry and in the same
// order. It never fails: unknown icons fall back and counts are clamped.
func Materialize(entries []catalog.Entry) []Descriptor {
	out := make([]Descriptor, len(entries))
	for i, entry := range entries {
		out[i] = Describe(entry)
	}
	return out
}

// Describe builds the descriptor for a single entry.
func Describe(entry catalog.Entry) Descriptor {
	return Descriptor{
		Icon:         ResolveIcon(entry.Icon),
		IconFallback: !KnownIcon(entry.Icon),
		Title:        EntryTitle(entry),
		Lore:         Lore(entry),
		Amount:       Amount(entry.PlayersOnline),
		Online:       entry.IsOnline,
		Action:       Transfer{IP: entry.IP, Port: entry.Port},
	}
}

// EntryTitle renders "<name> [<online>/<max>]".
func EntryTitle(entry catalog.Entry) string {
	return fmt.Sprintf("%s [%d/%d]", entry.Name, entry.PlayersOnline, entry.PlayersMax)
}

// Lore renders the version line, a blank separator, then each description line.
func Lore(entry catalog.Entry) []string {
	lore := []string{"Version: " + entry.VersionName, ""}
	if entry.Description == "" {
		return lore
	}
	return append(lore, strings.Split(entry.Description, "\n")...)
}

// Amount converts a player count into a stack size within [MinAmount, MaxAmount].
func Amount(online int64) int {
	switch {
	case online < MinAmount:
		return MinAmount
	case online > MaxAmount:
		return MaxAmount
	default:
		return int(online)
	}
}
