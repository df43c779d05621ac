package menu

import (
	_ "embed"
	"strings"
)

// materials is the vanilla block and item identifier list, one per line.
//
//go:embed materials.txt
var materials string

var knownIcons = loadIcons(materials)

func loadIcons(list string) map[string]struct{} {
	icons := make(map[string]struct{}, strings.Count(list, "\n")+1)
	for _, name := range strings.Fields(list) {
		icons[name] = struct{}{}
	}
	return icons
}

func iconKey(name string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "minecraft:")
}

// ResolveIcon maps a free-form icon name onto a known identifier, ignoring
// case, surrounding whitespace and a minecraft: namespace. Unknown names
// resolve to FallbackIcon.
func ResolveIcon(name string) string {
	if key := iconKey(name); KnownIcon(key) {
		return key
	}
	return FallbackIcon
}

// KnownIcon reports whether name resolves without falling back.
func KnownIcon(name string) bool {
	_, ok := knownIcons[iconKey(name)]
	return ok
}
