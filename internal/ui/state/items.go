package state

import "github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/menu"

// CloneItems produces a shallow copy of the provided descriptors.
func CloneItems(items []menu.Descriptor) []menu.Descriptor {
	dup := make([]menu.Descriptor, len(items))
	copy(dup, items)
	return dup
}
