package testutil

import (
	"fmt"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
)

// Entry returns an online entry with a 10.0.0.x address.
func Entry(name string, online int64) catalog.Entry {
	return catalog.Entry{
		Name:          name,
		PlayersOnline: online,
		PlayersMax:    100,
		VersionName:   "1.20.4",
		Description:   name + " server",
		Icon:          "grass_block",
		IsOnline:      true,
		IP:            "10.0.0.1",
		Port:          25565,
	}
}

// Entries returns n entries named srv00.. with descending player counts.
func Entries(n int) []catalog.Entry {
	out := make([]catalog.Entry, n)
	for i := range out {
		e := Entry(fmt.Sprintf("srv%02d", i), int64(n-i))
		e.IP = fmt.Sprintf("10.0.0.%d", i+1)
		out[i] = e
	}
	return out
}
