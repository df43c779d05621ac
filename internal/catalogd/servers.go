package catalogd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Server is one [[servers]] table from servers.toml.
type Server struct {
	IP          string  `toml:"ip"`
	Port        *uint16 `toml:"port"`
	Icon        string  `toml:"icon"`
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
}

type serversFile struct {
	Servers []Server `toml:"servers"`
}

// LoadServers reads and validates the server list at path.
func LoadServers(path string) ([]Server, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseServers(data)
}

// ParseServers decodes servers.toml content.
func ParseServers(data []byte) ([]Server, error) {
	var file serversFile
	if err := toml.Unmarshal(data, &file); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("parse servers at %d:%d: %w", row, col, err)
		}
		return nil, fmt.Errorf("parse servers: %w", err)
	}
	for i, s := range file.Servers {
		if strings.TrimSpace(s.IP) == "" {
			return nil, fmt.Errorf("servers[%d]: ip is required", i)
		}
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("servers[%d]: name is required", i)
		}
	}
	return file.Servers, nil
}
