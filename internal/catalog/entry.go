package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is one server record as published by the catalog.
type Entry struct {
	PlayersOnline int64  `json:"players_online"`
	VersionName   string `json:"version_name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	IsOnline      bool   `json:"is_online"`
	IP            string `json:"ip"`
	Port          uint16 `json:"port"`
	Name          string `json:"name"`
	PlayersMax    int64  `json:"players_max"`
}

// validate rejects player counts no catalog can report.
func (e Entry) validate() error {
	if e.PlayersOnline < 0 || e.PlayersMax < 0 {
		return fmt.Errorf("%q: negative player count %d/%d", e.Name, e.PlayersOnline, e.PlayersMax)
	}
	return nil
}

// Ordering selects both the remote query and the cached snapshot a view reads.
type Ordering int

const (
	ByPopulationDesc Ordering = iota
	ByPopulationAsc
)

// Orderings lists every ordering in refresh order.
var Orderings = []Ordering{ByPopulationDesc, ByPopulationAsc}

const (
	wireDesc = "Player"
	wireAsc  = "PlayerReverse"
)

// Valid reports whether o is one of the known orderings.
func (o Ordering) Valid() bool {
	return o == ByPopulationDesc || o == ByPopulationAsc
}

// Wire returns the name used on the catalog API.
func (o Ordering) Wire() string {
	switch o {
	case ByPopulationDesc:
		return wireDesc
	case ByPopulationAsc:
		return wireAsc
	default:
		return ""
	}
}

// String returns a label suitable for display.
func (o Ordering) String() string {
	switch o {
	case ByPopulationDesc:
		return "Players count order"
	case ByPopulationAsc:
		return "Reverse order"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// Toggle returns the opposite ordering.
func (o Ordering) Toggle() Ordering {
	if o == ByPopulationAsc {
		return ByPopulationDesc
	}
	return ByPopulationAsc
}

// ParseOrdering accepts the wire name either bare (Player) or JSON quoted ("Player").
func ParseOrdering(raw string) (Ordering, error) {
	value := strings.TrimSpace(raw)
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(value), &unquoted); err != nil {
			return 0, fmt.Errorf("invalid ordering %q: %w", raw, err)
		}
		value = unquoted
	}
	switch value {
	case wireDesc:
		return ByPopulationDesc, nil
	case wireAsc:
		return ByPopulationAsc, nil
	default:
		return 0, fmt.Errorf("invalid ordering %q", raw)
	}
}

// MarshalJSON encodes the ordering by its wire name.
func (o Ordering) MarshalJSON() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid ordering %d", int(o))
	}
	return json.Marshal(o.Wire())
}

// UnmarshalJSON decodes a wire name.
func (o *Ordering) UnmarshalJSON(data []byte) error {
	parsed, err := ParseOrdering(string(data))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// CloneEntries returns a copy of entries that is never nil.
func CloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
