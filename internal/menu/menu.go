package menu

import (
	"fmt"
	"net"
	"strconv"
)

const (
	// FallbackIcon replaces any icon that is not in the known set.
	FallbackIcon = "grass_block"

	// MinAmount and MaxAmount bound the stack size shown for an entry.
	MinAmount = 1
	MaxAmount = 127

	// PageSize is the number of entry slots on one page: six rows of
	// seven content columns.
	PageSize = 42

	titlePrefix = "外部サーバーリスト"
)

// Transfer is the click action bound to an entry.
type Transfer struct {
	IP   string
	Port uint16
}

// Addr returns the host:port form of the transfer target.
func (t Transfer) Addr() string {
	return net.JoinHostPort(t.IP, strconv.Itoa(int(t.Port)))
}

// Descriptor is one render-ready menu slot.
type Descriptor struct {
	Icon string
	// IconFallback is set when the entry named no icon or an unknown one.
	IconFallback bool
	Title        string
	Lore         []string
	Amount       int
	Online       bool
	Action       Transfer
}

// ActionResult communicates the outcome of running a descriptor's action.
type ActionResult struct {
	Info string
	Err  error
}

// Title renders the menu heading for a page.
func Title(page, pages int) string {
	return fmt.Sprintf("%s %s", titlePrefix, PageIndicator(page, pages))
}

// PageIndicator renders "[page/pages]".
func PageIndicator(page, pages int) string {
	return fmt.Sprintf("[%d/%d]", page, pages)
}
