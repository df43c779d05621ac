package events

import "github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging"

type ViewTracer struct{}

type TransferTracer struct{}

var (
	View     = ViewTracer{}
	Transfer = TransferTracer{}
)

func (ViewTracer) Rebuild(ordering string, generation uint64, entries, pages int) {
	logging.Trace("view.rebuild", map[string]interface{}{
		"ordering":   ordering,
		"generation": generation,
		"entries":    entries,
		"pages":      pages,
	})
}

func (ViewTracer) Open(ordering string, generation uint64) {
	logging.Trace("view.open", map[string]interface{}{"ordering": ordering, "generation": generation})
}

func (TransferTracer) Launch(kind, addr string) {
	logging.Trace("transfer.launch", map[string]interface{}{"kind": kind, "addr": addr})
}

func (TransferTracer) Result(addr string, err error) {
	payload := map[string]interface{}{"addr": addr}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("transfer.result", payload)
}
