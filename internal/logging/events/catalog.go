package events

import "github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging"

type CatalogTracer struct{}

var Catalog = CatalogTracer{}

func (CatalogTracer) RefreshStart(generation uint64) {
	logging.Trace("catalog.refresh.start", map[string]interface{}{"generation": generation})
}

func (CatalogTracer) FetchOK(ordering string, count int) {
	logging.Trace("catalog.fetch.ok", map[string]interface{}{"ordering": ordering, "count": count})
}

func (CatalogTracer) FetchFailed(ordering string, err error) {
	payload := map[string]interface{}{"ordering": ordering}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("catalog.fetch.failed", payload)
}

func (CatalogTracer) RefreshDone(generation uint64, failures int) {
	logging.Trace("catalog.refresh.done", map[string]interface{}{"generation": generation, "failures": failures})
}

func (CatalogTracer) Manual(accepted bool) {
	logging.Trace("catalog.refresh.manual", map[string]interface{}{"accepted": accepted})
}

func (CatalogTracer) SubscriberFailed(index int, err error) {
	payload := map[string]interface{}{"index": index}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("catalog.subscriber.failed", payload)
}
