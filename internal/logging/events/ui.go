package events

import "github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Cursor(ordering string, page, cursor int) {
	logging.Trace("menu.cursor", map[string]interface{}{"ordering": ordering, "page": page, "cursor": cursor})
}

func (UITracer) Page(ordering string, page, pages int) {
	logging.Trace("menu.page", map[string]interface{}{"ordering": ordering, "page": page, "pages": pages})
}

func (UITracer) Toggle(from, to string) {
	logging.Trace("menu.toggle", map[string]interface{}{"from": from, "to": to})
}

func (UITracer) Select(ordering, title, addr, filter string) {
	logging.Trace("menu.select", map[string]interface{}{
		"ordering": ordering,
		"title":    title,
		"addr":     addr,
		"filter":   filter,
	})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

// Edit records a search query change. op is one of append, backspace,
// word-backspace or clear.
func (FilterTracer) Edit(op, ordering, filter string) {
	logging.Trace("filter."+op, map[string]interface{}{"ordering": ordering, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
