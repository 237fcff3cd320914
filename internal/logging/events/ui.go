package events

import "github.com/atomicstack/bzmenu/internal/logging"

type MenuTracer struct{}

type ActionTracer struct{}

type PickerTracer struct{}

var (
	Menu   = MenuTracer{}
	Action = ActionTracer{}
	Picker = PickerTracer{}
)

func (MenuTracer) Screen(screen, device string) {
	logging.Trace("menu.screen", map[string]interface{}{"screen": screen, "device": device})
}

func (MenuTracer) Select(screen, key, label string) {
	logging.Trace("menu.select", map[string]interface{}{"screen": screen, "key": key, "label": label})
}

func (MenuTracer) Unmatched(screen, line string) {
	logging.Trace("menu.unmatched", map[string]interface{}{"screen": screen, "line": line})
}

func (MenuTracer) Refresh(screen string) {
	logging.Trace("menu.refresh", map[string]interface{}{"screen": screen})
}

func (MenuTracer) Cancelled(screen string) {
	logging.Trace("menu.cancelled", map[string]interface{}{"screen": screen})
}

func (ActionTracer) Error(action, device string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"action": action, "device": device, "error": err.Error()})
}

func (ActionTracer) Success(action, device string) {
	logging.Trace("action.success", map[string]interface{}{"action": action, "device": device})
}

func (PickerTracer) Filter(query string, matches int) {
	logging.Trace("picker.filter", map[string]interface{}{"query": query, "matches": matches})
}

func (PickerTracer) Cursor(cursor int) {
	logging.Trace("picker.cursor", map[string]interface{}{"cursor": cursor})
}
