package dispatcher

import (
	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/state"
)

// Result reports how the registry moved after one event.
type Result struct {
	Applied    bool
	Structural bool
	Adapter    bool
}

// Dispatcher routes daemon events for the active adapter into the registry.
type Dispatcher struct {
	registry *state.Registry
	adapter  string
}

func New(registry *state.Registry, adapterPath string) *Dispatcher {
	return &Dispatcher{registry: registry, adapter: adapterPath}
}

// Handle applies evt unless it belongs to another adapter.
func (d *Dispatcher) Handle(evt state.Event) Result {
	var res Result
	if evt.AdapterPath != "" && evt.AdapterPath != d.adapter {
		events.Registry.Dropped(evt.Kind.String(), evt.AdapterPath, "inactive adapter")
		return res
	}
	change := d.registry.Apply(evt)
	if !change.Any() {
		return res
	}
	res.Applied = true
	res.Structural = change.Structural()
	res.Adapter = change.Adapter
	id := evt.DeviceID
	if evt.Kind == state.DeviceAdded {
		id = evt.Device.ID
	}
	events.Registry.Applied(evt.Kind.String(), id, res.Structural)
	return res
}
