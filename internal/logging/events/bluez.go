package events

import "github.com/atomicstack/bzmenu/internal/logging"

type BluezTracer struct{}

type RegistryTracer struct{}

type AgentTracer struct{}

var (
	Bluez    = BluezTracer{}
	Registry = RegistryTracer{}
	Agent    = AgentTracer{}
)

func (BluezTracer) Connected(adapters int) {
	logging.Trace("bluez.connected", map[string]interface{}{"adapters": adapters})
}

func (BluezTracer) Call(method, path string) {
	logging.Trace("bluez.call", map[string]interface{}{"method": method, "path": path})
}

func (BluezTracer) Signal(name, path string) {
	logging.Trace("bluez.signal", map[string]interface{}{"name": name, "path": path})
}

func (BluezTracer) Malformed(name, path, reason string) {
	logging.Trace("bluez.signal.malformed", map[string]interface{}{"name": name, "path": path, "reason": reason})
}

func (BluezTracer) Unsubscribed(reason string) {
	logging.Trace("bluez.unsubscribed", map[string]interface{}{"reason": reason})
}

func (RegistryTracer) Reset(adapter string, devices int) {
	logging.Trace("registry.reset", map[string]interface{}{"adapter": adapter, "devices": devices})
}

func (RegistryTracer) Applied(kind, id string, structural bool) {
	logging.Trace("registry.apply", map[string]interface{}{"kind": kind, "id": id, "structural": structural})
}

func (RegistryTracer) Dropped(kind, id, reason string) {
	logging.Trace("registry.drop", map[string]interface{}{"kind": kind, "id": id, "reason": reason})
}

func (AgentTracer) Registered(path, capability string) {
	logging.Trace("agent.registered", map[string]interface{}{"path": path, "capability": capability})
}

func (AgentTracer) Request(method, device string) {
	logging.Trace("agent.request", map[string]interface{}{"method": method, "device": device})
}

func (AgentTracer) Reply(method, device string, accepted bool) {
	logging.Trace("agent.reply", map[string]interface{}{"method": method, "device": device, "accepted": accepted})
}
