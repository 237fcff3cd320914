package events

import "github.com/atomicstack/bzmenu/internal/logging"

type ControllerTracer struct{}

type LauncherTracer struct{}

type NotifyTracer struct{}

var (
	Controller = ControllerTracer{}
	Launcher   = LauncherTracer{}
	Notify     = NotifyTracer{}
)

func (ControllerTracer) Command(op, device string) {
	logging.Trace("controller.command", map[string]interface{}{"op": op, "device": device})
}

func (ControllerTracer) Busy(op, device, inflight string) {
	logging.Trace("controller.busy", map[string]interface{}{"op": op, "device": device, "inflight": inflight})
}

func (ControllerTracer) Result(op, device string, err error) {
	payload := map[string]interface{}{"op": op, "device": device}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("controller.result", payload)
}

func (ControllerTracer) ScanTimer(duration string, expired bool) {
	logging.Trace("controller.scan-timer", map[string]interface{}{"duration": duration, "expired": expired})
}

func (LauncherTracer) Spawn(argv []string, entries int) {
	logging.Trace("launcher.spawn", map[string]interface{}{"argv": argv, "entries": entries})
}

func (LauncherTracer) Selection(line string) {
	logging.Trace("launcher.selection", map[string]interface{}{"line": line})
}

func (LauncherTracer) Cancelled(reason string) {
	logging.Trace("launcher.cancelled", map[string]interface{}{"reason": reason})
}

func (NotifyTracer) Sent(summary, body string) {
	logging.Trace("notify.sent", map[string]interface{}{"summary": summary, "body": body})
}

func (NotifyTracer) Failed(err error) {
	if err == nil {
		return
	}
	logging.Trace("notify.failed", map[string]interface{}{"error": err.Error()})
}
