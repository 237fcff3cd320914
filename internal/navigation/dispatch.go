package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/menu"
	"github.com/atomicstack/bzmenu/internal/state"
)

const notifySummary = "Bluetooth"

func (m *Machine) dispatch(ctx context.Context, entry menu.Entry) error {
	screen := m.screen
	screen.Notice = ""

	switch entry.Action {
	case menu.ActionDismiss:
		m.screen = screen
	case menu.ActionExit:
		m.transition(ctx, menu.Screen{Kind: menu.Exit})
	case menu.ActionPowerOn, menu.ActionPowerOff:
		on := entry.Action == menu.ActionPowerOn
		return m.run(ctx, screen, controller.OpPower, "",
			func(ctx context.Context) error { return m.cmd.SetPower(ctx, on) },
			func(s state.Snapshot) bool { return s.Adapter.Powered == on },
			powerMessage(on))
	case menu.ActionScan:
		if err := m.startScan(ctx, screen); err != nil || m.screen.Notice != "" {
			return err
		}
		m.screen = menu.Screen{Kind: menu.DeviceList}
	case menu.ActionDevices:
		m.screen = menu.Screen{Kind: menu.DeviceList}
	case menu.ActionStartScan:
		return m.startScan(ctx, screen)
	case menu.ActionStopScan:
		m.scanOwned = false
		return m.run(ctx, screen, controller.OpScanStop, "",
			m.cmd.StopDiscovery,
			func(s state.Snapshot) bool { return !s.Adapter.Discovering },
			"Scan stopped")
	case menu.ActionBack:
		m.transition(ctx, back(screen))
	case menu.ActionSelectDevice:
		m.transition(ctx, menu.Screen{Kind: menu.DeviceActions, DeviceID: entry.DeviceID})
	case menu.ActionPair:
		return m.deviceAction(ctx, screen, controller.OpPair, entry.DeviceID,
			func(ctx context.Context) error { return m.cmd.Pair(ctx, entry.DeviceID) },
			func(d state.Device) bool { return d.Paired },
			"Paired with %s")
	case menu.ActionConnect:
		return m.deviceAction(ctx, screen, controller.OpConnect, entry.DeviceID,
			func(ctx context.Context) error { return m.cmd.Connect(ctx, entry.DeviceID) },
			func(d state.Device) bool { return d.Connected },
			"Connected to %s")
	case menu.ActionDisconnect:
		return m.deviceAction(ctx, screen, controller.OpDisconnect, entry.DeviceID,
			func(ctx context.Context) error { return m.cmd.Disconnect(ctx, entry.DeviceID) },
			func(d state.Device) bool { return !d.Connected },
			"Disconnected from %s")
	case menu.ActionTrust:
		return m.deviceAction(ctx, screen, controller.OpTrust, entry.DeviceID,
			func(ctx context.Context) error { return m.cmd.SetTrusted(ctx, entry.DeviceID, true) },
			func(d state.Device) bool { return d.Trusted },
			"Trusted %s")
	case menu.ActionUntrust:
		return m.deviceAction(ctx, screen, controller.OpUntrust, entry.DeviceID,
			func(ctx context.Context) error { return m.cmd.SetTrusted(ctx, entry.DeviceID, false) },
			func(d state.Device) bool { return !d.Trusted },
			"Revoked trust for %s")
	case menu.ActionRemove:
		m.screen = menu.Screen{Kind: menu.Confirm, DeviceID: entry.DeviceID, Pending: menu.ActionRemove}
	case menu.ActionConfirm:
		return m.confirm(ctx, screen)
	case menu.ActionCancel:
		m.screen = menu.Screen{Kind: menu.DeviceActions, DeviceID: screen.DeviceID}
	}
	return nil
}

// back is the parent of a screen.
func back(screen menu.Screen) menu.Screen {
	switch screen.Kind {
	case menu.DeviceActions:
		return menu.Screen{Kind: menu.DeviceList}
	case menu.Confirm:
		return menu.Screen{Kind: menu.DeviceActions, DeviceID: screen.DeviceID}
	}
	return menu.Screen{Kind: menu.Main}
}

func (m *Machine) startScan(ctx context.Context, screen menu.Screen) error {
	err := m.run(ctx, screen, controller.OpScanStart, "",
		m.cmd.StartDiscovery,
		func(s state.Snapshot) bool { return s.Adapter.Discovering },
		"Scanning for devices")
	if err == nil && m.screen.Notice == "" {
		m.scanOwned = true
	}
	return err
}

func (m *Machine) confirm(ctx context.Context, screen menu.Screen) error {
	if screen.Pending != menu.ActionRemove {
		m.screen = menu.Screen{Kind: menu.DeviceActions, DeviceID: screen.DeviceID}
		return nil
	}
	id := screen.DeviceID
	name := m.deviceName(id)
	actions := menu.Screen{Kind: menu.DeviceActions, DeviceID: id}
	err := m.run(ctx, actions, controller.OpRemove, id,
		func(ctx context.Context) error { return m.cmd.Remove(ctx, id) },
		func(s state.Snapshot) bool { _, ok := s.Device(id); return !ok },
		fmt.Sprintf("Forgot %s", name))
	if err == nil && m.screen.Notice == "" {
		m.screen = menu.Screen{Kind: menu.DeviceList}
	}
	return err
}

func (m *Machine) deviceAction(ctx context.Context, screen menu.Screen, op, id string, fn func(context.Context) error, done func(state.Device) bool, format string) error {
	name := m.deviceName(id)
	return m.run(ctx, screen, op, id, fn,
		func(s state.Snapshot) bool {
			d, ok := s.Device(id)
			return !ok || done(d)
		},
		fmt.Sprintf(format, name))
}

// run issues a command and settles the screen. Success awaits the
// confirming event and notifies; a recoverable failure becomes the screen's
// notice; a fatal one is returned.
func (m *Machine) run(ctx context.Context, screen menu.Screen, op, device string, fn func(context.Context) error, settled func(state.Snapshot) bool, success string) error {
	m.screen = screen
	err := fn(ctx)
	if err == nil {
		events.Action.Success(op, device)
		m.await(ctx, settled)
		m.notifier.Notify(notifySummary, success)
		return nil
	}
	events.Action.Error(op, device, err)
	if controller.Fatal(err) {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	notice := failureNotice(op, m.deviceName(device), err)
	m.screen.Notice = notice
	m.notifier.Notify(notifySummary, notice)
	return nil
}

func (m *Machine) deviceName(id string) string {
	if id == "" {
		return ""
	}
	if d, ok := m.cmd.Snapshot().Device(id); ok {
		return d.DisplayName()
	}
	return id
}

func powerMessage(on bool) string {
	if on {
		return "Adapter powered on"
	}
	return "Adapter powered off"
}

var opTitles = map[string]string{
	controller.OpPower:      "Power change",
	controller.OpScanStart:  "Scan",
	controller.OpScanStop:   "Stopping scan",
	controller.OpPair:       "Pairing",
	controller.OpConnect:    "Connecting",
	controller.OpDisconnect: "Disconnecting",
	controller.OpTrust:      "Trusting",
	controller.OpUntrust:    "Revoking trust",
	controller.OpRemove:     "Forgetting",
}

// failureNotice is the one-line message shown for a recoverable failure.
func failureNotice(op, name string, err error) string {
	title := opTitles[op]
	if title == "" {
		title = op
	}
	if name != "" {
		title += " " + name
	}
	return fmt.Sprintf("%s failed: %s", title, reason(err))
}

func reason(err error) string {
	switch {
	case errors.Is(err, controller.ErrOperationInProgress):
		return "another request is in progress"
	case errors.Is(err, controller.ErrAuthorizationRequired):
		return "authorization required"
	case errors.Is(err, controller.ErrOperationRejected):
		return "rejected"
	}
	return err.Error()
}
