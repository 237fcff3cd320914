package menu

import (
	"fmt"
	"strings"

	"github.com/atomicstack/bzmenu/internal/format/table"
	"github.com/atomicstack/bzmenu/internal/state"
)

// Options controls how entries are encoded.
type Options struct {
	Icons   IconMode
	Spacing int
}

// Entry labels.
const (
	LabelPowerOn    = "Power On"
	LabelPowerOff   = "Power Off"
	LabelScan       = "Scan for Devices"
	LabelDevices    = "Devices"
	LabelExit       = "Exit"
	LabelBack       = "Back"
	LabelStartScan  = "Start Scan"
	LabelStopScan   = "Stop Scan"
	LabelPair       = "Pair"
	LabelConnect    = "Connect"
	LabelDisconnect = "Disconnect"
	LabelTrust      = "Trust"
	LabelUntrust    = "Revoke Trust"
	LabelRemove     = "Forget"
	LabelConfirm    = "Confirm"
	LabelCancel     = "Cancel"
)

// Render projects a screen and a registry snapshot into ordered entries. It
// has no side effects.
func Render(screen Screen, snap state.Snapshot, opts Options) []Entry {
	b := builder{opts: opts}
	if screen.Notice != "" && screen.Kind != Exit {
		b.add("notice", screen.Notice, "error", ActionDismiss, "")
	}
	switch screen.Kind {
	case Main:
		renderMain(&b, snap)
	case DeviceList:
		renderDeviceList(&b, snap)
	case DeviceActions:
		renderDeviceActions(&b, snap, screen.DeviceID)
	case Confirm:
		b.add("confirm", LabelConfirm, "ok", ActionConfirm, screen.DeviceID)
		b.add("cancel", LabelCancel, "cancel", ActionCancel, screen.DeviceID)
	case Exit:
		return nil
	}
	return b.entries
}

func renderMain(b *builder, snap state.Snapshot) {
	if !snap.Adapter.Powered {
		b.add("power:on", LabelPowerOn, "power_on", ActionPowerOn, "")
		b.add("exit", LabelExit, "exit", ActionExit, "")
		return
	}
	b.add("power:off", LabelPowerOff, "power_off", ActionPowerOff, "")
	b.add("scan", LabelScan, "scan", ActionScan, "")
	b.add("devices", LabelDevices, "bluetooth", ActionDevices, "")
	b.add("exit", LabelExit, "exit", ActionExit, "")
}

func renderDeviceList(b *builder, snap state.Snapshot) {
	if snap.Adapter.Powered {
		if snap.Adapter.Discovering {
			b.add("scan:stop", LabelStopScan, "scan_stop", ActionStopScan, "")
		} else {
			b.add("scan:start", LabelStartScan, "scan", ActionStartScan, "")
		}
	}
	rows := make([][]string, len(snap.Devices))
	for i, d := range snap.Devices {
		rows[i] = deviceColumns(d, b.opts.Icons)
	}
	labels := table.Format(rows, deviceAlignments)
	// Device names share the selection namespace with the fixed entries.
	reserved := map[string]bool{LabelBack: true}
	for _, e := range b.entries {
		reserved[e.Label] = true
	}
	seen := make(map[string]int, len(labels))
	for _, label := range labels {
		seen[label]++
	}
	for i, d := range snap.Devices {
		label := labels[i]
		if seen[label] > 1 || reserved[label] {
			label = fmt.Sprintf("%s (%s)", label, d.ID)
		}
		b.add("device:"+d.ID, label, iconKeyForType(DeviceType(d)), ActionSelectDevice, d.ID)
	}
	b.add("back", LabelBack, "back", ActionBack, "")
}

// DeviceActionSet derives the available actions from the device flags.
func DeviceActionSet(d state.Device) []Action {
	actions := make([]Action, 0, 4)
	if !d.Paired {
		actions = append(actions, ActionPair)
	}
	if d.Connected {
		actions = append(actions, ActionDisconnect)
	} else {
		actions = append(actions, ActionConnect)
	}
	if d.Trusted {
		actions = append(actions, ActionUntrust)
	} else {
		actions = append(actions, ActionTrust)
	}
	return append(actions, ActionRemove)
}

var deviceActionEntries = map[Action]struct{ key, label, icon string }{
	ActionPair:       {"pair", LabelPair, "pair"},
	ActionConnect:    {"connect", LabelConnect, "connect"},
	ActionDisconnect: {"disconnect", LabelDisconnect, "disconnect"},
	ActionTrust:      {"trust", LabelTrust, "trust"},
	ActionUntrust:    {"untrust", LabelUntrust, "revoke_trust"},
	ActionRemove:     {"remove", LabelRemove, "forget"},
}

func renderDeviceActions(b *builder, snap state.Snapshot, id string) {
	if d, ok := snap.Device(id); ok {
		for _, action := range DeviceActionSet(d) {
			spec := deviceActionEntries[action]
			b.add(spec.key, spec.label, spec.icon, action, id)
		}
	}
	b.add("back", LabelBack, "back", ActionBack, "")
}

var deviceAlignments = []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignLeft}

// deviceColumns splits a device line into name, battery and the connected
// and trusted marks.
func deviceColumns(d state.Device, mode IconMode) []string {
	battery := ""
	if d.Battery != nil {
		if mode == IconFont {
			if glyph := batteryIcon(*d.Battery); glyph != "" {
				battery = "[" + glyph + "]"
			}
		} else {
			battery = fmt.Sprintf("[%d%%]", *d.Battery)
		}
	}
	var marks []string
	if d.Connected {
		marks = append(marks, string(connectedMark))
	}
	if d.Trusted {
		marks = append(marks, string(trustedMark))
	}
	return []string{d.DisplayName(), battery, strings.Join(marks, " ")}
}

// Prompt is the semantic prompt text for a screen, without separator.
func Prompt(screen Screen, snap state.Snapshot) string {
	switch screen.Kind {
	case DeviceList:
		if snap.Adapter.Discovering {
			return "Scanning"
		}
		return "Devices"
	case DeviceActions:
		return deviceName(snap, screen.DeviceID)
	case Confirm:
		return fmt.Sprintf("%s %s?", LabelRemove, deviceName(snap, screen.DeviceID))
	}
	return "Bluetooth"
}

func deviceName(snap state.Snapshot, id string) string {
	if d, ok := snap.Device(id); ok {
		return d.DisplayName()
	}
	return id
}

type builder struct {
	opts    Options
	entries []Entry
}

func (b *builder) add(key, label, icon string, action Action, device string) {
	text, line := formatLine(label, icon, b.opts.Icons, b.opts.Spacing)
	b.entries = append(b.entries, Entry{
		Key:      key,
		Label:    label,
		Icon:     icon,
		Action:   action,
		DeviceID: device,
		Text:     text,
		Line:     line,
	})
}

// Lines returns the launcher input lines for entries.
func Lines(entries []Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}
	return lines
}

// Resolve maps a raw launcher selection back onto an entry by exact text.
// Any icon payload after a NUL and surrounding whitespace are ignored, and a
// bare label is accepted for launchers that strip glyphs.
func Resolve(entries []Entry, line string) (Entry, bool) {
	if idx := strings.IndexByte(line, 0); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}
	for _, e := range entries {
		if e.Text == line {
			return e, true
		}
	}
	for _, e := range entries {
		if e.Label == line {
			return e, true
		}
	}
	return Entry{}, false
}
