package bluez

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/state"
)

var matchRules = []string{
	"type='signal',sender='" + busName + "',interface='" + propsIface + "',member='PropertiesChanged',path_namespace='" + rootPath + "'",
	"type='signal',sender='" + busName + "',interface='" + objMgrIface + "',member='InterfacesAdded'",
	"type='signal',sender='" + busName + "',interface='" + objMgrIface + "',member='InterfacesRemoved'",
	"type='signal',interface='org.freedesktop.DBus',member='NameOwnerChanged',arg0='" + busName + "'",
}

// Subscribe installs the match rules and forwards translated events until
// ctx is done, the connection drops or bluetoothd leaves the bus. The
// returned channel is closed in every case.
func (c *Client) Subscribe(ctx context.Context) (<-chan state.Event, error) {
	bus := c.conn.BusObject()
	for i, rule := range matchRules {
		if err := bus.CallWithContext(ctx, "org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
			for _, added := range matchRules[:i] {
				bus.Call("org.freedesktop.DBus.RemoveMatch", 0, added)
			}
			return nil, fmt.Errorf("add match rule: %w", classify(err))
		}
	}
	signals := make(chan *dbus.Signal, 64)
	c.conn.Signal(signals)

	out := make(chan state.Event, 64)
	go func() {
		defer close(out)
		defer func() {
			c.conn.RemoveSignal(signals)
			for _, rule := range matchRules {
				bus.Go("org.freedesktop.DBus.RemoveMatch", dbus.FlagNoReplyExpected, nil, rule)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				events.Bluez.Unsubscribed("context done")
				return
			case sig, ok := <-signals:
				if !ok {
					events.Bluez.Unsubscribed("connection closed")
					return
				}
				if ownerLost(sig) {
					events.Bluez.Unsubscribed("daemon left the bus")
					return
				}
				for _, evt := range translate(sig) {
					select {
					case out <- evt:
					case <-ctx.Done():
						events.Bluez.Unsubscribed("context done")
						return
					}
				}
			}
		}
	}()
	return out, nil
}

func ownerLost(sig *dbus.Signal) bool {
	if sig == nil || sig.Name != nameOwnerChanged || len(sig.Body) != 3 {
		return false
	}
	name, _ := sig.Body[0].(string)
	owner, _ := sig.Body[2].(string)
	return name == busName && owner == ""
}

// translate turns one bus signal into zero or more registry events.
// Malformed payloads are traced and yield nothing.
func translate(sig *dbus.Signal) []state.Event {
	if sig == nil {
		return nil
	}
	events.Bluez.Signal(sig.Name, string(sig.Path))
	switch sig.Name {
	case propsChanged:
		return translatePropsChanged(sig)
	case interfacesAdded:
		return translateAdded(sig)
	case interfacesRemoved:
		return translateRemoved(sig)
	}
	return nil
}

func translatePropsChanged(sig *dbus.Signal) []state.Event {
	if len(sig.Body) < 2 {
		events.Bluez.Malformed(sig.Name, string(sig.Path), "short body")
		return nil
	}
	iface, ok := sig.Body[0].(string)
	if !ok {
		events.Bluez.Malformed(sig.Name, string(sig.Path), "interface is not a string")
		return nil
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		events.Bluez.Malformed(sig.Name, string(sig.Path), "changed properties are not a dict")
		return nil
	}
	switch iface {
	case adapterIface:
		return []state.Event{{
			Kind:        state.AdapterChanged,
			AdapterPath: string(sig.Path),
			Adapter:     adapterUpdate(changed),
		}}
	case deviceIface, batteryIface:
		addr, adapter, ok := addressFromPath(sig.Path)
		if !ok {
			events.Bluez.Malformed(sig.Name, string(sig.Path), "not a device path")
			return nil
		}
		update := deviceUpdate(changed)
		if iface == batteryIface {
			update = batteryUpdate(changed)
		}
		if len(sig.Body) > 2 {
			if names, ok := sig.Body[2].([]string); ok {
				invalidate(&update, iface, names)
			}
		}
		if update.Empty() {
			return nil
		}
		return []state.Event{{
			Kind:        state.DeviceChanged,
			AdapterPath: adapter,
			DeviceID:    addr,
			Changes:     update,
		}}
	}
	return nil
}

func translateAdded(sig *dbus.Signal) []state.Event {
	if len(sig.Body) < 2 {
		events.Bluez.Malformed(sig.Name, string(sig.Path), "short body")
		return nil
	}
	path, ok := sig.Body[0].(dbus.ObjectPath)
	if !ok {
		events.Bluez.Malformed(sig.Name, string(sig.Path), "object path missing")
		return nil
	}
	ifaces, ok := sig.Body[1].(map[string]map[string]dbus.Variant)
	if !ok {
		events.Bluez.Malformed(sig.Name, string(path), "interfaces are not a dict")
		return nil
	}
	if _, ok := ifaces[deviceIface]; ok {
		device, ok := parseDevice(path, ifaces)
		if !ok {
			events.Bluez.Malformed(sig.Name, string(path), "device without address")
			return nil
		}
		return []state.Event{{Kind: state.DeviceAdded, AdapterPath: device.Adapter, Device: device}}
	}
	if props, ok := ifaces[batteryIface]; ok {
		addr, adapter, ok := addressFromPath(path)
		update := batteryUpdate(props)
		if !ok || update.Empty() {
			return nil
		}
		return []state.Event{{Kind: state.DeviceChanged, AdapterPath: adapter, DeviceID: addr, Changes: update}}
	}
	return nil
}

func translateRemoved(sig *dbus.Signal) []state.Event {
	if len(sig.Body) < 2 {
		events.Bluez.Malformed(sig.Name, string(sig.Path), "short body")
		return nil
	}
	path, ok := sig.Body[0].(dbus.ObjectPath)
	if !ok {
		events.Bluez.Malformed(sig.Name, string(sig.Path), "object path missing")
		return nil
	}
	ifaces, ok := sig.Body[1].([]string)
	if !ok {
		events.Bluez.Malformed(sig.Name, string(path), "interfaces are not a list")
		return nil
	}
	var batteryGone bool
	for _, iface := range ifaces {
		switch iface {
		case deviceIface:
			addr, adapter, ok := addressFromPath(path)
			if !ok {
				events.Bluez.Malformed(sig.Name, string(path), "not a device path")
				return nil
			}
			return []state.Event{{Kind: state.DeviceRemoved, AdapterPath: adapter, DeviceID: addr}}
		case batteryIface:
			batteryGone = true
		}
	}
	if !batteryGone {
		return nil
	}
	addr, adapter, ok := addressFromPath(path)
	if !ok {
		return nil
	}
	return []state.Event{{
		Kind:        state.DeviceChanged,
		AdapterPath: adapter,
		DeviceID:    addr,
		Changes:     state.DeviceUpdate{ClearBattery: true},
	}}
}
