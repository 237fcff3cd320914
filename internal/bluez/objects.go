package bluez

import (
	"sort"

	"github.com/godbus/dbus/v5"

	"github.com/atomicstack/bzmenu/internal/state"
)

func parseAdapters(objects managedObjects) []state.Adapter {
	var adapters []state.Adapter
	for path, ifaces := range objects {
		props, ok := ifaces[adapterIface]
		if !ok {
			continue
		}
		adapter := state.Adapter{Path: string(path)}
		adapterUpdate(props).Apply(&adapter)
		adapters = append(adapters, adapter)
	}
	sort.Slice(adapters, func(i, j int) bool { return adapters[i].Path < adapters[j].Path })
	return adapters
}

func parseDevices(objects managedObjects, adapter string) []state.Device {
	var devices []state.Device
	for path, ifaces := range objects {
		if _, ok := ifaces[deviceIface]; !ok {
			continue
		}
		device, ok := parseDevice(path, ifaces)
		if !ok || device.Adapter != adapter {
			continue
		}
		devices = append(devices, device)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices
}

// parseDevice builds a device from its interface map. The address property
// wins over the one encoded in the path.
func parseDevice(path dbus.ObjectPath, ifaces map[string]map[string]dbus.Variant) (state.Device, bool) {
	props := ifaces[deviceIface]
	addr, adapter, _ := addressFromPath(path)
	if v, ok := stringProp(props, "Address"); ok && v != "" {
		addr = v
	}
	if v, ok := props["Adapter"]; ok {
		if p, ok := v.Value().(dbus.ObjectPath); ok {
			adapter = string(p)
		}
	}
	if addr == "" {
		return state.Device{}, false
	}
	device := state.Device{ID: addr, Path: string(path), Adapter: adapter}
	update := deviceUpdate(props)
	if battery, ok := ifaces[batteryIface]; ok {
		update.Battery = batteryUpdate(battery).Battery
	}
	update.Apply(&device)
	return device, true
}

func adapterUpdate(props map[string]dbus.Variant) state.AdapterUpdate {
	var u state.AdapterUpdate
	if v, ok := stringProp(props, "Address"); ok {
		u.Address = &v
	}
	if v, ok := stringProp(props, "Name"); ok {
		u.Name = &v
	}
	if v, ok := stringProp(props, "Alias"); ok {
		u.Alias = &v
	}
	u.Powered = boolProp(props, "Powered")
	u.Discoverable = boolProp(props, "Discoverable")
	u.Pairable = boolProp(props, "Pairable")
	u.Discovering = boolProp(props, "Discovering")
	return u
}

func deviceUpdate(props map[string]dbus.Variant) state.DeviceUpdate {
	var u state.DeviceUpdate
	if v, ok := stringProp(props, "Name"); ok {
		u.Name = &v
	}
	if v, ok := stringProp(props, "Alias"); ok {
		u.Alias = &v
	}
	if v, ok := stringProp(props, "Icon"); ok {
		u.Icon = &v
	}
	if v, ok := props["Class"]; ok {
		if c, ok := v.Value().(uint32); ok {
			u.Class = &c
		}
	}
	if v, ok := props["Appearance"]; ok {
		if a, ok := v.Value().(uint16); ok {
			u.Appearance = &a
		}
	}
	if v, ok := props["RSSI"]; ok {
		if r, ok := v.Value().(int16); ok {
			u.RSSI = &r
		}
	}
	u.Paired = boolProp(props, "Paired")
	u.Trusted = boolProp(props, "Trusted")
	u.Connected = boolProp(props, "Connected")
	u.Blocked = boolProp(props, "Blocked")
	return u
}

func batteryUpdate(props map[string]dbus.Variant) state.DeviceUpdate {
	var u state.DeviceUpdate
	if v, ok := props["Percentage"]; ok {
		if p, ok := v.Value().(uint8); ok {
			u.Battery = &p
		}
	}
	return u
}

// invalidate marks properties the daemon dropped without sending a value.
func invalidate(u *state.DeviceUpdate, iface string, names []string) {
	empty := ""
	for _, name := range names {
		switch {
		case iface == batteryIface && name == "Percentage":
			u.ClearBattery = true
		case iface != deviceIface:
		case name == "RSSI":
			u.ClearRSSI = true
		case name == "Name":
			u.Name = &empty
		case name == "Alias":
			u.Alias = &empty
		case name == "Icon":
			u.Icon = &empty
		}
	}
}

func stringProp(props map[string]dbus.Variant, name string) (string, bool) {
	v, ok := props[name]
	if !ok {
		return "", false
	}
	s, ok := v.Value().(string)
	return s, ok
}

func boolProp(props map[string]dbus.Variant, name string) *bool {
	v, ok := props[name]
	if !ok {
		return nil
	}
	b, ok := v.Value().(bool)
	if !ok {
		return nil
	}
	return &b
}
