package state

// Adapter is the daemon's view of a local Bluetooth radio.
type Adapter struct {
	Path         string
	Address      string
	Name         string
	Alias        string
	Powered      bool
	Discoverable bool
	Pairable     bool
	Discovering  bool
}

// DisplayName returns the alias when set, otherwise the system name.
func (a Adapter) DisplayName() string {
	if a.Alias != "" {
		return a.Alias
	}
	if a.Name != "" {
		return a.Name
	}
	return a.Address
}

// Device is a remote peer known to the active adapter. ID is the Bluetooth
// address.
type Device struct {
	ID         string
	Path       string
	Adapter    string
	Name       string
	Alias      string
	Icon       string
	Class      uint32
	Appearance uint16
	Paired     bool
	Trusted    bool
	Connected  bool
	Blocked    bool
	RSSI       *int16
	Battery    *uint8
}

// DisplayName falls back to the address when the daemon supplied no name.
func (d Device) DisplayName() string {
	if d.Alias != "" {
		return d.Alias
	}
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// AdapterUpdate carries the adapter properties present in a change event.
// Nil fields were not part of the event.
type AdapterUpdate struct {
	Address      *string
	Name         *string
	Alias        *string
	Powered      *bool
	Discoverable *bool
	Pairable     *bool
	Discovering  *bool
}

// DeviceUpdate carries the device properties present in a change event.
type DeviceUpdate struct {
	Name       *string
	Alias      *string
	Icon       *string
	Class      *uint32
	Appearance *uint16
	Paired     *bool
	Trusted    *bool
	Connected  *bool
	Blocked    *bool
	RSSI       *int16
	Battery    *uint8
	// ClearRSSI and ClearBattery drop values the daemon no longer reports.
	ClearRSSI    bool
	ClearBattery bool
}

// EventKind enumerates daemon event types.
type EventKind int

const (
	AdapterChanged EventKind = iota
	DeviceAdded
	DeviceChanged
	DeviceRemoved
)

func (k EventKind) String() string {
	switch k {
	case AdapterChanged:
		return "adapter-changed"
	case DeviceAdded:
		return "device-added"
	case DeviceChanged:
		return "device-changed"
	case DeviceRemoved:
		return "device-removed"
	}
	return "unknown"
}

// Event is a single daemon notification. Which payload field is meaningful
// depends on Kind: AdapterChanged uses AdapterPath+Adapter, DeviceAdded uses
// Device, DeviceChanged uses DeviceID+Changes, DeviceRemoved uses DeviceID.
type Event struct {
	Kind        EventKind
	AdapterPath string
	Adapter     AdapterUpdate
	Device      Device
	DeviceID    string
	Changes     DeviceUpdate
}

// Apply merges the non-nil fields of u into a.
func (u AdapterUpdate) Apply(a *Adapter) {
	if u.Address != nil {
		a.Address = *u.Address
	}
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Alias != nil {
		a.Alias = *u.Alias
	}
	if u.Powered != nil {
		a.Powered = *u.Powered
	}
	if u.Discoverable != nil {
		a.Discoverable = *u.Discoverable
	}
	if u.Pairable != nil {
		a.Pairable = *u.Pairable
	}
	if u.Discovering != nil {
		a.Discovering = *u.Discovering
	}
}

// Empty reports whether the update carries no properties.
func (u DeviceUpdate) Empty() bool {
	return u == DeviceUpdate{}
}

// Apply merges the non-nil fields of u into d.
func (u DeviceUpdate) Apply(d *Device) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Alias != nil {
		d.Alias = *u.Alias
	}
	if u.Icon != nil {
		d.Icon = *u.Icon
	}
	if u.Class != nil {
		d.Class = *u.Class
	}
	if u.Appearance != nil {
		d.Appearance = *u.Appearance
	}
	if u.Paired != nil {
		d.Paired = *u.Paired
	}
	if u.Trusted != nil {
		d.Trusted = *u.Trusted
	}
	if u.Connected != nil {
		d.Connected = *u.Connected
	}
	if u.Blocked != nil {
		d.Blocked = *u.Blocked
	}
	if u.RSSI != nil {
		v := *u.RSSI
		d.RSSI = &v
	} else if u.ClearRSSI {
		d.RSSI = nil
	}
	if u.Battery != nil {
		v := *u.Battery
		d.Battery = &v
	} else if u.ClearBattery {
		d.Battery = nil
	}
}
