package state

import (
	"sync"
	"sync/atomic"

	"github.com/atomicstack/bzmenu/internal/logging/events"
)

// Snapshot is an immutable view of the registry. Devices are in first-seen
// order.
type Snapshot struct {
	Adapter    Adapter
	HasAdapter bool
	Devices    []Device
	Version    uint64
}

// Device looks up a device by identifier.
func (s Snapshot) Device(id string) (Device, bool) {
	for _, d := range s.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// Change summarises what a single Apply did.
type Change struct {
	Adapter bool
	Added   bool
	Removed bool
	Updated bool
	Renamed bool
}

// Structural reports whether the set or naming of devices changed.
func (c Change) Structural() bool {
	return c.Added || c.Removed || c.Renamed
}

// Any reports whether anything changed.
func (c Change) Any() bool {
	return c.Adapter || c.Added || c.Removed || c.Updated || c.Renamed
}

type generation struct {
	snap    Snapshot
	changed chan struct{}
}

// Registry is the authoritative in-memory model of the active adapter and
// its devices. Apply is the single writer; Snapshot never blocks.
type Registry struct {
	mu    sync.Mutex
	cur   atomic.Pointer[generation]
	index map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{index: make(map[string]int)}
	r.cur.Store(&generation{changed: make(chan struct{})})
	return r
}

// Snapshot returns the current state. With a filter, only matching devices
// are included.
func (r *Registry) Snapshot(filter ...func(Device) bool) Snapshot {
	snap := r.cur.Load().snap
	if len(filter) == 0 {
		return snap
	}
	devices := make([]Device, 0, len(snap.Devices))
	for _, d := range snap.Devices {
		keep := true
		for _, f := range filter {
			if f != nil && !f(d) {
				keep = false
				break
			}
		}
		if keep {
			devices = append(devices, d)
		}
	}
	snap.Devices = devices
	return snap
}

// Changed returns a channel closed on the next applied change.
func (r *Registry) Changed() <-chan struct{} {
	return r.cur.Load().changed
}

// Reset replaces the registry contents with an initial enumeration.
func (r *Registry) Reset(adapter Adapter, devices []Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.cur.Load()
	next := Snapshot{
		Adapter:    adapter,
		HasAdapter: true,
		Devices:    make([]Device, 0, len(devices)),
		Version:    old.snap.Version + 1,
	}
	r.index = make(map[string]int, len(devices))
	for _, d := range devices {
		if d.ID == "" {
			continue
		}
		if idx, ok := r.index[d.ID]; ok {
			next.Devices[idx] = d
			continue
		}
		r.index[d.ID] = len(next.Devices)
		next.Devices = append(next.Devices, d)
	}
	r.publish(old, next)
}

// Apply folds one daemon event into the registry. Malformed events are
// traced and dropped.
func (r *Registry) Apply(evt Event) Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.cur.Load()
	next := old.snap
	var change Change

	switch evt.Kind {
	case AdapterChanged:
		if !next.HasAdapter || (evt.AdapterPath != "" && evt.AdapterPath != next.Adapter.Path) {
			events.Registry.Dropped(evt.Kind.String(), evt.AdapterPath, "unknown adapter")
			return change
		}
		evt.Adapter.Apply(&next.Adapter)
		change.Adapter = next.Adapter != old.snap.Adapter
	case DeviceAdded:
		d := evt.Device
		if d.ID == "" {
			events.Registry.Dropped(evt.Kind.String(), d.Path, "missing address")
			return change
		}
		next.Devices = cloneDevices(old.snap.Devices)
		if idx, ok := r.index[d.ID]; ok {
			// re-announced: merge in place and keep position
			prev := next.Devices[idx]
			next.Devices[idx] = d
			change.Updated = true
			change.Renamed = prev.DisplayName() != d.DisplayName()
		} else {
			r.index[d.ID] = len(next.Devices)
			next.Devices = append(next.Devices, d)
			change.Added = true
		}
	case DeviceChanged:
		idx, ok := r.index[evt.DeviceID]
		if !ok || evt.Changes.Empty() {
			events.Registry.Dropped(evt.Kind.String(), evt.DeviceID, "unknown device or empty update")
			return change
		}
		next.Devices = cloneDevices(old.snap.Devices)
		prevName := next.Devices[idx].DisplayName()
		evt.Changes.Apply(&next.Devices[idx])
		change.Updated = true
		change.Renamed = prevName != next.Devices[idx].DisplayName()
	case DeviceRemoved:
		idx, ok := r.index[evt.DeviceID]
		if !ok {
			events.Registry.Dropped(evt.Kind.String(), evt.DeviceID, "unknown device")
			return change
		}
		next.Devices = make([]Device, 0, len(old.snap.Devices)-1)
		next.Devices = append(next.Devices, old.snap.Devices[:idx]...)
		next.Devices = append(next.Devices, old.snap.Devices[idx+1:]...)
		delete(r.index, evt.DeviceID)
		for i := idx; i < len(next.Devices); i++ {
			r.index[next.Devices[i].ID] = i
		}
		change.Removed = true
	default:
		events.Registry.Dropped(evt.Kind.String(), evt.DeviceID, "unknown event kind")
		return change
	}

	if !change.Any() {
		return change
	}
	next.Version = old.snap.Version + 1
	r.publish(old, next)
	return change
}

func (r *Registry) publish(old *generation, next Snapshot) {
	r.cur.Store(&generation{snap: next, changed: make(chan struct{})})
	close(old.changed)
}

func cloneDevices(devices []Device) []Device {
	if len(devices) == 0 {
		return nil
	}
	dup := make([]Device, len(devices))
	copy(dup, devices)
	return dup
}
