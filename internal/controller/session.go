package controller

import (
	"context"
	"fmt"
	"sort"

	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/state"
)

// Session scopes one run of the menu to the adapter chosen at startup. The
// active adapter is never re-selected mid-session.
type Session struct {
	AdapterPath string
	Registry    *state.Registry
}

// OpenSession enumerates adapters, selects the first one and seeds the
// registry with its devices.
func OpenSession(ctx context.Context, daemon Daemon, registry *state.Registry) (*Session, error) {
	adapters, err := daemon.Adapters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list adapters: %w", err)
	}
	if len(adapters) == 0 {
		return nil, ErrNoAdapter
	}
	sort.Slice(adapters, func(i, j int) bool { return adapters[i].Path < adapters[j].Path })
	active := adapters[0]

	devices, err := daemon.Devices(ctx, active.Path)
	if err != nil {
		return nil, fmt.Errorf("list devices on %s: %w", active.Path, err)
	}
	sort.SliceStable(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	registry.Reset(active, devices)
	events.Registry.Reset(active.Path, len(devices))

	return &Session{AdapterPath: active.Path, Registry: registry}, nil
}
