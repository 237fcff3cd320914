package controller

import (
	"context"

	"github.com/atomicstack/bzmenu/internal/state"
)

// Daemon is the capability surface of the Bluetooth management daemon.
// Device methods address devices by the active adapter path and the device
// address. Errors are mapped onto this package's sentinels.
type Daemon interface {
	Adapters(ctx context.Context) ([]state.Adapter, error)
	Devices(ctx context.Context, adapter string) ([]state.Device, error)

	SetPowered(ctx context.Context, adapter string, on bool) error
	StartDiscovery(ctx context.Context, adapter string) error
	StopDiscovery(ctx context.Context, adapter string) error

	Pair(ctx context.Context, adapter, device string) error
	CancelPairing(ctx context.Context, adapter, device string) error
	Connect(ctx context.Context, adapter, device string) error
	Disconnect(ctx context.Context, adapter, device string) error
	SetTrusted(ctx context.Context, adapter, device string, trusted bool) error
	RemoveDevice(ctx context.Context, adapter, device string) error

	// Subscribe delivers daemon events in arrival order until ctx is done,
	// then closes the channel.
	Subscribe(ctx context.Context) (<-chan state.Event, error)
}
