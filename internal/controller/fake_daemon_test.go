package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/bzmenu/internal/state"
)

type fakeDaemon struct {
	mu       sync.Mutex
	calls    []string
	adapters []state.Adapter
	devices  []state.Device
	errs     map[string]error

	// pairHook, when set, replaces the Pair body.
	pairHook func(ctx context.Context) error
	stopped  chan struct{}
}

func newFakeDaemon() *fakeDaemon {
	return &fakeDaemon{
		adapters: []state.Adapter{{Path: "/org/bluez/hci0", Powered: true}},
		errs:     make(map[string]error),
		stopped:  make(chan struct{}, 8),
	}
}

func (f *fakeDaemon) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.errs[call]
}

func (f *fakeDaemon) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeDaemon) Adapters(context.Context) ([]state.Adapter, error) {
	return f.adapters, f.record("Adapters")
}

func (f *fakeDaemon) Devices(context.Context, string) ([]state.Device, error) {
	return f.devices, f.record("Devices")
}

func (f *fakeDaemon) SetPowered(_ context.Context, _ string, on bool) error {
	return f.record(fmt.Sprintf("SetPowered %t", on))
}

func (f *fakeDaemon) StartDiscovery(context.Context, string) error {
	return f.record("StartDiscovery")
}

func (f *fakeDaemon) StopDiscovery(context.Context, string) error {
	err := f.record("StopDiscovery")
	f.stopped <- struct{}{}
	return err
}

func (f *fakeDaemon) Pair(ctx context.Context, _, device string) error {
	err := f.record("Pair " + device)
	if f.pairHook != nil {
		return f.pairHook(ctx)
	}
	return err
}

func (f *fakeDaemon) CancelPairing(_ context.Context, _, device string) error {
	return f.record("CancelPairing " + device)
}

func (f *fakeDaemon) Connect(_ context.Context, _, device string) error {
	return f.record("Connect " + device)
}

func (f *fakeDaemon) Disconnect(_ context.Context, _, device string) error {
	return f.record("Disconnect " + device)
}

func (f *fakeDaemon) SetTrusted(_ context.Context, _, device string, trusted bool) error {
	return f.record(fmt.Sprintf("SetTrusted %s %t", device, trusted))
}

func (f *fakeDaemon) RemoveDevice(_ context.Context, _, device string) error {
	return f.record("RemoveDevice " + device)
}

func (f *fakeDaemon) Subscribe(ctx context.Context) (<-chan state.Event, error) {
	ch := make(chan state.Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, f.record("Subscribe")
}
