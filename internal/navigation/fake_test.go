package navigation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/state"
)

const testAdapter = "/org/bluez/hci0"

func boolPtr(v bool) *bool { return &v }

// fakeCommander stands in for the controller. Commands are recorded and, unless
// frozen, confirmed by applying the event bluetoothd would send.
type fakeCommander struct {
	reg *state.Registry

	mu       sync.Mutex
	calls    []string
	fail     map[string]error
	frozen   bool
	scanning bool
}

func newFakeCommander(powered bool, devices ...state.Device) *fakeCommander {
	reg := state.NewRegistry()
	reg.Reset(state.Adapter{Path: testAdapter, Address: "00:11:22:33:44:55", Powered: powered}, devices)
	return &fakeCommander{reg: reg, fail: make(map[string]error)}
}

func (f *fakeCommander) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeCommander) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCommander) confirm(evt state.Event) {
	if f.frozen {
		return
	}
	f.reg.Apply(evt)
}

func (f *fakeCommander) confirmDevice(id string, u state.DeviceUpdate) {
	f.confirm(state.Event{Kind: state.DeviceChanged, DeviceID: id, Changes: u})
}

func (f *fakeCommander) Snapshot() state.Snapshot { return f.reg.Snapshot() }
func (f *fakeCommander) Changed() <-chan struct{} { return f.reg.Changed() }

func (f *fakeCommander) Discovering() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scanning
}

func (f *fakeCommander) SetPower(_ context.Context, on bool) error {
	if err := f.record(fmt.Sprintf("power:%t", on)); err != nil {
		return err
	}
	f.confirm(state.Event{Kind: state.AdapterChanged, AdapterPath: testAdapter, Adapter: state.AdapterUpdate{Powered: boolPtr(on)}})
	return nil
}

func (f *fakeCommander) StartDiscovery(context.Context) error {
	if err := f.record("scan-start"); err != nil {
		return err
	}
	f.mu.Lock()
	f.scanning = true
	f.mu.Unlock()
	f.confirm(state.Event{Kind: state.AdapterChanged, AdapterPath: testAdapter, Adapter: state.AdapterUpdate{Discovering: boolPtr(true)}})
	return nil
}

func (f *fakeCommander) StopDiscovery(context.Context) error {
	if err := f.record("scan-stop"); err != nil {
		return err
	}
	f.mu.Lock()
	f.scanning = false
	f.mu.Unlock()
	f.confirm(state.Event{Kind: state.AdapterChanged, AdapterPath: testAdapter, Adapter: state.AdapterUpdate{Discovering: boolPtr(false)}})
	return nil
}

func (f *fakeCommander) Pair(_ context.Context, id string) error {
	if err := f.record("pair:" + id); err != nil {
		return err
	}
	f.confirmDevice(id, state.DeviceUpdate{Paired: boolPtr(true)})
	return nil
}

func (f *fakeCommander) Connect(_ context.Context, id string) error {
	if err := f.record("connect:" + id); err != nil {
		return err
	}
	f.confirmDevice(id, state.DeviceUpdate{Connected: boolPtr(true)})
	return nil
}

func (f *fakeCommander) Disconnect(_ context.Context, id string) error {
	if err := f.record("disconnect:" + id); err != nil {
		return err
	}
	f.confirmDevice(id, state.DeviceUpdate{Connected: boolPtr(false)})
	return nil
}

func (f *fakeCommander) SetTrusted(_ context.Context, id string, trusted bool) error {
	if err := f.record(fmt.Sprintf("trust:%s:%t", id, trusted)); err != nil {
		return err
	}
	f.confirmDevice(id, state.DeviceUpdate{Trusted: boolPtr(trusted)})
	return nil
}

func (f *fakeCommander) Remove(_ context.Context, id string) error {
	if err := f.record("remove:" + id); err != nil {
		return err
	}
	f.confirm(state.Event{Kind: state.DeviceRemoved, DeviceID: id})
	return nil
}

type step func(ctx context.Context, lines []string, prompt string) (string, error)

// scriptPresenter answers each Present call with the next scripted step.
type scriptPresenter struct {
	t       *testing.T
	steps   []step
	prompts []string
}

func (p *scriptPresenter) Present(ctx context.Context, lines []string, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.steps) == 0 {
		p.t.Errorf("unexpected presentation %q with %v", prompt, labels(lines))
		return "", launcher.ErrCancelled
	}
	next := p.steps[0]
	p.steps = p.steps[1:]
	return next(ctx, lines, prompt)
}

func labels(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if idx := strings.IndexByte(line, 0); idx >= 0 {
			line = line[:idx]
		}
		out[i] = line
	}
	return out
}

// expect checks the presented labels, then picks one.
func expect(t *testing.T, want []string, choice string) step {
	return func(_ context.Context, lines []string, _ string) (string, error) {
		got := labels(lines)
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("expected entries %v, got %v", want, got)
		}
		for i, label := range got {
			if label == choice {
				return lines[i], nil
			}
		}
		t.Errorf("entry %q not offered in %v", choice, got)
		return "", launcher.ErrCancelled
	}
}

func pick(t *testing.T, choice string) step {
	return func(_ context.Context, lines []string, _ string) (string, error) {
		for i, label := range labels(lines) {
			if label == choice {
				return lines[i], nil
			}
		}
		t.Errorf("entry %q not offered in %v", choice, labels(lines))
		return "", launcher.ErrCancelled
	}
}

func cancelled() step {
	return func(context.Context, []string, string) (string, error) {
		return "", launcher.ErrCancelled
	}
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(summary, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, summary+": "+body)
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}
