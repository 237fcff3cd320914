// Package navigation drives the menu: it renders the current screen,
// presents it through a launcher, resolves the selection and dispatches the
// bound action, looping until the user exits.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/bzmenu/internal/backend"
	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/menu"
	"github.com/atomicstack/bzmenu/internal/state"
)

// DefaultSettleTimeout bounds the wait for the property event that confirms
// a successful command.
const DefaultSettleTimeout = 2 * time.Second

var errRefresh = errors.New("device list changed")

// Commander is the slice of the controller the menu drives.
type Commander interface {
	Snapshot() state.Snapshot
	Changed() <-chan struct{}
	Discovering() bool
	SetPower(ctx context.Context, on bool) error
	StartDiscovery(ctx context.Context) error
	StopDiscovery(ctx context.Context) error
	Pair(ctx context.Context, id string) error
	Connect(ctx context.Context, id string) error
	Disconnect(ctx context.Context, id string) error
	SetTrusted(ctx context.Context, id string, trusted bool) error
	Remove(ctx context.Context, id string) error
}

// Notifier delivers best-effort desktop notifications. Implementations must
// not block.
type Notifier interface {
	Notify(summary, body string)
}

// Options configures a Machine.
type Options struct {
	Menu          menu.Options
	SettleTimeout time.Duration
	// Watch carries refresh and loss notifications from the event pump.
	// Nil disables live refresh.
	Watch <-chan backend.Event
	// Gate is shared with the pairing Prompter. Nil lets prompts open
	// alongside the menu.
	Gate *Gate
}

// Machine is the menu state machine. It is a single actor: Run must not be
// called concurrently.
type Machine struct {
	cmd       Commander
	presenter launcher.Presenter
	notifier  Notifier
	opts      Options

	screen menu.Screen
	// scanOwned is set when discovery was started from the menu and must be
	// stopped when the device list is left.
	scanOwned bool

	mu   sync.Mutex
	lost error
}

// New creates a machine on the Main screen.
func New(cmd Commander, presenter launcher.Presenter, notifier Notifier, opts Options) *Machine {
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = DefaultSettleTimeout
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Machine{
		cmd:       cmd,
		presenter: presenter,
		notifier:  notifier,
		opts:      opts,
		screen:    menu.Screen{Kind: menu.Main},
	}
}

// Screen returns the current screen.
func (m *Machine) Screen() menu.Screen {
	return m.screen
}

// Run loops until the Exit screen is reached or a fatal error occurs. A
// cancelled ctx ends the loop without error.
func (m *Machine) Run(ctx context.Context) error {
	defer m.stopOwnedScan()
	for m.screen.Kind != menu.Exit {
		if err := m.Step(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			m.screen = menu.Screen{Kind: menu.Exit}
		}
	}
	return nil
}

// Step runs one render, present, resolve and dispatch cycle.
func (m *Machine) Step(ctx context.Context) error {
	m.drainWatch()
	if err := m.lostErr(); err != nil {
		return err
	}
	snap := m.cmd.Snapshot()
	entries := menu.Render(m.screen, snap, m.opts.Menu)
	prompt := menu.Prompt(m.screen, snap)
	kind := m.screen.Kind.String()
	events.Menu.Screen(kind, m.screen.DeviceID)

	line, err := m.present(ctx, entries, prompt)
	if err != nil {
		switch {
		case errors.Is(err, errRefresh), errors.Is(err, errPreempted):
			events.Menu.Refresh(kind)
			return nil
		case errors.Is(err, controller.ErrDaemonUnavailable):
			return err
		case errors.Is(err, launcher.ErrCancelled):
			events.Menu.Cancelled(kind)
			m.transition(ctx, menu.Screen{Kind: menu.Exit})
			return nil
		default:
			return err
		}
	}

	entry, ok := menu.Resolve(entries, line)
	if !ok {
		// stale output from a launcher that raced a registry update
		events.Menu.Unmatched(kind, line)
		return nil
	}
	events.Menu.Select(kind, entry.Key, entry.Label)
	return m.dispatch(ctx, entry)
}

// present shows entries and waits for a selection. On the device list a
// structural registry change closes the launcher so the list can be
// re-rendered; losing the daemon closes it on any screen.
func (m *Machine) present(ctx context.Context, entries []menu.Entry, prompt string) (string, error) {
	pctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	if err := m.opts.Gate.enterMenu(ctx, cancel); err != nil {
		return "", fmt.Errorf("%w: %w", launcher.ErrCancelled, err)
	}
	defer m.opts.Gate.leaveMenu()

	live := m.screen.Kind == menu.DeviceList
	done := make(chan struct{})
	stopped := make(chan struct{})
	if m.opts.Watch == nil {
		close(stopped)
	} else {
		go func() {
			defer close(stopped)
			for {
				select {
				case <-done:
					return
				case evt, ok := <-m.opts.Watch:
					if !ok {
						return
					}
					switch evt.Kind {
					case backend.KindLost:
						m.setLost(evt.Err)
						cancel(m.lostErr())
						return
					case backend.KindRefresh:
						if live {
							cancel(errRefresh)
							return
						}
					}
				}
			}
		}()
	}

	line, err := m.presenter.Present(pctx, menu.Lines(entries), prompt)
	close(done)
	<-stopped
	if err == nil {
		return line, nil
	}
	if lost := m.lostErr(); lost != nil {
		return "", lost
	}
	if ctx.Err() == nil {
		if cause := context.Cause(pctx); cause != nil && pctx.Err() != nil {
			return "", cause
		}
	}
	return "", err
}

// drainWatch discards refreshes queued while no launcher was open. The
// snapshot rendered next already includes the changes they announce.
func (m *Machine) drainWatch() {
	if m.opts.Watch == nil {
		return
	}
	for {
		select {
		case evt, ok := <-m.opts.Watch:
			if !ok {
				return
			}
			if evt.Kind == backend.KindLost {
				m.setLost(evt.Err)
				return
			}
		default:
			return
		}
	}
}

func (m *Machine) setLost(err error) {
	if err == nil {
		err = controller.ErrDaemonUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lost == nil {
		m.lost = err
	}
}

func (m *Machine) lostErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lost
}

func (m *Machine) transition(ctx context.Context, next menu.Screen) {
	if m.screen.Kind == menu.DeviceList && next.Kind != menu.DeviceList {
		m.leaveDeviceList(ctx)
	}
	m.screen = next
}

// leaveDeviceList stops a discovery session the menu started. The stop is
// issued even when ctx is already cancelled.
func (m *Machine) leaveDeviceList(ctx context.Context) {
	if !m.scanOwned {
		return
	}
	m.scanOwned = false
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.SettleTimeout)
	defer cancel()
	if err := m.cmd.StopDiscovery(stopCtx); err != nil {
		events.Action.Error(controller.OpScanStop, "", err)
	}
}

func (m *Machine) stopOwnedScan() {
	m.leaveDeviceList(context.Background())
}

// await waits until cond holds for the registry or the settle timeout
// passes, so the next render shows daemon-confirmed state.
func (m *Machine) await(ctx context.Context, cond func(state.Snapshot) bool) {
	timer := time.NewTimer(m.opts.SettleTimeout)
	defer timer.Stop()
	for {
		changed := m.cmd.Changed()
		if cond(m.cmd.Snapshot()) {
			return
		}
		select {
		case <-changed:
		case <-timer.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}
