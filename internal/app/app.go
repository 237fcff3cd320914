package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/atomicstack/bzmenu/internal/backend"
	"github.com/atomicstack/bzmenu/internal/bluez"
	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/data/dispatcher"
	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/logging"
	"github.com/atomicstack/bzmenu/internal/menu"
	"github.com/atomicstack/bzmenu/internal/navigation"
	"github.com/atomicstack/bzmenu/internal/notify"
	"github.com/atomicstack/bzmenu/internal/state"
	"github.com/atomicstack/bzmenu/internal/ui"
)

const (
	DefaultScanDuration = controller.DefaultScanDuration
	DefaultPairTimeout  = controller.DefaultPairTimeout

	shutdownTimeout = 3 * time.Second
)

// ErrNoTerminal means the tui launcher was chosen without a terminal to
// draw on.
var ErrNoTerminal = errors.New("the tui launcher needs a terminal")

// Config describes user-provided application options.
type Config struct {
	Launcher        launcher.Profile
	LauncherCommand string
	Icons           menu.IconMode
	Spacing         int
	ScanDuration    time.Duration
	PairTimeout     time.Duration
	Pairing         bluez.Policy
	Notify          bool
}

// MenuOptions returns the renderer options for cfg.
func (c Config) MenuOptions() menu.Options {
	return menu.Options{Icons: c.Icons, Spacing: c.Spacing}
}

// Presenter returns the launcher implementation for cfg.
func (c Config) Presenter() launcher.Presenter {
	if c.Launcher == launcher.TUI {
		return &ui.Picker{}
	}
	return &launcher.Process{
		Profile:  c.Launcher,
		Template: c.LauncherCommand,
		Icons:    c.Icons,
		Stderr:   os.Stderr,
	}
}

// Run connects to bluetoothd and drives the menu until the user exits or
// ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Launcher == launcher.TUI && !term.IsTerminal(int(os.Stderr.Fd())) {
		return ErrNoTerminal
	}

	client, err := bluez.Dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	// subscribe before enumerating so nothing between the two is lost
	subCtx, cancelSub := context.WithCancel(ctx)
	defer cancelSub()
	stream, err := client.Subscribe(subCtx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	registry := state.NewRegistry()
	session, err := controller.OpenSession(ctx, client, registry)
	if err != nil {
		return err
	}

	watcher, err := backend.NewWatcher(subCtx, subscribed(stream), dispatcher.New(registry, session.AdapterPath), backend.RefreshInterval)
	if err != nil {
		return err
	}
	defer func() {
		watcher.Stop()
		watcher.Wait()
	}()

	ctrl := controller.New(client, session, controller.Options{
		ScanDuration: cfg.ScanDuration,
		PairTimeout:  cfg.PairTimeout,
	})
	defer func() {
		if err := ctrl.Close(); err != nil {
			logging.Error(fmt.Errorf("stop discovery: %w", err))
		}
	}()

	var notifier navigation.Notifier = notify.Nop{}
	if cfg.Notify {
		n, err := notify.Dial(ctx)
		if err != nil {
			logging.Error(fmt.Errorf("notifications disabled: %w", err))
		} else {
			defer n.Close()
			notifier = n
		}
	}

	presenter := cfg.Presenter()
	menuOpts := cfg.MenuOptions()

	gate := navigation.NewGate()

	agent := bluez.NewAgent(cfg.Pairing, navigation.NewPrompter(presenter, notifier, menuOpts, gate), cfg.PairTimeout, deviceNames(registry))
	if err := agent.Register(ctx, client.Conn()); err != nil {
		// pairing still works when another agent answers
		logging.Error(fmt.Errorf("register pairing agent: %w", err))
	} else {
		defer func() {
			unregCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := agent.Unregister(unregCtx); err != nil {
				logging.Error(fmt.Errorf("unregister pairing agent: %w", err))
			}
		}()
	}

	machine := navigation.New(ctrl, presenter, notifier, navigation.Options{
		Menu:  menuOpts,
		Watch: watcher.Events(),
		Gate:  gate,
	})
	return machine.Run(ctx)
}

// subscribed hands an already open event stream to the watcher.
type subscribed <-chan state.Event

func (s subscribed) Subscribe(context.Context) (<-chan state.Event, error) {
	return s, nil
}

func deviceNames(registry *state.Registry) func(string) string {
	return func(id string) string {
		if d, ok := registry.Snapshot().Device(id); ok {
			return d.DisplayName()
		}
		return ""
	}
}
