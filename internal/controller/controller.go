package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/state"
)

const (
	DefaultScanDuration = 10 * time.Second
	DefaultPairTimeout  = 30 * time.Second

	// cleanupTimeout bounds the daemon calls issued without a caller context
	// (timer expiry, cancel-pairing, shutdown).
	cleanupTimeout = 5 * time.Second
)

// Operation names used in errors and traces.
const (
	OpPower      = "power"
	OpScanStart  = "scan-start"
	OpScanStop   = "scan-stop"
	OpPair       = "pair"
	OpConnect    = "connect"
	OpDisconnect = "disconnect"
	OpTrust      = "trust"
	OpUntrust    = "untrust"
	OpRemove     = "remove"
)

// Options tunes controller timing.
type Options struct {
	ScanDuration time.Duration
	PairTimeout  time.Duration
}

// Controller issues commands to the daemon on behalf of one session. It
// never writes to the registry; confirmed state arrives through events.
type Controller struct {
	daemon  Daemon
	session *Session
	opts    Options

	mu       sync.Mutex
	inflight map[string]string
	scanning bool
	scanGen  uint64
	scanStop context.CancelFunc
	timers   sync.WaitGroup
}

// New creates a controller for the given session.
func New(daemon Daemon, session *Session, opts Options) *Controller {
	if opts.ScanDuration <= 0 {
		opts.ScanDuration = DefaultScanDuration
	}
	if opts.PairTimeout <= 0 {
		opts.PairTimeout = DefaultPairTimeout
	}
	return &Controller{
		daemon:   daemon,
		session:  session,
		opts:     opts,
		inflight: make(map[string]string),
	}
}

// Session returns the session the controller operates on.
func (c *Controller) Session() *Session {
	return c.session
}

// Snapshot returns the current registry state.
func (c *Controller) Snapshot() state.Snapshot {
	return c.session.Registry.Snapshot()
}

// Changed returns a channel closed on the next registry change.
func (c *Controller) Changed() <-chan struct{} {
	return c.session.Registry.Changed()
}

// Discovering reports whether this controller has a discovery session open.
func (c *Controller) Discovering() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scanning
}

// SetPower requests the adapter power state.
func (c *Controller) SetPower(ctx context.Context, on bool) error {
	events.Controller.Command(OpPower, c.session.AdapterPath)
	err := c.daemon.SetPowered(ctx, c.session.AdapterPath, on)
	events.Controller.Result(OpPower, c.session.AdapterPath, err)
	if err != nil {
		return fmt.Errorf("%s %t: %w", OpPower, on, err)
	}
	if !on {
		// powering down ends discovery daemon-side
		c.mu.Lock()
		c.endScanLocked()
		c.mu.Unlock()
	}
	return nil
}

// StartDiscovery opens a discovery session that stops by itself after the
// configured scan duration. Starting while already scanning is a no-op.
func (c *Controller) StartDiscovery(ctx context.Context) error {
	c.mu.Lock()
	if c.scanning {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	events.Controller.Command(OpScanStart, c.session.AdapterPath)
	err := c.daemon.StartDiscovery(ctx, c.session.AdapterPath)
	events.Controller.Result(OpScanStart, c.session.AdapterPath, err)
	if err != nil && !errors.Is(err, ErrOperationInProgress) {
		return fmt.Errorf("%s: %w", OpScanStart, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanning {
		return nil
	}
	c.scanning = true
	c.scanGen++
	timerCtx, cancel := context.WithCancel(context.Background())
	c.scanStop = cancel
	c.timers.Add(1)
	go c.scanTimer(timerCtx, c.scanGen, c.opts.ScanDuration)
	return nil
}

// StopDiscovery closes the discovery session and cancels its timer.
// Stopping while not scanning is a no-op.
func (c *Controller) StopDiscovery(ctx context.Context) error {
	c.mu.Lock()
	if !c.scanning {
		c.mu.Unlock()
		return nil
	}
	c.endScanLocked()
	c.mu.Unlock()
	return c.stopDiscovery(ctx)
}

func (c *Controller) stopDiscovery(ctx context.Context) error {
	events.Controller.Command(OpScanStop, c.session.AdapterPath)
	err := c.daemon.StopDiscovery(ctx, c.session.AdapterPath)
	events.Controller.Result(OpScanStop, c.session.AdapterPath, err)
	if err != nil {
		if errors.Is(err, ErrOperationRejected) && !c.Snapshot().Adapter.Discovering {
			// the daemon already ended discovery
			return nil
		}
		return fmt.Errorf("%s: %w", OpScanStop, err)
	}
	return nil
}

func (c *Controller) endScanLocked() {
	c.scanning = false
	if c.scanStop != nil {
		c.scanStop()
		c.scanStop = nil
	}
}

func (c *Controller) scanTimer(ctx context.Context, gen uint64, d time.Duration) {
	defer c.timers.Done()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		events.Controller.ScanTimer(d.String(), false)
		return
	case <-timer.C:
	}

	c.mu.Lock()
	if !c.scanning || c.scanGen != gen {
		c.mu.Unlock()
		return
	}
	c.endScanLocked()
	c.mu.Unlock()

	events.Controller.ScanTimer(d.String(), true)
	stopCtx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	_ = c.stopDiscovery(stopCtx)
}

// Pair pairs with a device. The attempt is bounded by the pair timeout; on
// expiry the daemon is asked to cancel and ErrAuthorizationRequired is
// returned.
func (c *Controller) Pair(ctx context.Context, id string) error {
	return c.deviceOp(ctx, OpPair, id, func(ctx context.Context) error {
		pairCtx, cancel := context.WithTimeout(ctx, c.opts.PairTimeout)
		defer cancel()
		err := c.daemon.Pair(pairCtx, c.session.AdapterPath, id)
		if err == nil {
			return nil
		}
		if errors.Is(pairCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			cleanupCtx, cancelCleanup := context.WithTimeout(context.Background(), cleanupTimeout)
			defer cancelCleanup()
			_ = c.daemon.CancelPairing(cleanupCtx, c.session.AdapterPath, id)
			return fmt.Errorf("%w: pairing timed out after %s", ErrAuthorizationRequired, c.opts.PairTimeout)
		}
		return err
	})
}

// Connect connects a device.
func (c *Controller) Connect(ctx context.Context, id string) error {
	return c.deviceOp(ctx, OpConnect, id, func(ctx context.Context) error {
		return c.daemon.Connect(ctx, c.session.AdapterPath, id)
	})
}

// Disconnect disconnects a device.
func (c *Controller) Disconnect(ctx context.Context, id string) error {
	return c.deviceOp(ctx, OpDisconnect, id, func(ctx context.Context) error {
		return c.daemon.Disconnect(ctx, c.session.AdapterPath, id)
	})
}

// SetTrusted grants or revokes trust.
func (c *Controller) SetTrusted(ctx context.Context, id string, trusted bool) error {
	op := OpTrust
	if !trusted {
		op = OpUntrust
	}
	return c.deviceOp(ctx, op, id, func(ctx context.Context) error {
		return c.daemon.SetTrusted(ctx, c.session.AdapterPath, id, trusted)
	})
}

// Remove forgets a device.
func (c *Controller) Remove(ctx context.Context, id string) error {
	return c.deviceOp(ctx, OpRemove, id, func(ctx context.Context) error {
		return c.daemon.RemoveDevice(ctx, c.session.AdapterPath, id)
	})
}

// deviceOp allows a single outstanding request per device. A second request
// fails fast instead of queueing.
func (c *Controller) deviceOp(ctx context.Context, op, id string, fn func(context.Context) error) error {
	c.mu.Lock()
	if current, busy := c.inflight[id]; busy {
		c.mu.Unlock()
		events.Controller.Busy(op, id, current)
		return fmt.Errorf("%s %s: %w (%s)", op, id, ErrOperationInProgress, current)
	}
	c.inflight[id] = op
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, id)
		c.mu.Unlock()
	}()

	events.Controller.Command(op, id)
	err := fn(ctx)
	events.Controller.Result(op, id, err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	return nil
}

// Close ends any discovery session this controller opened and waits for the
// scan timer to exit.
func (c *Controller) Close() error {
	c.mu.Lock()
	scanning := c.scanning
	c.endScanLocked()
	c.mu.Unlock()

	var err error
	if scanning {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		err = c.stopDiscovery(ctx)
		cancel()
	}
	c.timers.Wait()
	return err
}
