package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/data/dispatcher"
	"github.com/atomicstack/bzmenu/internal/state"
)

// RefreshInterval is the minimum gap between two structural refresh events.
const RefreshInterval = 250 * time.Millisecond

// Kind represents the type of notification emitted by the watcher.
type Kind int

const (
	// KindRefresh means the set or naming of devices changed.
	KindRefresh Kind = iota
	// KindLost means the event stream ended while the watcher was running.
	KindLost
)

// Event conveys a registry notification or the loss of the daemon.
type Event struct {
	Kind Kind
	Err  error
}

// Subscriber is the event source the watcher pumps.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan state.Event, error)
}

// Watcher feeds daemon events into the registry through the dispatcher and
// publishes throttled refresh notifications.
type Watcher struct {
	dispatcher *dispatcher.Dispatcher
	interval   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	pending chan struct{}
	events  chan Event
	wg      sync.WaitGroup
}

// NewWatcher subscribes to source and starts pumping. interval <= 0 uses
// RefreshInterval.
func NewWatcher(ctx context.Context, source Subscriber, d *dispatcher.Dispatcher, interval time.Duration) (*Watcher, error) {
	if interval <= 0 {
		interval = RefreshInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	stream, err := source.Subscribe(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	w := &Watcher{
		dispatcher: d,
		interval:   interval,
		ctx:        ctx,
		cancel:     cancel,
		pending:    make(chan struct{}, 1),
		events:     make(chan Event, 16),
	}

	w.wg.Add(2)
	go w.pump(stream)
	go w.refresh()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w, nil
}

// Events returns a channel of watcher notifications.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the subscription.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutines have exited and the events
// channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) pump(stream <-chan state.Event) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-stream:
			if !ok {
				if w.ctx.Err() == nil {
					w.emit(Event{Kind: KindLost, Err: fmt.Errorf("%w: event stream closed", controller.ErrDaemonUnavailable)})
					w.cancel()
				}
				return
			}
			if res := w.dispatcher.Handle(evt); res.Structural {
				select {
				case w.pending <- struct{}{}:
				default:
				}
			}
		}
	}
}

// refresh coalesces bursts of structural changes into at most one event per
// interval.
func (w *Watcher) refresh() {
	defer w.wg.Done()
	throttle := newThrottle(w.interval)
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.pending:
			if !throttle.wait(w.ctx) {
				return
			}
			if !w.emit(Event{Kind: KindRefresh}) {
				return
			}
		}
	}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
