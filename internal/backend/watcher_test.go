package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/data/dispatcher"
	"github.com/atomicstack/bzmenu/internal/state"
)

type chanSource struct {
	ch  chan state.Event
	err error
}

func (s *chanSource) Subscribe(ctx context.Context) (<-chan state.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ch, nil
}

func setup(t *testing.T) (*state.Registry, *chanSource, *Watcher) {
	t.Helper()
	r := state.NewRegistry()
	r.Reset(state.Adapter{Path: "/org/bluez/hci0"}, nil)
	src := &chanSource{ch: make(chan state.Event, 16)}
	w, err := NewWatcher(context.Background(), src, dispatcher.New(r, "/org/bluez/hci0"), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})
	return r, src, w
}

func TestWatcherAppliesEventsAndRefreshes(t *testing.T) {
	r, src, w := setup(t)
	changed := r.Changed()
	src.ch <- state.Event{Kind: state.DeviceAdded, Device: state.Device{ID: "AA"}}

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("registry was not updated")
	}
	select {
	case evt := <-w.Events():
		if evt.Kind != KindRefresh {
			t.Fatalf("expected refresh, got %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a refresh event")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	_, src, w := setup(t)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		src.ch <- state.Event{Kind: state.DeviceAdded, Device: state.Device{ID: id}}
	}
	deadline := time.After(200 * time.Millisecond)
	count := 0
loop:
	for {
		select {
		case <-w.Events():
			count++
		case <-deadline:
			break loop
		}
	}
	if count == 0 || count >= 5 {
		t.Fatalf("expected coalesced refreshes, got %d", count)
	}
}

func TestWatcherReportsLostStream(t *testing.T) {
	_, src, w := setup(t)
	close(src.ch)
	select {
	case evt := <-w.Events():
		if evt.Kind != KindLost || !errors.Is(evt.Err, controller.ErrDaemonUnavailable) {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a lost event")
	}
}

func TestWatcherSubscribeError(t *testing.T) {
	src := &chanSource{err: controller.ErrDaemonUnavailable}
	_, err := NewWatcher(context.Background(), src, dispatcher.New(state.NewRegistry(), ""), 0)
	if !errors.Is(err, controller.ErrDaemonUnavailable) {
		t.Fatalf("expected daemon unavailable, got %v", err)
	}
}
