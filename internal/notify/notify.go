// Package notify sends desktop notifications over the session bus
// (org.freedesktop.Notifications). Delivery is asynchronous and best-effort:
// failures are traced, never returned to the caller.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/atomicstack/bzmenu/internal/logging/events"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	method     = busName + ".Notify"

	// AppName is reported to the notification server.
	AppName = "bzmenu"
	// Icon is the freedesktop icon name attached to every notification.
	Icon = "bluetooth"

	expireMillis = int32(5000)
	sendTimeout  = 2 * time.Second
)

// caller performs the Notify method call. It exists so tests can observe
// calls without a session bus.
type caller func(ctx context.Context, args ...interface{}) error

// Notifier delivers notifications. The zero value is not usable; see Dial.
type Notifier struct {
	call  caller
	close func() error

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Dial connects to the session bus.
func Dial(ctx context.Context) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}
	obj := conn.Object(busName, objectPath)
	call := func(ctx context.Context, args ...interface{}) error {
		return obj.CallWithContext(ctx, method, 0, args...).Err
	}
	return newNotifier(call, conn.Close), nil
}

func newNotifier(call caller, closeFn func() error) *Notifier {
	return &Notifier{call: call, close: closeFn}
}

// Notify sends one notification in the background.
func (n *Notifier) Notify(summary, body string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.wg.Add(1)
	n.mu.Unlock()

	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		hints := map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))}
		err := n.call(ctx, AppName, uint32(0), Icon, summary, body, []string{}, hints, expireMillis)
		if err != nil {
			events.Notify.Failed(err)
			return
		}
		events.Notify.Sent(summary, body)
	}()
}

// Close waits for pending notifications and releases the bus connection.
func (n *Notifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.mu.Unlock()

	n.wg.Wait()
	if n.close == nil {
		return nil
	}
	return n.close()
}

// Nop discards notifications.
type Nop struct{}

// Notify implements the notifier contract by doing nothing.
func (Nop) Notify(string, string) {}
