package bluez

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/atomicstack/bzmenu/internal/controller"
)

// classify maps bus and daemon errors onto the controller sentinels while
// keeping the daemon's message. Context errors pass through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	name, msg, ok := busError(err)
	if !ok {
		return fmt.Errorf("%w: %v", controller.ErrDaemonUnavailable, err)
	}
	var sentinel error
	switch {
	case name == "org.freedesktop.DBus.Error.ServiceUnknown",
		name == "org.freedesktop.DBus.Error.NameHasNoOwner",
		name == "org.freedesktop.DBus.Error.NoReply",
		name == "org.freedesktop.DBus.Error.Disconnected":
		sentinel = controller.ErrDaemonUnavailable
	case name == "org.bluez.Error.InProgress":
		sentinel = controller.ErrOperationInProgress
	case strings.HasPrefix(name, "org.bluez.Error.Authentication"):
		sentinel = controller.ErrAuthorizationRequired
	default:
		sentinel = controller.ErrOperationRejected
	}
	if msg == "" {
		return fmt.Errorf("%w: %s", sentinel, name)
	}
	return fmt.Errorf("%w: %s (%s)", sentinel, msg, name)
}

func busError(err error) (name, msg string, ok bool) {
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name, errorMessage(value.Body), true
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Name, errorMessage(ptr.Body), true
	}
	return "", "", false
}

func errorMessage(body []interface{}) string {
	if len(body) == 0 {
		return ""
	}
	s, _ := body[0].(string)
	return s
}
