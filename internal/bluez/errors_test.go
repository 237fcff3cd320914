package bluez

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/atomicstack/bzmenu/internal/controller"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}, controller.ErrDaemonUnavailable},
		{&dbus.Error{Name: "org.freedesktop.DBus.Error.NoReply"}, controller.ErrDaemonUnavailable},
		{dbus.Error{Name: "org.bluez.Error.InProgress", Body: []interface{}{"busy"}}, controller.ErrOperationInProgress},
		{dbus.Error{Name: "org.bluez.Error.AuthenticationFailed"}, controller.ErrAuthorizationRequired},
		{dbus.Error{Name: "org.bluez.Error.Failed", Body: []interface{}{"br-connection-refused"}}, controller.ErrOperationRejected},
		{fmt.Errorf("wrapped: %w", dbus.Error{Name: "org.bluez.Error.NotReady"}), controller.ErrOperationRejected},
		{errors.New("dbus: connection closed by user"), controller.ErrDaemonUnavailable},
	}
	for i, tc := range cases {
		if got := classify(tc.err); !errors.Is(got, tc.want) {
			t.Fatalf("case %d: classify(%v) = %v, want %v", i, tc.err, got, tc.want)
		}
	}
}

func TestClassifyKeepsContextErrorsAndNil(t *testing.T) {
	if classify(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if got := classify(context.DeadlineExceeded); !errors.Is(got, context.DeadlineExceeded) {
		t.Fatalf("expected deadline to pass through, got %v", got)
	}
	if got := classify(context.DeadlineExceeded); errors.Is(got, controller.ErrDaemonUnavailable) {
		t.Fatalf("deadline must not be reported as an unavailable daemon")
	}
}

func TestClassifyKeepsDaemonMessage(t *testing.T) {
	got := classify(dbus.Error{Name: "org.bluez.Error.Failed", Body: []interface{}{"Operation already in progress"}})
	want := "operation rejected: Operation already in progress (org.bluez.Error.Failed)"
	if got.Error() != want {
		t.Fatalf("got %q want %q", got.Error(), want)
	}
}
