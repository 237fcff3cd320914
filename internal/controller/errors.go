package controller

import "errors"

var (
	// ErrDaemonUnavailable means the system bus or bluetoothd cannot be
	// reached. It is fatal to the session.
	ErrDaemonUnavailable = errors.New("bluetooth daemon unavailable")
	// ErrOperationRejected means the daemon declined a command.
	ErrOperationRejected = errors.New("operation rejected")
	// ErrOperationInProgress means a command for the same device is still
	// outstanding.
	ErrOperationInProgress = errors.New("operation in progress")
	// ErrAuthorizationRequired means pairing needed an answer nobody gave,
	// or the pairing attempt timed out.
	ErrAuthorizationRequired = errors.New("authorization required")
	// ErrNoAdapter means the daemon reported no adapter at startup.
	ErrNoAdapter = errors.New("no bluetooth adapter found")
)

// Fatal reports whether err should terminate the session.
func Fatal(err error) bool {
	return errors.Is(err, ErrDaemonUnavailable) || errors.Is(err, ErrNoAdapter)
}
