package bluez

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/atomicstack/bzmenu/internal/logging/events"
)

// AgentCapability is announced to bluetoothd on registration.
const AgentCapability = "KeyboardDisplay"

const (
	errRejected = "org.bluez.Error.Rejected"
	errCanceled = "org.bluez.Error.Canceled"
)

// Policy decides how pairing requests are answered.
type Policy string

const (
	// PolicyPrompt asks the user through the Prompter.
	PolicyPrompt Policy = "prompt"
	// PolicyAccept confirms and authorizes without asking. Requests that
	// need typed input are still rejected.
	PolicyAccept Policy = "accept"
	// PolicyNone rejects every request.
	PolicyNone Policy = "none"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPrompt, PolicyAccept, PolicyNone:
		return p, nil
	}
	return "", fmt.Errorf("unknown pairing policy %q (want prompt, accept or none)", s)
}

// Prompter is how the agent reaches the user.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) bool
	// Input asks for free text. ok is false when the user dismissed it.
	Input(ctx context.Context, prompt string) (string, bool)
	// Display shows a message that needs no answer.
	Display(message string)
}

// Agent implements org.bluez.Agent1.
type Agent struct {
	policy   Policy
	prompter Prompter
	timeout  time.Duration
	names    func(id string) string

	path dbus.ObjectPath
	conn *dbus.Conn

	mu     sync.Mutex
	cancel context.CancelFunc
	// seq identifies the request that owns cancel.
	seq uint64
}

// NewAgent builds an agent. names resolves an address to a display name and
// may be nil.
func NewAgent(policy Policy, prompter Prompter, timeout time.Duration, names func(string) string) *Agent {
	return &Agent{
		policy:   policy,
		prompter: prompter,
		timeout:  timeout,
		names:    names,
		path:     dbus.ObjectPath("/org/bzmenu/agent_" + strings.ReplaceAll(uuid.NewString(), "-", "")),
	}
}

// Path is the object path the agent is exported on.
func (a *Agent) Path() dbus.ObjectPath {
	return a.path
}

// Register exports the agent on conn and makes it the default agent.
func (a *Agent) Register(ctx context.Context, conn *dbus.Conn) error {
	if err := conn.Export(a, a.path, agentIface); err != nil {
		return fmt.Errorf("export agent: %w", err)
	}
	mgr := conn.Object(busName, rootPath)
	if err := mgr.CallWithContext(ctx, agentMgrIface+".RegisterAgent", 0, a.path, AgentCapability).Err; err != nil {
		conn.Export(nil, a.path, agentIface)
		return fmt.Errorf("register agent: %w", classify(err))
	}
	if err := mgr.CallWithContext(ctx, agentMgrIface+".RequestDefaultAgent", 0, a.path).Err; err != nil {
		mgr.CallWithContext(ctx, agentMgrIface+".UnregisterAgent", 0, a.path)
		conn.Export(nil, a.path, agentIface)
		return fmt.Errorf("request default agent: %w", classify(err))
	}
	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
	events.Agent.Registered(string(a.path), AgentCapability)
	return nil
}

// Unregister withdraws the agent. It is safe to call when Register failed.
func (a *Agent) Unregister(ctx context.Context) error {
	a.abort()
	a.mu.Lock()
	conn := a.conn
	a.conn = nil
	a.mu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Object(busName, rootPath).CallWithContext(ctx, agentMgrIface+".UnregisterAgent", 0, a.path).Err
	conn.Export(nil, a.path, agentIface)
	return classify(err)
}

func (a *Agent) begin() (context.Context, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = cancel
	a.seq++
	seq := a.seq
	a.mu.Unlock()
	return ctx, func() {
		cancel()
		a.mu.Lock()
		if a.seq == seq {
			a.cancel = nil
		}
		a.mu.Unlock()
	}
}

func (a *Agent) abort() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Agent) deviceName(path dbus.ObjectPath) string {
	addr, _, ok := addressFromPath(path)
	if !ok {
		return string(path)
	}
	if a.names != nil {
		if name := a.names(addr); name != "" {
			return name
		}
	}
	return addr
}

func (a *Agent) confirm(method string, device dbus.ObjectPath, question string) *dbus.Error {
	name := a.deviceName(device)
	events.Agent.Request(method, name)
	accepted := false
	switch a.policy {
	case PolicyAccept:
		accepted = true
	case PolicyPrompt:
		if a.prompter != nil {
			ctx, done := a.begin()
			accepted = a.prompter.Confirm(ctx, question)
			done()
		}
	}
	events.Agent.Reply(method, name, accepted)
	if !accepted {
		return dbus.NewError(errRejected, []interface{}{"rejected by user"})
	}
	return nil
}

func (a *Agent) input(method string, device dbus.ObjectPath, prompt string) (string, *dbus.Error) {
	name := a.deviceName(device)
	events.Agent.Request(method, name)
	if a.policy != PolicyPrompt || a.prompter == nil {
		events.Agent.Reply(method, name, false)
		return "", dbus.NewError(errRejected, []interface{}{"input not available"})
	}
	ctx, done := a.begin()
	value, ok := a.prompter.Input(ctx, prompt)
	done()
	events.Agent.Reply(method, name, ok)
	if !ok {
		return "", dbus.NewError(errCanceled, []interface{}{"cancelled by user"})
	}
	return value, nil
}

func (a *Agent) display(method string, device dbus.ObjectPath, message string) *dbus.Error {
	events.Agent.Request(method, a.deviceName(device))
	if a.policy != PolicyNone && a.prompter != nil {
		a.prompter.Display(message)
	}
	return nil
}

// Release is called when bluetoothd drops the agent.
func (a *Agent) Release() *dbus.Error {
	a.abort()
	a.mu.Lock()
	a.conn = nil
	a.mu.Unlock()
	return nil
}

func (a *Agent) RequestPinCode(device dbus.ObjectPath) (string, *dbus.Error) {
	return a.input("RequestPinCode", device, fmt.Sprintf("PIN for %s", a.deviceName(device)))
}

func (a *Agent) DisplayPinCode(device dbus.ObjectPath, pincode string) *dbus.Error {
	return a.display("DisplayPinCode", device, fmt.Sprintf("Enter PIN %s on %s", pincode, a.deviceName(device)))
}

func (a *Agent) RequestPasskey(device dbus.ObjectPath) (uint32, *dbus.Error) {
	value, derr := a.input("RequestPasskey", device, fmt.Sprintf("Passkey for %s", a.deviceName(device)))
	if derr != nil {
		return 0, derr
	}
	passkey, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || passkey > 999999 {
		return 0, dbus.NewError(errRejected, []interface{}{"invalid passkey"})
	}
	return uint32(passkey), nil
}

func (a *Agent) DisplayPasskey(device dbus.ObjectPath, passkey uint32, entered uint16) *dbus.Error {
	if entered > 0 {
		return nil
	}
	return a.display("DisplayPasskey", device, fmt.Sprintf("Enter passkey %06d on %s", passkey, a.deviceName(device)))
}

func (a *Agent) RequestConfirmation(device dbus.ObjectPath, passkey uint32) *dbus.Error {
	return a.confirm("RequestConfirmation", device, fmt.Sprintf("Confirm passkey %06d for %s?", passkey, a.deviceName(device)))
}

func (a *Agent) RequestAuthorization(device dbus.ObjectPath) *dbus.Error {
	return a.confirm("RequestAuthorization", device, fmt.Sprintf("Allow %s to pair?", a.deviceName(device)))
}

func (a *Agent) AuthorizeService(device dbus.ObjectPath, service string) *dbus.Error {
	return a.confirm("AuthorizeService", device, fmt.Sprintf("Allow %s to use service %s?", a.deviceName(device), service))
}

// Cancel aborts the request that is currently waiting on the user.
func (a *Agent) Cancel() *dbus.Error {
	a.abort()
	return nil
}
