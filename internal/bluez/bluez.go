package bluez

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/logging/events"
	"github.com/atomicstack/bzmenu/internal/state"
)

const (
	busName       = "org.bluez"
	rootPath      = "/org/bluez"
	adapterIface  = "org.bluez.Adapter1"
	deviceIface   = "org.bluez.Device1"
	batteryIface  = "org.bluez.Battery1"
	agentMgrIface = "org.bluez.AgentManager1"
	agentIface    = "org.bluez.Agent1"
	propsIface    = "org.freedesktop.DBus.Properties"
	objMgrIface   = "org.freedesktop.DBus.ObjectManager"

	propsChanged      = propsIface + ".PropertiesChanged"
	interfacesAdded   = objMgrIface + ".InterfacesAdded"
	interfacesRemoved = objMgrIface + ".InterfacesRemoved"
	nameOwnerChanged  = "org.freedesktop.DBus.NameOwnerChanged"
)

// Managed objects as returned by GetManagedObjects.
type managedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// devicePath converts an address like "AA:BB:CC:DD:EE:FF" under adapter
// "/org/bluez/hci0" to "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func devicePath(adapter, addr string) dbus.ObjectPath {
	return dbus.ObjectPath(adapter + "/dev_" + strings.ReplaceAll(addr, ":", "_"))
}

// addressFromPath extracts the address and the owning adapter from a device
// object path. ok is false for anything that is not a device path.
func addressFromPath(path dbus.ObjectPath) (addr, adapter string, ok bool) {
	s := string(path)
	idx := strings.LastIndex(s, "/dev_")
	if idx <= 0 {
		return "", "", false
	}
	tail := s[idx+len("/dev_"):]
	if tail == "" || strings.Contains(tail, "/") {
		return "", "", false
	}
	return strings.ReplaceAll(tail, "_", ":"), s[:idx], true
}

// Client talks to bluetoothd over a private system bus connection.
type Client struct {
	conn *dbus.Conn

	mu     sync.Mutex
	closed bool
}

// Dial connects to the system bus and checks that bluetoothd owns its name.
func Dial(ctx context.Context) (*Client, error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: connect to system bus: %v", controller.ErrDaemonUnavailable, err)
	}
	var owned bool
	call := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, busName)
	if err := call.Store(&owned); err != nil {
		conn.Close()
		return nil, fmt.Errorf("query %s owner: %w", busName, classify(err))
	}
	if !owned {
		conn.Close()
		return nil, fmt.Errorf("%w: %s not found on system bus, is bluetooth.service running?", controller.ErrDaemonUnavailable, busName)
	}
	return &Client{conn: conn}, nil
}

// Conn exposes the underlying connection for the pairing agent.
func (c *Client) Conn() *dbus.Conn {
	return c.conn
}

// Close releases the bus connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, path dbus.ObjectPath, method string, args ...interface{}) *dbus.Call {
	events.Bluez.Call(method, string(path))
	return c.conn.Object(busName, path).CallWithContext(ctx, method, 0, args...)
}

func (c *Client) setProp(ctx context.Context, path dbus.ObjectPath, iface, prop string, val interface{}) error {
	return classify(c.call(ctx, path, propsIface+".Set", iface, prop, dbus.MakeVariant(val)).Err)
}

func (c *Client) managedObjects(ctx context.Context) (managedObjects, error) {
	objects := managedObjects{}
	call := c.call(ctx, "/", objMgrIface+".GetManagedObjects")
	if err := call.Store(&objects); err != nil {
		return nil, classify(err)
	}
	return objects, nil
}

// Adapters lists every adapter bluetoothd knows about.
func (c *Client) Adapters(ctx context.Context) ([]state.Adapter, error) {
	objects, err := c.managedObjects(ctx)
	if err != nil {
		return nil, err
	}
	adapters := parseAdapters(objects)
	events.Bluez.Connected(len(adapters))
	return adapters, nil
}

// Devices lists the devices that belong to adapter.
func (c *Client) Devices(ctx context.Context, adapter string) ([]state.Device, error) {
	objects, err := c.managedObjects(ctx)
	if err != nil {
		return nil, err
	}
	return parseDevices(objects, adapter), nil
}

func (c *Client) SetPowered(ctx context.Context, adapter string, on bool) error {
	return c.setProp(ctx, dbus.ObjectPath(adapter), adapterIface, "Powered", on)
}

func (c *Client) StartDiscovery(ctx context.Context, adapter string) error {
	return classify(c.call(ctx, dbus.ObjectPath(adapter), adapterIface+".StartDiscovery").Err)
}

func (c *Client) StopDiscovery(ctx context.Context, adapter string) error {
	return classify(c.call(ctx, dbus.ObjectPath(adapter), adapterIface+".StopDiscovery").Err)
}

func (c *Client) Pair(ctx context.Context, adapter, device string) error {
	return classify(c.call(ctx, devicePath(adapter, device), deviceIface+".Pair").Err)
}

func (c *Client) CancelPairing(ctx context.Context, adapter, device string) error {
	return classify(c.call(ctx, devicePath(adapter, device), deviceIface+".CancelPairing").Err)
}

func (c *Client) Connect(ctx context.Context, adapter, device string) error {
	return classify(c.call(ctx, devicePath(adapter, device), deviceIface+".Connect").Err)
}

func (c *Client) Disconnect(ctx context.Context, adapter, device string) error {
	return classify(c.call(ctx, devicePath(adapter, device), deviceIface+".Disconnect").Err)
}

func (c *Client) SetTrusted(ctx context.Context, adapter, device string, trusted bool) error {
	return c.setProp(ctx, devicePath(adapter, device), deviceIface, "Trusted", trusted)
}

func (c *Client) RemoveDevice(ctx context.Context, adapter, device string) error {
	return classify(c.call(ctx, dbus.ObjectPath(adapter), adapterIface+".RemoveDevice", devicePath(adapter, device)).Err)
}

var _ controller.Daemon = (*Client)(nil)
