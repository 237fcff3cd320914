package menu

// Kind identifies a screen of the menu.
type Kind int

const (
	Main Kind = iota
	DeviceList
	DeviceActions
	Confirm
	Exit
)

func (k Kind) String() string {
	switch k {
	case Main:
		return "main"
	case DeviceList:
		return "devices"
	case DeviceActions:
		return "device"
	case Confirm:
		return "confirm"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// Action is the closed set of things a menu entry can do.
type Action int

const (
	ActionNone Action = iota
	ActionPowerOn
	ActionPowerOff
	ActionScan
	ActionDevices
	ActionExit
	ActionBack
	ActionStartScan
	ActionStopScan
	ActionSelectDevice
	ActionPair
	ActionConnect
	ActionDisconnect
	ActionTrust
	ActionUntrust
	ActionRemove
	ActionConfirm
	ActionCancel
	ActionDismiss
)

var actionNames = map[Action]string{
	ActionNone:         "none",
	ActionPowerOn:      "power-on",
	ActionPowerOff:     "power-off",
	ActionScan:         "scan",
	ActionDevices:      "devices",
	ActionExit:         "exit",
	ActionBack:         "back",
	ActionStartScan:    "scan-start",
	ActionStopScan:     "scan-stop",
	ActionSelectDevice: "select-device",
	ActionPair:         "pair",
	ActionConnect:      "connect",
	ActionDisconnect:   "disconnect",
	ActionTrust:        "trust",
	ActionUntrust:      "untrust",
	ActionRemove:       "remove",
	ActionConfirm:      "confirm",
	ActionCancel:       "cancel",
	ActionDismiss:      "dismiss",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Screen is the state the renderer projects. DeviceID is set for
// DeviceActions and Confirm; Pending is the action a Confirm screen guards.
// Notice, when set, is shown as the first entry.
type Screen struct {
	Kind     Kind
	DeviceID string
	Pending  Action
	Notice   string
}

// Entry is one selectable line. Entries live for a single render.
type Entry struct {
	Key      string
	Label    string
	Icon     string
	Action   Action
	DeviceID string

	// Text is what the launcher shows and echoes back.
	Text string
	// Line is what is written to the launcher, including any icon payload.
	Line string
}
