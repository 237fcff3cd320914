package menu

import "github.com/atomicstack/bzmenu/internal/state"

// DeviceType guesses what kind of peer a device is: Class of Device first,
// then the LE appearance, then bluetoothd's icon hint.
func DeviceType(d state.Device) string {
	if t := classType(d.Class); t != "" {
		return t
	}
	if t := appearanceType(d.Appearance); t != "" {
		return t
	}
	if d.Icon != "" {
		return iconHintType(d.Icon)
	}
	return "device"
}

func classType(class uint32) string {
	if class == 0 {
		return ""
	}
	major := (class >> 8) & 0x1f
	minor := (class >> 2) & 0x3f
	switch major {
	case 0x01:
		return "computer"
	case 0x02:
		switch minor {
		case 0x02:
			return "modem"
		case 0x04, 0x05:
			return "computer"
		case 0x06:
			return "laptop"
		case 0x07:
			return "tablet"
		}
		return "phone"
	case 0x03:
		return "network"
	case 0x04:
		switch minor {
		case 0x01, 0x02, 0x06:
			return "headphones"
		case 0x04:
			return "microphone"
		case 0x05, 0x08, 0x0a:
			return "speaker"
		case 0x09:
			return "tv"
		}
		return "audio"
	case 0x05:
		// the low nibble carries the device kind, the high bits keyboard/pointer
		switch minor & 0x0f {
		case 0x01:
			return "joystick"
		case 0x02:
			return "gamepad"
		case 0x03:
			return "remote"
		case 0x04:
			return "sensor"
		case 0x05:
			return "tablet"
		case 0x06:
			return "reader"
		case 0x07:
			return "pen"
		case 0x08:
			return "scanner"
		}
		switch minor >> 4 {
		case 0x01, 0x03:
			return "keyboard"
		case 0x02:
			return "mouse"
		}
		return "peripheral"
	case 0x06:
		switch {
		case minor&0x20 != 0:
			return "printer"
		case minor&0x10 != 0:
			return "scanner"
		case minor&0x08 != 0:
			return "camera"
		case minor&0x04 != 0:
			return "display"
		}
		return "imaging"
	case 0x07:
		switch minor {
		case 0x01:
			return "watch"
		case 0x02:
			return "glasses"
		case 0x04:
			return "headphones"
		}
		return "wearable"
	}
	return ""
}

func appearanceType(appearance uint16) string {
	switch {
	case appearance == 0:
		return ""
	case appearance >= 1600 && appearance <= 1663:
		return "health"
	case appearance >= 1664 && appearance <= 1727:
		return "sensor"
	}
	switch appearance {
	case 64:
		return "phone"
	case 128:
		return "computer"
	case 192:
		return "watch"
	case 256:
		return "display"
	case 512:
		return "remote"
	case 640:
		return "tag"
	case 704:
		return "keyring"
	case 768:
		return "media"
	case 832, 1152:
		return "scanner"
	case 896:
		return "thermometer"
	case 960:
		return "peripheral"
	case 961:
		return "keyboard"
	case 962:
		return "mouse"
	case 963:
		return "joystick"
	case 964:
		return "gamepad"
	case 976:
		return "tablet"
	case 1024:
		return "reader"
	case 1088:
		return "pen"
	case 1216, 1344:
		return "speaker"
	case 1280:
		return "headphones"
	case 1408:
		return "microphone"
	case 1472:
		return "audio"
	}
	return ""
}

func iconHintType(icon string) string {
	switch icon {
	case "audio-card", "audio-speakers":
		return "speaker"
	case "audio-headphones", "audio-headset":
		return "headphones"
	case "input-keyboard":
		return "keyboard"
	case "input-mouse":
		return "mouse"
	case "input-gaming", "input-joystick":
		return "gamepad"
	case "phone":
		return "phone"
	case "computer":
		return "computer"
	case "computer-laptop":
		return "laptop"
	case "video-display", "tv":
		return "tv"
	}
	return icon
}
