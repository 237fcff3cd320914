package menu

import (
	"fmt"
	"strings"
)

// IconMode selects how icons are encoded into launcher lines.
type IconMode string

const (
	IconFont IconMode = "font"
	IconXDG  IconMode = "xdg"
)

// ParseIconMode validates an icon mode name.
func ParseIconMode(s string) (IconMode, error) {
	switch m := IconMode(strings.ToLower(strings.TrimSpace(s))); m {
	case IconFont, IconXDG:
		return m, nil
	}
	return "", fmt.Errorf("unknown icon mode %q (want font or xdg)", s)
}

// Nerd Font glyphs.
var fontIcons = map[string]rune{
	"bluetooth":    '\uf293',
	"connected":    '\uf294',
	"disconnected": '\uf295',
	"connect":      '\U000f0337',
	"disconnect":   '\U000f0338',
	"scan":         '\uf46a',
	"scan_stop":    '\U000f04db',
	"power_on":     '\U000f0425',
	"power_off":    '\U000f00b2',
	"pair":         '\U000f119f',
	"trust":        '\U000f0cc8',
	"revoke_trust": '\U000f099c',
	"forget":       '\U000f0377',
	"back":         '\U000f004d',
	"exit":         '\U000f0a48',
	"ok":           '\U000f05e1',
	"cancel":       '\U000f0156',
	"error":        '\U000f05d6',
	"device":       '\U000f0fb0',
	"phone":        '\U000f011c',
	"headphones":   '\U000f02cb',
	"keyboard":     '\U000f030c',
	"mouse":        '\U000f037d',
	"speaker":      '\U000f04c3',
	"gamepad":      '\U000f0eb5',
	"computer":     '\U000f0aab',
	"laptop":       '\U000f0322',
	"tablet":       '\U000f04f7',
	"watch":        '\U000f0897',
	"tv":           '\U000f0379',
	"battery_100":  '\U000f0079',
	"battery_90":   '\U000f0082',
	"battery_80":   '\U000f0081',
	"battery_70":   '\U000f0080',
	"battery_60":   '\U000f007f',
	"battery_50":   '\U000f007e',
	"battery_40":   '\U000f007d',
	"battery_30":   '\U000f007c',
	"battery_20":   '\U000f007b',
	"battery_10":   '\U000f007a',
}

// XDG icon names, most specific first. Launchers that understand the list
// pick the first one the theme provides.
var xdgIcons = map[string]string{
	"bluetooth":    "bluetooth-symbolic,network-bluetooth-symbolic,bluetooth",
	"connected":    "bluetooth-active-symbolic,network-bluetooth-activated-symbolic,bluetooth-active",
	"disconnected": "bluetooth-disabled-symbolic,network-bluetooth-inactive-symbolic,bluetooth-disabled",
	"connect":      "entries-linked-symbolic,network-connect-symbolic,link-symbolic",
	"disconnect":   "entries-unlinked-symbolic,network-disconnect-symbolic,media-eject-symbolic",
	"scan":         "sync-synchronizing-symbolic,emblem-synchronizing-symbolic,view-refresh-symbolic",
	"scan_stop":    "bluetooth-acquiring-symbolic",
	"power_on":     "bluetooth-symbolic",
	"power_off":    "bluetooth-disabled-symbolic,network-bluetooth-inactive-symbolic",
	"pair":         "emblem-checked-symbolic",
	"trust":        "emblem-default-symbolic",
	"revoke_trust": "action-unavailable-symbolic",
	"forget":       "list-remove-symbolic",
	"back":         "go-previous-symbolic",
	"exit":         "application-exit-symbolic,system-log-out-symbolic",
	"ok":           "emblem-default-symbolic",
	"cancel":       "process-stop-symbolic,window-close-symbolic",
	"error":        "dialog-error-symbolic",
	"device":       "drive-harddisk-symbolic",
	"phone":        "phone-symbolic,drive-harddisk-symbolic",
	"headphones":   "audio-headphones-symbolic,drive-harddisk-symbolic",
	"keyboard":     "input-keyboard-symbolic,drive-harddisk-symbolic",
	"mouse":        "input-mouse-symbolic,drive-harddisk-symbolic",
	"speaker":      "audio-speakers-symbolic,drive-harddisk-symbolic",
	"gamepad":      "input-gaming-symbolic,input-gamepad-symbolic,drive-harddisk-symbolic",
	"computer":     "computer-symbolic,drive-harddisk-symbolic",
	"laptop":       "laptop-symbolic,computer-laptop-symbolic,computer-symbolic,drive-harddisk-symbolic",
	"tablet":       "tablet-symbolic,drive-harddisk-symbolic",
	"watch":        "smartwatch-symbolic,drive-harddisk-symbolic",
	"tv":           "video-display-symbolic,preferences-desktop-display-randr-symbolic,drive-harddisk-symbolic",
}

const (
	connectedMark = '⏺'
	trustedMark   = '✓'
)

func fontIcon(key string) string {
	if r, ok := fontIcons[key]; ok {
		return string(r)
	}
	return ""
}

// batteryIcon buckets a percentage into the nearest ten.
func batteryIcon(percent uint8) string {
	switch {
	case percent > 100:
		return ""
	case percent > 90:
		return fontIcon("battery_100")
	case percent <= 10:
		return fontIcon("battery_10")
	}
	bucket := (int(percent) + 9) / 10 * 10
	return fontIcon(fmt.Sprintf("battery_%d", bucket))
}

// iconKeyForType maps a device type onto the icon tables.
func iconKeyForType(deviceType string) string {
	switch deviceType {
	case "phone", "smartphone":
		return "phone"
	case "audio", "headset", "headphones":
		return "headphones"
	case "keyboard":
		return "keyboard"
	case "mouse", "pointing", "trackball":
		return "mouse"
	case "speaker":
		return "speaker"
	case "gamepad", "joystick":
		return "gamepad"
	case "computer", "desktop":
		return "computer"
	case "laptop":
		return "laptop"
	case "tablet":
		return "tablet"
	case "watch", "wearable":
		return "watch"
	case "tv", "television", "display":
		return "tv"
	}
	return "device"
}

// formatLine encodes an entry for the launcher. Font mode prefixes the
// glyph, xdg mode appends the rofi icon metadata after a NUL.
func formatLine(label, icon string, mode IconMode, spacing int) (text, line string) {
	switch mode {
	case IconXDG:
		names := xdgIcons[icon]
		if names == "" {
			return label, label
		}
		return label, label + "\x00icon\x1f" + names
	default:
		glyph := fontIcon(icon)
		if glyph == "" {
			return label, label
		}
		text = glyph + strings.Repeat(" ", spacing) + label
		return text, text
	}
}
