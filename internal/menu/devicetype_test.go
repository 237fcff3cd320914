package menu

import (
	"testing"

	"github.com/atomicstack/bzmenu/internal/state"
)

func TestDeviceType(t *testing.T) {
	cases := []struct {
		name   string
		device state.Device
		want   string
	}{
		{"headphones class", state.Device{Class: 0x240418}, "headphones"},
		{"smartphone class", state.Device{Class: 0x5a020c}, "phone"},
		{"keyboard class", state.Device{Class: 0x002540}, "keyboard"},
		{"mouse class", state.Device{Class: 0x002580}, "mouse"},
		{"gamepad class", state.Device{Class: 0x002508}, "gamepad"},
		{"laptop class", state.Device{Class: 0x02010c}, "computer"},
		{"appearance mouse", state.Device{Appearance: 962}, "mouse"},
		{"appearance sensor", state.Device{Appearance: 1700}, "sensor"},
		{"icon hint", state.Device{Icon: "audio-headset"}, "headphones"},
		{"unknown icon hint", state.Device{Icon: "camera-photo"}, "camera-photo"},
		{"nothing known", state.Device{}, "device"},
	}
	for _, tc := range cases {
		if got := DeviceType(tc.device); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestIconKeyForType(t *testing.T) {
	if iconKeyForType("headphones") != "headphones" || iconKeyForType("joystick") != "gamepad" {
		t.Fatalf("unexpected icon mapping")
	}
	if iconKeyForType("thermometer") != "device" {
		t.Fatalf("unknown types fall back to device")
	}
}

func TestBatteryIconBuckets(t *testing.T) {
	if batteryIcon(100) != fontIcon("battery_100") || batteryIcon(85) != fontIcon("battery_90") || batteryIcon(5) != fontIcon("battery_10") {
		t.Fatalf("unexpected battery buckets")
	}
	if batteryIcon(101) != "" {
		t.Fatalf("out of range percentage must not produce an icon")
	}
}

func TestParseIconMode(t *testing.T) {
	if m, err := ParseIconMode("XDG"); err != nil || m != IconXDG {
		t.Fatalf("unexpected %q %v", m, err)
	}
	if _, err := ParseIconMode("emoji"); err == nil {
		t.Fatalf("expected error")
	}
}
