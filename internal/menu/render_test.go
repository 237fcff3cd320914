package menu

import (
	"reflect"
	"strings"
	"testing"

	"github.com/atomicstack/bzmenu/internal/state"
)

func keys(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func snapshot(powered, discovering bool, devices ...state.Device) state.Snapshot {
	return state.Snapshot{
		Adapter:    state.Adapter{Path: "/org/bluez/hci0", Powered: powered, Discovering: discovering},
		HasAdapter: true,
		Devices:    devices,
	}
}

var fontOpts = Options{Icons: IconFont, Spacing: 1}

func TestMainUnpoweredOffersPowerOnAndExit(t *testing.T) {
	got := keys(Render(Screen{Kind: Main}, snapshot(false, false), fontOpts))
	want := []string{"power:on", "exit"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestMainPoweredOffersFullSet(t *testing.T) {
	got := keys(Render(Screen{Kind: Main}, snapshot(true, false), fontOpts))
	want := []string{"power:off", "scan", "devices", "exit"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestRenderIsPure(t *testing.T) {
	battery := uint8(55)
	snap := snapshot(true, true,
		state.Device{ID: "AA", Name: "Headset", Connected: true, Battery: &battery},
		state.Device{ID: "BB", Alias: "Mouse", Class: 0x002580},
	)
	screens := []Screen{
		{Kind: Main},
		{Kind: DeviceList},
		{Kind: DeviceActions, DeviceID: "AA"},
		{Kind: Confirm, DeviceID: "BB", Pending: ActionRemove},
		{Kind: DeviceList, Notice: "connect AA: operation rejected"},
	}
	for _, opts := range []Options{fontOpts, {Icons: IconXDG}} {
		for _, screen := range screens {
			first := Render(screen, snap, opts)
			second := Render(screen, snap, opts)
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("render of %v not deterministic", screen.Kind)
			}
		}
	}
}

func TestDeviceListIncludesDevicesInOrder(t *testing.T) {
	snap := snapshot(true, true,
		state.Device{ID: "BB", Name: "Speaker"},
		state.Device{ID: "AA:BB:CC", Name: "Headset"},
	)
	entries := Render(Screen{Kind: DeviceList}, snap, fontOpts)
	got := keys(entries)
	want := []string{"scan:stop", "device:BB", "device:AA:BB:CC", "back"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if entries[2].Label != "Headset" || entries[2].DeviceID != "AA:BB:CC" {
		t.Fatalf("unexpected headset entry %+v", entries[2])
	}
}

func TestDeviceListDisambiguatesDuplicateNames(t *testing.T) {
	snap := snapshot(true, false,
		state.Device{ID: "AA", Name: "Buds"},
		state.Device{ID: "BB", Name: "Buds"},
	)
	entries := Render(Screen{Kind: DeviceList}, snap, fontOpts)
	if entries[1].Label != "Buds (AA)" || entries[2].Label != "Buds (BB)" {
		t.Fatalf("expected disambiguated labels, got %q %q", entries[1].Label, entries[2].Label)
	}
}

func TestDeviceNamesNeverShadowFixedEntries(t *testing.T) {
	snap := snapshot(true, true,
		state.Device{ID: "AA:BB:CC:DD:EE:FF", Name: "Back"},
		state.Device{ID: "11:22:33:44:55:66", Name: "Stop Scan"},
	)
	for _, opts := range []Options{fontOpts, {Icons: IconXDG}} {
		entries := Render(Screen{Kind: DeviceList}, snap, opts)
		if entries[1].Label != "Back (AA:BB:CC:DD:EE:FF)" {
			t.Fatalf("expected suffixed label, got %q", entries[1].Label)
		}
		if entries[2].Label != "Stop Scan (11:22:33:44:55:66)" {
			t.Fatalf("expected suffixed label, got %q", entries[2].Label)
		}
		back := entries[len(entries)-1]
		if e, ok := Resolve(entries, back.Line); !ok || e.Action != ActionBack {
			t.Fatalf("back line resolved to %+v %t", e, ok)
		}
		if e, ok := Resolve(entries, LabelBack); !ok || e.Action != ActionBack {
			t.Fatalf("bare back label resolved to %+v %t", e, ok)
		}
		if e, ok := Resolve(entries, entries[0].Line); !ok || e.Action != ActionStopScan {
			t.Fatalf("stop scan line resolved to %+v %t", e, ok)
		}
		if e, ok := Resolve(entries, entries[1].Line); !ok || e.DeviceID != "AA:BB:CC:DD:EE:FF" {
			t.Fatalf("device line resolved to %+v %t", e, ok)
		}
	}
}

func TestDeviceNameMatchingNoticeIsSuffixed(t *testing.T) {
	snap := snapshot(true, false, state.Device{ID: "AA", Name: "Headset"})
	entries := Render(Screen{Kind: DeviceList, Notice: "Headset"}, snap, Options{Icons: IconXDG})
	if entries[0].Action != ActionDismiss || entries[2].Label != "Headset (AA)" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestDeviceLabelIndicators(t *testing.T) {
	battery := uint8(80)
	d := state.Device{ID: "AA", Name: "Headset", Connected: true, Trusted: true, Battery: &battery}
	if got := deviceColumns(d, IconXDG); !reflect.DeepEqual(got, []string{"Headset", "[80%]", "⏺ ✓"}) {
		t.Fatalf("unexpected xdg columns %q", got)
	}
	font := deviceColumns(d, IconFont)
	if font[0] != "Headset" || !strings.HasPrefix(font[1], "[") || font[1] == "[80%]" || font[2] != "⏺ ✓" {
		t.Fatalf("unexpected font columns %q", font)
	}
}

func TestDeviceListAlignsIndicators(t *testing.T) {
	battery := uint8(80)
	snap := snapshot(true, false,
		state.Device{ID: "AA", Name: "Headset", Connected: true, Battery: &battery},
		state.Device{ID: "BB", Name: "Mouse", Trusted: true},
	)
	entries := Render(Screen{Kind: DeviceList}, snap, Options{Icons: IconXDG})
	if entries[1].Label != "Headset  [80%]  ⏺" || entries[2].Label != "Mouse           ✓" {
		t.Fatalf("unexpected aligned labels %q %q", entries[1].Label, entries[2].Label)
	}
}

func TestDeviceActionsDerivedFromFlags(t *testing.T) {
	cases := []struct {
		device state.Device
		want   []string
	}{
		{state.Device{ID: "AA"}, []string{"pair", "connect", "trust", "remove", "back"}},
		{state.Device{ID: "AA", Paired: true}, []string{"connect", "trust", "remove", "back"}},
		{state.Device{ID: "AA", Paired: true, Connected: true, Trusted: true}, []string{"disconnect", "untrust", "remove", "back"}},
	}
	for i, tc := range cases {
		got := keys(Render(Screen{Kind: DeviceActions, DeviceID: "AA"}, snapshot(true, false, tc.device), fontOpts))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestDeviceActionsForVanishedDevice(t *testing.T) {
	got := keys(Render(Screen{Kind: DeviceActions, DeviceID: "ZZ"}, snapshot(true, false), fontOpts))
	if !reflect.DeepEqual(got, []string{"back"}) {
		t.Fatalf("got %v", got)
	}
}

func TestNoticeComesFirst(t *testing.T) {
	entries := Render(Screen{Kind: Main, Notice: "power: operation rejected"}, snapshot(false, false), fontOpts)
	if entries[0].Key != "notice" || entries[0].Action != ActionDismiss {
		t.Fatalf("expected notice first, got %+v", entries[0])
	}
}

func TestFontAndXDGLines(t *testing.T) {
	font := Render(Screen{Kind: Main}, snapshot(false, false), Options{Icons: IconFont, Spacing: 3})
	if !strings.HasSuffix(font[0].Line, "   "+LabelPowerOn) || font[0].Text != font[0].Line {
		t.Fatalf("unexpected font line %q", font[0].Line)
	}
	xdg := Render(Screen{Kind: Main}, snapshot(false, false), Options{Icons: IconXDG})
	if xdg[0].Text != LabelPowerOn || xdg[0].Line != LabelPowerOn+"\x00icon\x1fbluetooth-symbolic" {
		t.Fatalf("unexpected xdg line %q", xdg[0].Line)
	}
}

func TestResolve(t *testing.T) {
	entries := Render(Screen{Kind: Main}, snapshot(true, false), fontOpts)
	scan := entries[1]

	if e, ok := Resolve(entries, scan.Text+"\n"); !ok || e.Action != ActionScan {
		t.Fatalf("expected scan, got %+v %t", e, ok)
	}
	if e, ok := Resolve(entries, LabelScan); !ok || e.Action != ActionScan {
		t.Fatalf("bare label should resolve, got %+v %t", e, ok)
	}
	if _, ok := Resolve(entries, "Headset"); ok {
		t.Fatalf("stale line must not resolve")
	}
	if _, ok := Resolve(entries, "  "); ok {
		t.Fatalf("blank line must not resolve")
	}

	xdg := Render(Screen{Kind: Main}, snapshot(true, false), Options{Icons: IconXDG})
	if e, ok := Resolve(xdg, xdg[3].Line); !ok || e.Action != ActionExit {
		t.Fatalf("expected exit from xdg line, got %+v %t", e, ok)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	snap := snapshot(true, false, state.Device{ID: "AA", Name: "Headset", Paired: true})
	screen := Screen{Kind: DeviceActions, DeviceID: "AA"}
	line := Render(screen, snap, fontOpts)[0].Text
	first, ok1 := Resolve(Render(screen, snap, fontOpts), line)
	second, ok2 := Resolve(Render(screen, snap, fontOpts), line)
	if !ok1 || !ok2 || first != second || first.Action != ActionConnect {
		t.Fatalf("expected identical connect resolutions, got %+v %+v", first, second)
	}
}

func TestPrompt(t *testing.T) {
	snap := snapshot(true, false, state.Device{ID: "AA", Name: "Headset"})
	cases := map[Screen]string{
		{Kind: Main}:                          "Bluetooth",
		{Kind: DeviceList}:                    "Devices",
		{Kind: DeviceActions, DeviceID: "AA"}: "Headset",
		{Kind: Confirm, DeviceID: "AA"}:       "Forget Headset?",
	}
	for screen, want := range cases {
		if got := Prompt(screen, snap); got != want {
			t.Fatalf("%v: got %q want %q", screen.Kind, got, want)
		}
	}
}
