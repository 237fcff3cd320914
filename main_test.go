package main

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/atomicstack/bzmenu/internal/app"
	"github.com/atomicstack/bzmenu/internal/bluez"
	"github.com/atomicstack/bzmenu/internal/config"
	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/menu"
)

func TestProbeTerminalOnPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()
	if info := probeTerminal(int(w.Fd())); info.Terminal || info.Width != 0 {
		t.Fatalf("a pipe is not a terminal, got %+v", info)
	}
	if info := probeTerminal(-1); info.Terminal {
		t.Fatalf("invalid descriptor reported as terminal")
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Launcher:     launcher.Rofi,
			Icons:        menu.IconXDG,
			Spacing:      2,
			ScanDuration: 10 * time.Second,
			PairTimeout:  30 * time.Second,
			Pairing:      bluez.PolicyPrompt,
			Notify:       true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		File: "/home/user/.config/bzmenu/config.yaml",
		Flags: map[string]string{
			"launcher": "rofi",
			"icon":     "xdg",
			"spaces":   "2",
		},
		Args: []string{"--launcher", "rofi"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["launcher"] != "rofi" {
		t.Fatalf("expected launcher flag %q, got %v", "rofi", flagsValue["launcher"])
	}
	if flagsValue["icon"] != "xdg" {
		t.Fatalf("expected icon xdg, got %v", flagsValue["icon"])
	}
	if flagsValue["spaces"] != "2" {
		t.Fatalf("expected spaces 2, got %v", flagsValue["spaces"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}
	if payload["file"] != cfg.File {
		t.Fatalf("expected config file %q, got %v", cfg.File, payload["file"])
	}

	if payload["launcher"] != "rofi" {
		t.Fatalf("expected launcher rofi, got %v", payload["launcher"])
	}
	if _, ok := payload["terminal"]; ok {
		t.Fatalf("terminal is only probed for the tui launcher")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}

func TestStartupTracePayloadProbesPickerTerminal(t *testing.T) {
	cfg := config.Config{App: app.Config{Launcher: launcher.TUI}}
	if _, ok := startupTracePayload(cfg)["terminal"].(terminalInfo); !ok {
		t.Fatalf("expected terminal details for the tui launcher")
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("list adapters: %w", controller.ErrDaemonUnavailable), 1},
		{controller.ErrNoAdapter, 2},
		{app.ErrNoTerminal, 2},
		{fmt.Errorf("%w: fuzzel", launcher.ErrSpawn), 1},
		{errors.New("boom"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
