package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomicstack/bzmenu/internal/app"
	"github.com/atomicstack/bzmenu/internal/config"
	"github.com/atomicstack/bzmenu/internal/controller"
	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/logging"
	"github.com/atomicstack/bzmenu/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, runtimeCfg.App)
	stop()
	events.App.Stop(stopReason(err))
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func stopReason(err error) string {
	if err == nil {
		return "exit"
	}
	return err.Error()
}

// exitCode maps a fatal error onto the process status: 2 for problems the
// user can fix in their setup, 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, app.ErrNoTerminal) || errors.Is(err, controller.ErrNoAdapter) {
		return 2
	}
	return 1
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload records what a run was started with.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"file":     cfg.File,
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"launcher": string(cfg.App.Launcher),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cfg.App.Launcher == launcher.TUI {
		payload["terminal"] = probeTerminal(int(os.Stderr.Fd()))
	}
	return payload
}

// terminalInfo describes the terminal the built-in picker draws on.
type terminalInfo struct {
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

func probeTerminal(fd int) terminalInfo {
	if fd < 0 || !term.IsTerminal(fd) {
		return terminalInfo{}
	}
	width, height, err := term.GetSize(fd)
	if err != nil {
		return terminalInfo{Terminal: true, Error: err.Error()}
	}
	return terminalInfo{Terminal: true, Width: width, Height: height}
}
