package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCancelled means the user dismissed the launcher or it produced no
	// selection. It is not a failure.
	ErrCancelled = errors.New("selection cancelled")
	// ErrSpawn means the launcher process could not be started.
	ErrSpawn = errors.New("launcher failed to start")
)

// Presenter shows lines to the user and returns the chosen one.
type Presenter interface {
	Present(ctx context.Context, lines []string, prompt string) (string, error)
}

// Profile names a launcher invocation style.
type Profile string

const (
	Fuzzel Profile = "fuzzel"
	Rofi   Profile = "rofi"
	Dmenu  Profile = "dmenu"
	Walker Profile = "walker"
	TUI    Profile = "tui"
	Custom Profile = "custom"
)

// Profiles lists the accepted profile names in display order.
var Profiles = []Profile{Fuzzel, Rofi, Dmenu, Walker, TUI, Custom}

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Profiles {
		if p == known {
			return p, nil
		}
	}
	names := make([]string, len(Profiles))
	for i, known := range Profiles {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown launcher %q (want one of %s)", s, strings.Join(names, ", "))
}

// External reports whether the profile runs a separate process.
func (p Profile) External() bool {
	return p != TUI
}

// PromptText is the prompt form of a semantic prompt string.
func PromptText(prompt string) string {
	if prompt == "" {
		return ""
	}
	return prompt + ":"
}
