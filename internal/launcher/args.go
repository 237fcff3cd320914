package launcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"

	"github.com/atomicstack/bzmenu/internal/menu"
)

// Command builds the argv for one presentation. prompt is the semantic
// string; {prompt} receives it with a trailing colon, {placeholder} as is.
func Command(profile Profile, template string, icons menu.IconMode, prompt string) ([]string, error) {
	promptText := PromptText(prompt)
	placeholder := prompt
	switch profile {
	case Fuzzel:
		argv := []string{"fuzzel", "-d"}
		if icons == menu.IconFont {
			argv = append(argv, "-I")
		}
		if placeholder != "" {
			argv = append(argv, "--placeholder", placeholder)
		}
		return argv, nil
	case Rofi:
		argv := []string{"rofi", "-m", "-1", "-dmenu"}
		if icons == menu.IconXDG {
			argv = append(argv, "-show-icons")
		}
		if placeholder != "" {
			argv = append(argv, "-theme-str", fmt.Sprintf("entry { placeholder: %q; }", placeholder))
		}
		return argv, nil
	case Dmenu:
		argv := []string{"dmenu"}
		if promptText != "" {
			argv = append(argv, "-p", promptText)
		}
		return argv, nil
	case Walker:
		argv := []string{"walker", "-d", "-k"}
		if placeholder != "" {
			argv = append(argv, "-p", placeholder)
		}
		return argv, nil
	case Custom:
		return expandTemplate(template, promptText, placeholder)
	case TUI:
		return nil, errors.New("tui launcher runs in-process")
	}
	return nil, fmt.Errorf("unknown launcher %q", profile)
}

// SplitTemplate checks that a custom template parses into at least a
// program name.
func SplitTemplate(template string) ([]string, error) {
	words, err := shlex.Split(template)
	if err != nil {
		return nil, fmt.Errorf("parse launcher command: %w", err)
	}
	if len(words) == 0 {
		return nil, errors.New("launcher command is empty")
	}
	return words, nil
}

// expandTemplate splits first and substitutes per word so a prompt with
// spaces or quotes stays a single argument.
func expandTemplate(template, prompt, placeholder string) ([]string, error) {
	words, err := SplitTemplate(template)
	if err != nil {
		return nil, err
	}
	replacer := strings.NewReplacer("{prompt}", prompt, "{placeholder}", placeholder)
	argv := make([]string, len(words))
	for i, w := range words {
		argv[i] = replacer.Replace(w)
	}
	return argv, nil
}
