package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/logging/events"
)

// Picker presents lines in the terminal. It satisfies launcher.Presenter.
type Picker struct {
	// Input defaults to the controlling terminal.
	Input io.Reader
	// Output defaults to stderr so stdout stays clean for scripts.
	Output io.Writer
}

var _ launcher.Presenter = (*Picker)(nil)

// Present runs one pick. Escape, ctrl+c, an empty list and a cancelled ctx
// all report launcher.ErrCancelled.
func (p *Picker) Present(ctx context.Context, lines []string, prompt string) (string, error) {
	model := NewModel(lines, prompt)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if p.Input != nil {
		opts = append(opts, tea.WithInput(p.Input))
	} else {
		opts = append(opts, tea.WithInputTTY())
	}
	var out io.Writer = os.Stderr
	if p.Output != nil {
		out = p.Output
	}
	opts = append(opts, tea.WithOutput(out))

	events.Launcher.Spawn([]string{string(launcher.TUI)}, len(lines))
	_, err := tea.NewProgram(model, opts...).Run()
	if ctx.Err() != nil {
		events.Launcher.Cancelled("context done")
		return "", fmt.Errorf("%w: %w", launcher.ErrCancelled, context.Cause(ctx))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", launcher.ErrSpawn, err)
	}
	line, ok := model.Result()
	if !ok {
		events.Launcher.Cancelled("no selection")
		return "", launcher.ErrCancelled
	}
	events.Launcher.Selection(line)
	return line, nil
}
