package navigation

import (
	"context"
	"strings"
	"sync"

	"github.com/atomicstack/bzmenu/internal/bluez"
	"github.com/atomicstack/bzmenu/internal/launcher"
	"github.com/atomicstack/bzmenu/internal/menu"
	"github.com/atomicstack/bzmenu/internal/state"
)

const pairingSummary = "Bluetooth pairing"

// Prompter answers pairing agent questions through the launcher.
type Prompter struct {
	presenter launcher.Presenter
	notifier  Notifier
	opts      menu.Options
	gate      *Gate

	// one question on screen at a time
	mu sync.Mutex
}

var _ bluez.Prompter = (*Prompter)(nil)

// NewPrompter creates a prompter that presents through presenter. When gate
// is shared with the menu Machine, a question closes the open menu first.
func NewPrompter(presenter launcher.Presenter, notifier Notifier, opts menu.Options, gate *Gate) *Prompter {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Prompter{presenter: presenter, notifier: notifier, opts: opts, gate: gate}
}

// Confirm offers Confirm and Cancel with question as the prompt.
func (p *Prompter) Confirm(ctx context.Context, question string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.gate.enterPrompt(ctx); err != nil {
		return false
	}
	defer p.gate.leavePrompt()

	entries := menu.Render(menu.Screen{Kind: menu.Confirm}, state.Snapshot{}, p.opts)
	line, err := p.presenter.Present(ctx, menu.Lines(entries), question)
	if err != nil {
		return false
	}
	entry, ok := menu.Resolve(entries, line)
	return ok && entry.Action == menu.ActionConfirm
}

// Input presents an empty list so the launcher echoes whatever is typed.
func (p *Prompter) Input(ctx context.Context, prompt string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.gate.enterPrompt(ctx); err != nil {
		return "", false
	}
	defer p.gate.leavePrompt()

	line, err := p.presenter.Present(ctx, nil, prompt)
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

// Display sends message as a notification.
func (p *Prompter) Display(message string) {
	p.notifier.Notify(pairingSummary, message)
}
