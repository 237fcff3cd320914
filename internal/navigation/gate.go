package navigation

import (
	"context"
	"errors"
	"sync"
)

var errPreempted = errors.New("menu closed for a pairing prompt")

// Gate keeps the menu and pairing prompts from showing at the same time.
// A prompt closes an open menu and holds it back until the prompt is
// answered. A nil Gate admits everything.
type Gate struct {
	mu      sync.Mutex
	held    bool
	prompts int
	menu    context.CancelCauseFunc
	// released is closed and replaced whenever the gate may have opened.
	released chan struct{}
}

// NewGate creates an open gate.
func NewGate() *Gate {
	return &Gate{released: make(chan struct{})}
}

// enterMenu waits until no prompt is pending and takes the gate. closeMenu
// is called with errPreempted when a prompt arrives while the menu is shown.
func (g *Gate) enterMenu(ctx context.Context, closeMenu context.CancelCauseFunc) error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	for g.held || g.prompts > 0 {
		if err := g.wait(ctx); err != nil {
			return err
		}
	}
	g.held = true
	g.menu = closeMenu
	g.mu.Unlock()
	return nil
}

// enterPrompt closes the menu if it is shown and takes the gate ahead of it.
func (g *Gate) enterPrompt(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	g.prompts++
	if g.menu != nil {
		g.menu(errPreempted)
	}
	for g.held {
		if err := g.wait(ctx); err != nil {
			g.mu.Lock()
			g.prompts--
			g.wake()
			g.mu.Unlock()
			return err
		}
	}
	g.held = true
	g.mu.Unlock()
	return nil
}

func (g *Gate) leaveMenu() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.held = false
	g.menu = nil
	g.wake()
	g.mu.Unlock()
}

func (g *Gate) leavePrompt() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.held = false
	g.prompts--
	g.wake()
	g.mu.Unlock()
}

// wait releases g.mu until the gate changes. On success g.mu is held again;
// on error it is not.
func (g *Gate) wait(ctx context.Context) error {
	released := g.released
	g.mu.Unlock()
	select {
	case <-released:
		g.mu.Lock()
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// wake must be called with g.mu held.
func (g *Gate) wake() {
	close(g.released)
	g.released = make(chan struct{})
}
