package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/bzmenu/internal/logging/events"
	uistate "github.com/atomicstack/bzmenu/internal/ui/state"
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	l := m.list
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.done = true
		m.cancelled = true
		return tea.Quit
	case tea.KeyEnter:
		item, ok := l.Current()
		if !ok {
			// with nothing to pick the typed text is the answer
			if len(l.Full) > 0 || l.Filter() == "" {
				return nil
			}
			item.Line = l.Filter()
		}
		m.selected = item.Line
		m.done = true
		return tea.Quit
	case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
		m.moved(l.Move(-1))
	case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
		m.moved(l.Move(1))
	case tea.KeyPgUp:
		m.moved(l.Page(-1))
	case tea.KeyPgDown:
		m.moved(l.Page(1))
	case tea.KeyHome:
		m.moved(l.First())
	case tea.KeyEnd:
		m.moved(l.Last())
	case tea.KeyBackspace:
		m.edit((*uistate.Query).Backspace)
	case tea.KeyCtrlW:
		m.edit((*uistate.Query).DeleteWord)
	case tea.KeyCtrlU:
		m.edit((*uistate.Query).Clear)
	case tea.KeyCtrlA:
		m.edit((*uistate.Query).Home)
	case tea.KeyCtrlE:
		m.edit((*uistate.Query).End)
	case tea.KeyLeft:
		m.edit((*uistate.Query).Left)
	case tea.KeyRight:
		m.edit((*uistate.Query).Right)
	case tea.KeySpace:
		m.insert(" ")
	case tea.KeyRunes:
		m.insert(string(msg.Runes))
	}
	return nil
}

func (m *Model) moved(changed bool) {
	if changed {
		events.Picker.Cursor(m.list.Cursor)
	}
}

func (m *Model) insert(s string) {
	m.edit(func(q *uistate.Query) bool { return q.Insert(s) })
}

func (m *Model) edit(op func(*uistate.Query) bool) {
	if m.list.Edit(op) {
		events.Picker.Filter(m.list.Filter(), len(m.list.Items))
	}
}
