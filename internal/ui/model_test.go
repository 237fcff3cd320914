package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestEnterReturnsFullLine(t *testing.T) {
	lines := []string{"Power Off\x00icon\x1fbluetooth", "Devices\x00icon\x1fbluetooth", "Exit"}
	m := NewModel(lines, "Bluetooth")
	cmd := send(m, key(tea.KeyDown), key(tea.KeyEnter))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	got, ok := m.Result()
	if !ok || got != lines[1] {
		t.Fatalf("expected %q, got %q (ok=%v)", lines[1], got, ok)
	}
}

func TestEscapeCancels(t *testing.T) {
	m := NewModel([]string{"a", "b"}, "")
	send(m, key(tea.KeyEsc))
	if _, ok := m.Result(); ok {
		t.Fatalf("expected no result after escape")
	}
}

func TestFilterNarrowsAndSelects(t *testing.T) {
	m := NewModel([]string{"Power Off", "Scan for Devices", "Devices", "Exit"}, "Bluetooth")
	send(m, runes("exi"))
	if m.list.Filter() != "exi" {
		t.Fatalf("expected filter exi, got %q", m.list.Filter())
	}
	send(m, key(tea.KeyEnter))
	got, ok := m.Result()
	if !ok || got != "Exit" {
		t.Fatalf("expected Exit, got %q (ok=%v)", got, ok)
	}
}

func TestEnterWithNoMatchesDoesNothing(t *testing.T) {
	m := NewModel([]string{"alpha"}, "")
	cmd := send(m, runes("zzz"), key(tea.KeyEnter))
	if cmd != nil {
		t.Fatalf("expected no command when nothing matches")
	}
	if _, ok := m.Result(); ok {
		t.Fatalf("expected no result")
	}
}

func TestBackspaceAndClearFilter(t *testing.T) {
	m := NewModel([]string{"alpha", "beta"}, "")
	send(m, runes("bet"), key(tea.KeyBackspace))
	if m.list.Filter() != "be" {
		t.Fatalf("expected be, got %q", m.list.Filter())
	}
	send(m, key(tea.KeyCtrlU))
	if m.list.Filter() != "" || len(m.list.Items) != 2 {
		t.Fatalf("expected cleared filter, got %q with %d items", m.list.Filter(), len(m.list.Items))
	}
}

func TestViewShowsPromptAndLabels(t *testing.T) {
	m := NewModel([]string{"Pair\x00icon\x1flink", "Back"}, "Headphones")
	send(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	view := m.View()
	for _, want := range []string{"Headphones", "Pair", "Back", "2/2"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
	if strings.Contains(view, "\x00") {
		t.Fatalf("icon payload leaked into view")
	}
}

func TestViewportFollowsCursor(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "e", "f"}
	m := NewModel(lines, "")
	send(m, tea.WindowSizeMsg{Width: 20, Height: chrome + 2})
	send(m, key(tea.KeyEnd))
	start, end := m.list.Visible()
	if m.list.Cursor != 5 || start != 4 || end != 6 {
		t.Fatalf("cursor %d outside viewport [%d,%d)", m.list.Cursor, start, end)
	}
	send(m, key(tea.KeyPgUp))
	if start, _ := m.list.Visible(); m.list.Cursor != 3 || start != 3 {
		t.Fatalf("page up left cursor %d at offset %d", m.list.Cursor, start)
	}
}

func TestEnterWithoutItemsReturnsTypedText(t *testing.T) {
	m := NewModel(nil, "PIN for Keyboard")
	send(m, runes("0000"), key(tea.KeyEnter))
	got, ok := m.Result()
	if !ok || got != "0000" {
		t.Fatalf("expected typed text, got %q (ok=%v)", got, ok)
	}
}
