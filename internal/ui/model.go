package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/bzmenu/internal/theme"
	uistate "github.com/atomicstack/bzmenu/internal/ui/state"
)

var styles = theme.Default()

// chrome is the number of rows used by the prompt, filter and footer.
const chrome = 3

// Model is the Bubble Tea model for a single pick.
type Model struct {
	list         *uistate.List
	width        int
	height       int
	filterCursor cursor.Model

	selected  string
	done      bool
	cancelled bool
}

// NewModel builds a picker over launcher lines.
func NewModel(lines []string, prompt string) *Model {
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	return &Model{
		list:         uistate.NewList(prompt, uistate.ItemsFromLines(lines)),
		filterCursor: c,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.filterCursor.Focus()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.Resize(m.maxVisible())
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return m, cmd
}

// Result returns the chosen line. ok is false when the user dismissed the
// picker or it has not finished.
func (m *Model) Result() (string, bool) {
	if !m.done || m.cancelled {
		return "", false
	}
	return m.selected, true
}

func (m *Model) maxVisible() int {
	if m.height <= 0 {
		return 0
	}
	if rows := m.height - chrome; rows > 0 {
		return rows
	}
	return 1
}
