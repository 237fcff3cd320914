package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	indicator         = "▌ "
	filterPrompt      = "> "
	filterPlaceholder = "type to filter"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(render(styles.Prompt, m.clip(m.list.Title)))
	b.WriteByte('\n')
	b.WriteString(m.filterView())
	b.WriteByte('\n')

	if len(m.list.Items) == 0 {
		b.WriteString(render(styles.Empty, "no matches"))
		b.WriteByte('\n')
	} else {
		start, end := m.list.Visible()
		for i := start; i < end; i++ {
			b.WriteString(m.itemView(i))
			b.WriteByte('\n')
		}
	}

	footer := fmt.Sprintf("%d/%d", len(m.list.Items), len(m.list.Full))
	b.WriteString(render(styles.Footer, footer))
	return b.String()
}

func (m *Model) itemView(i int) string {
	label := m.clip(m.list.Items[i].Label)
	if i == m.list.Cursor {
		return render(styles.SelectedItemIndicator, indicator) + render(styles.SelectedItem, label)
	}
	return render(styles.ItemIndicator, "  ") + render(styles.Item, label)
}

func (m *Model) filterView() string {
	prompt := render(styles.FilterPrompt, filterPrompt)
	if m.list.Filter() == "" {
		m.filterCursor.SetChar(" ")
		return prompt + m.filterCursor.View() + render(styles.FilterPlaceholder, filterPlaceholder)
	}
	before, under, after := m.list.Query.Split()
	if under == "" {
		under = " "
	}
	m.filterCursor.SetChar(under)
	return prompt + render(styles.Filter, before) + m.filterCursor.View() + render(styles.Filter, after)
}

func (m *Model) clip(s string) string {
	if m.width <= lipgloss.Width(indicator) {
		return s
	}
	return truncate.StringWithTail(s, uint(m.width-lipgloss.Width(indicator)), "…")
}

func render(style *lipgloss.Style, s string) string {
	if style == nil {
		return s
	}
	return style.Render(s)
}
