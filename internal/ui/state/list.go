package state

import "strings"

// Item is one pickable line. Line is returned to the caller verbatim;
// Label is what is shown and matched.
type Item struct {
	Line  string
	Label string
}

// ItemsFromLines builds items from launcher lines, dropping any icon
// payload after a NUL from the label.
func ItemsFromLines(lines []string) []Item {
	items := make([]Item, len(lines))
	for i, line := range lines {
		label, _, _ := strings.Cut(line, "\x00")
		items[i] = Item{Line: line, Label: label}
	}
	return items
}

// List is the picker state. Items is the part of Full that matches Query.
// Rows is the number of item rows on screen; zero means unbounded.
type List struct {
	Title  string
	Full   []Item
	Items  []Item
	Query  Query
	Cursor int
	Offset int
	Rows   int
}

// NewList constructs a list over items with the cursor on the first one.
func NewList(title string, items []Item) *List {
	full := append([]Item(nil), items...)
	return &List{Title: title, Full: full, Items: full}
}

// Filter is the current query text.
func (l *List) Filter() string {
	return l.Query.String()
}

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Resize sets the number of visible rows and keeps the cursor in view.
func (l *List) Resize(rows int) {
	l.Rows = max(rows, 0)
	l.scroll()
}

// Move shifts the cursor by delta, stopping at either end.
func (l *List) Move(delta int) bool {
	return l.moveTo(l.Cursor + delta)
}

// Page moves the cursor a screenful up (dir < 0) or down.
func (l *List) Page(dir int) bool {
	page := l.Rows
	if page <= 0 {
		page = len(l.Items)
	}
	if dir < 0 {
		page = -page
	}
	return l.Move(page)
}

// First moves the cursor to the top.
func (l *List) First() bool {
	return l.moveTo(0)
}

// Last moves the cursor to the bottom.
func (l *List) Last() bool {
	return l.moveTo(len(l.Items) - 1)
}

// Visible returns the half-open range of Items on screen.
func (l *List) Visible() (start, end int) {
	n := len(l.Items)
	if l.Rows <= 0 || n <= l.Rows {
		return 0, n
	}
	return l.Offset, l.Offset + l.Rows
}

// Edit applies op to the query. When the text changes the items are
// filtered again and the cursor lands on the best match. It reports
// whether the text changed.
func (l *List) Edit(op func(*Query) bool) bool {
	before := l.Query.String()
	if !op(&l.Query) || l.Query.String() == before {
		return false
	}
	l.Items = Match(l.Full, l.Query.String())
	l.Cursor = BestMatch(l.Items, l.Query.String())
	l.Offset = 0
	l.scroll()
	return true
}

func (l *List) moveTo(i int) bool {
	if len(l.Items) == 0 {
		return false
	}
	i = clamp(i, 0, len(l.Items)-1)
	if i == l.Cursor {
		return false
	}
	l.Cursor = i
	l.scroll()
	return true
}

// scroll keeps Cursor inside the item range and Offset so that the cursor
// row is on screen.
func (l *List) scroll() {
	n := len(l.Items)
	l.Cursor = clamp(l.Cursor, 0, max(n-1, 0))
	if l.Rows <= 0 || n <= l.Rows {
		l.Offset = 0
		return
	}
	l.Offset = clamp(l.Offset, l.Cursor-l.Rows+1, l.Cursor)
	l.Offset = clamp(l.Offset, 0, n-l.Rows)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
