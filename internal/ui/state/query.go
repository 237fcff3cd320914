package state

import "unicode"

// Query is editable filter text. The edit position counts runes.
type Query struct {
	text []rune
	pos  int
}

func (q Query) String() string {
	return string(q.text)
}

// Pos is the rune offset of the edit position.
func (q Query) Pos() int {
	return q.pos
}

// Split returns the text before the edit position, the rune under it and
// the rest. under is empty at the end of the text.
func (q Query) Split() (before, under, after string) {
	before = string(q.text[:q.pos])
	if q.pos < len(q.text) {
		under = string(q.text[q.pos])
		after = string(q.text[q.pos+1:])
	}
	return before, under, after
}

// Insert types s at the edit position.
func (q *Query) Insert(s string) bool {
	add := []rune(s)
	if len(add) == 0 {
		return false
	}
	text := make([]rune, 0, len(q.text)+len(add))
	text = append(text, q.text[:q.pos]...)
	text = append(text, add...)
	q.text = append(text, q.text[q.pos:]...)
	q.pos += len(add)
	return true
}

// Backspace removes the rune before the edit position.
func (q *Query) Backspace() bool {
	return q.cut(q.pos - 1)
}

// DeleteWord removes the word before the edit position along with any
// spaces between it and the position.
func (q *Query) DeleteWord() bool {
	from := q.pos
	for from > 0 && unicode.IsSpace(q.text[from-1]) {
		from--
	}
	for from > 0 && !unicode.IsSpace(q.text[from-1]) {
		from--
	}
	return q.cut(from)
}

// Clear empties the query.
func (q *Query) Clear() bool {
	if len(q.text) == 0 {
		return false
	}
	*q = Query{}
	return true
}

// Home moves the edit position to the start.
func (q *Query) Home() bool { return q.seek(0) }

// End moves the edit position past the last rune.
func (q *Query) End() bool { return q.seek(len(q.text)) }

// Left moves the edit position one rune back.
func (q *Query) Left() bool { return q.seek(q.pos - 1) }

// Right moves the edit position one rune forward.
func (q *Query) Right() bool { return q.seek(q.pos + 1) }

// cut removes text[from:pos].
func (q *Query) cut(from int) bool {
	if from < 0 || from >= q.pos {
		return false
	}
	q.text = append(q.text[:from:from], q.text[q.pos:]...)
	q.pos = from
	return true
}

func (q *Query) seek(pos int) bool {
	pos = clamp(pos, 0, len(q.text))
	if pos == q.pos {
		return false
	}
	q.pos = pos
	return true
}
