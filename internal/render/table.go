package render

import (
	"strings"
	"unicode/utf8"
)

// table accumulates the box-drawing report line by line.
type table struct {
	cs charset
	b  strings.Builder
}

func newTable(cs charset) *table {
	return &table{cs: cs}
}

func (t *table) String() string { return t.b.String() }

func (t *table) top() {
	t.b.WriteString(t.cs.topLeft)
	t.b.WriteString(strings.Repeat(t.cs.horizontal, lineWidth-2))
	t.b.WriteString(t.cs.topRight)
	t.b.WriteString("\n")
}

func (t *table) divider() {
	t.b.WriteString(t.cs.leftTee)
	t.b.WriteString(strings.Repeat(t.cs.horizontal, lineWidth-2))
	t.b.WriteString(t.cs.rightTee)
	t.b.WriteString("\n")
}

func (t *table) bottom() {
	t.b.WriteString(t.cs.bottomLeft)
	t.b.WriteString(strings.Repeat(t.cs.horizontal, lineWidth-2))
	t.b.WriteString(t.cs.bottomRight)
	t.b.WriteString("\n")
}

// centered writes a full-width cell with the text centered.
func (t *table) centered(text string) {
	t.centeredStyled(text, "", "")
}

// centeredStyled centers text and wraps it in the given ANSI escape pair.
// Padding is computed on the raw text so the escapes never skew widths.
func (t *table) centeredStyled(text, prefix, suffix string) {
	inner := lineWidth - 2
	text = t.truncate(text, inner)

	width := utf8.RuneCountInString(text)
	left := (inner - width) / 2
	right := inner - width - left

	t.b.WriteString(t.cs.vertical)
	t.b.WriteString(strings.Repeat(" ", left))
	t.b.WriteString(prefix)
	t.b.WriteString(text)
	t.b.WriteString(suffix)
	t.b.WriteString(strings.Repeat(" ", right))
	t.b.WriteString(t.cs.vertical)
	t.b.WriteString("\n")
}

// row writes one label/data pair.
func (t *table) row(label, value string) {
	t.b.WriteString(t.cs.vertical)
	t.b.WriteString(" ")
	t.b.WriteString(t.pad(label, labelWidth))
	t.b.WriteString(" ")
	t.b.WriteString(t.cs.vertical)
	t.b.WriteString(" ")
	t.b.WriteString(t.pad(value, dataWidth))
	t.b.WriteString(" ")
	t.b.WriteString(t.cs.vertical)
	t.b.WriteString("\n")
}

func (t *table) pad(s string, width int) string {
	s = t.truncate(s, width)
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func (t *table) truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-1]) + t.cs.ellipsis
}
