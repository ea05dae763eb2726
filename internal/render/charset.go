package render

// Fixed table geometry. The report is a two-column table: a label gutter
// and a data column.
const (
	labelWidth = 12
	dataWidth  = 32

	// lineWidth is the full rendered width including borders and padding.
	lineWidth = labelWidth + dataWidth + 7
)

type charset struct {
	topLeft     string
	topRight    string
	bottomLeft  string
	bottomRight string
	horizontal  string
	vertical    string
	leftTee     string
	rightTee    string
	barFill     string
	barEmpty    string
	ellipsis    string
}

var unicodeCharset = charset{
	topLeft:     "┌",
	topRight:    "┐",
	bottomLeft:  "└",
	bottomRight: "┘",
	horizontal:  "─",
	vertical:    "│",
	leftTee:     "├",
	rightTee:    "┤",
	barFill:     "█",
	barEmpty:    "░",
	ellipsis:    "…",
}

var asciiCharset = charset{
	topLeft:     "+",
	topRight:    "+",
	bottomLeft:  "+",
	bottomRight: "+",
	horizontal:  "-",
	vertical:    "|",
	leftTee:     "+",
	rightTee:    "+",
	barFill:     "#",
	barEmpty:    ".",
	ellipsis:    "~",
}

func charsetFor(ascii bool) charset {
	if ascii {
		return asciiCharset
	}
	return unicodeCharset
}
