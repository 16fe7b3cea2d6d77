package icons

// Style represents the glyph set to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleASCII   Style = "ascii"
)

// Icons holds the glyphs the combobox draws.
type Icons struct {
	Chevron string // default trigger icon
	Caret   string // trailing open indicator on an expanded trigger
	Check   string // marks the selected row
	Search  string // leads the filter field
	Cancel  string // clears the filter field
	Cursor  string // marks the highlighted row
}

var (
	nerdIcons = Icons{
		Chevron: "", // nf-fa-chevron_down
		Caret:   "", // nf-fa-caret_down
		Check:   "", // nf-fa-check
		Search:  "", // nf-fa-search
		Cancel:  "", // nf-fa-times
		Cursor:  "", // nf-fa-chevron_right
	}

	unicodeIcons = Icons{
		Chevron: "⌄",
		Caret:   "▾",
		Check:   "✓",
		Search:  "⌕",
		Cancel:  "✕",
		Cursor:  "›",
	}

	asciiIcons = Icons{
		Chevron: "v",
		Caret:   "v",
		Check:   "*",
		Search:  "/",
		Cancel:  "x",
		Cursor:  ">",
	}
)

// For returns the glyph set for a style name. Unknown names fall back to unicode.
func For(style string) Icons {
	switch Style(style) {
	case StyleNerd:
		return nerdIcons
	case StyleASCII:
		return asciiIcons
	default:
		return unicodeIcons
	}
}

// Valid reports whether style names a known glyph set.
func Valid(style string) bool {
	switch Style(style) {
	case StyleNerd, StyleUnicode, StyleASCII:
		return true
	}
	return false
}
