package combobox

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// selectBox is the outer primitive. It owns the value shown on the trigger
// and whether the popover is open.
type selectBox struct {
	value string
	open  bool
}

// setOpen reports whether the state changed.
func (s *selectBox) setOpen(open bool) bool {
	if s.open == open {
		return false
	}
	s.open = open
	return true
}

// listBox is the inner primitive. It owns the filter field and which row is
// highlighted. active is -1 when no row is highlighted.
type listBox struct {
	input   textinput.Model
	open    bool
	active  int
	offset  int
	visible int
}

func newListBox(placeholder string, visible int) listBox {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 200
	return listBox{input: ti, active: -1, visible: max(1, visible)}
}

// setOpen focuses the field on open and clears it on close.
func (l *listBox) setOpen(open bool) tea.Cmd {
	l.open = open
	if open {
		return l.input.Focus()
	}
	l.input.Blur()
	l.input.Reset()
	l.active, l.offset = -1, 0
	return nil
}

// highlight moves the active row to i, clamped to n rows, and reports
// whether it changed.
func (l *listBox) highlight(i, n int) bool {
	if n == 0 {
		changed := l.active != -1
		l.active, l.offset = -1, 0
		return changed
	}
	i = max(0, min(i, n-1))
	changed := i != l.active
	l.active = i
	l.adjustOffset()
	return changed
}

// move shifts the highlight by delta rows without wrapping.
func (l *listBox) move(delta, n int) bool {
	if n == 0 {
		return false
	}
	if l.active < 0 {
		return l.highlight(0, n)
	}
	return l.highlight(l.active+delta, n)
}

func (l *listBox) setVisible(v int) {
	l.visible = max(1, v)
	l.adjustOffset()
}

func (l *listBox) adjustOffset() {
	if l.active < 0 {
		l.offset = 0
		return
	}
	if l.active < l.offset {
		l.offset = l.active
	}
	if l.active >= l.offset+l.visible {
		l.offset = l.active - l.visible + 1
	}
}

// window returns the [start, end) range of rows on screen.
func (l *listBox) window(n int) (int, int) {
	start := min(l.offset, max(0, n-l.visible))
	start = max(0, start)
	return start, min(n, start+l.visible)
}
