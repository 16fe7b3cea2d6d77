package combobox

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"combopick/internal/option"
)

const (
	triggerHeight = 3 // bordered single line
	headerLines   = 3 // title, filter field, divider
	footerLines   = 1 // match counter
	minPopover    = 16
)

func (m Model) icon() string {
	if m.props.SelectIcon != "" {
		return m.props.SelectIcon
	}
	return m.cfg.Icons.Chevron
}

func (m Model) triggerWidth() int {
	if m.props.IsCollapsed {
		return max(1, runewidth.StringWidth(m.icon())) + 2
	}
	return m.popoverWidth()
}

func (m Model) popoverWidth() int {
	w := m.cfg.Width
	if m.width > 0 {
		w = min(w, m.width)
	}
	return max(minPopover, w)
}

func (m Model) inputWidth() int {
	// search glyph, gap, cancel slot, cursor cell
	return max(1, m.popoverWidth()-2-runewidth.StringWidth(m.cfg.Icons.Search)-4)
}

func (m Model) visibleRows() int {
	rows := m.cfg.MaxVisible
	if m.height > 0 {
		avail := m.height - triggerHeight - 2 - headerLines - footerLines
		rows = min(rows, avail)
	}
	return max(1, rows)
}

func (m Model) renderedRows() int {
	start, end := m.list.window(len(m.adapter.Matches()))
	return end - start
}

func (m Model) popoverHeight() int {
	return 2 + headerLines + m.renderedRows() + footerLines
}

func (m Model) inTrigger(x, y int) bool {
	return x >= 0 && x < m.triggerWidth() && y >= 0 && y < triggerHeight
}

func (m Model) inPopover(x, y int) bool {
	return x >= 0 && x < m.popoverWidth() && y >= triggerHeight && y < triggerHeight+m.popoverHeight()
}

// rowAt maps a point inside the popover to an index into Matches.
func (m Model) rowAt(x, y int) (int, bool) {
	if x < 1 || x >= m.popoverWidth()-1 {
		return 0, false
	}
	j := y - (triggerHeight + 1 + headerLines)
	start, end := m.list.window(len(m.adapter.Matches()))
	if j < 0 || start+j >= end {
		return 0, false
	}
	return start + j, true
}

// triggerLabel returns the text shown on the trigger and whether it is the placeholder.
func (m Model) triggerLabel() (string, bool) {
	if m.sel.value != "" {
		if m.props.DisplayValue != "" {
			return m.props.DisplayValue, false
		}
		return m.sel.value, false
	}
	return m.props.SelectPlaceholder, true
}

func (m Model) viewTrigger() string {
	style := triggerStyle
	if m.focused {
		style = triggerFocusStyle
	}
	icon := m.icon()
	if m.props.IsCollapsed {
		return style.Render(icon)
	}

	inner := m.triggerWidth() - 2
	caret := m.cfg.Icons.Caret
	room := max(0, inner-runewidth.StringWidth(icon)-runewidth.StringWidth(caret)-2)
	label, isPlaceholder := m.triggerLabel()
	label = ansi.Truncate(label, room, "…")
	pad := strings.Repeat(" ", max(0, room-runewidth.StringWidth(label)))
	if isPlaceholder {
		label = placeholderStyle.Render(label)
	}
	return style.Width(inner).Render(icon + " " + label + pad + " " + caret)
}

func (m Model) viewSearch(inner int) string {
	left := ansi.Truncate(m.cfg.Icons.Search+" "+m.list.input.View(), inner-2, "")
	pad := strings.Repeat(" ", max(0, inner-2-ansi.StringWidth(left)))
	cancel := " "
	if m.list.input.Value() != "" {
		cancel = subtleStyle.Render(m.cfg.Icons.Cancel)
	}
	return left + pad + " " + cancel
}

func (m Model) viewRow(o option.Option, inner int, active, selected bool) string {
	ic := m.cfg.Icons
	prefix := "  "
	if active {
		prefix = ic.Cursor + " "
	}
	left := prefix
	if o.Icon != "" {
		left += o.Icon + " "
	}
	left += o.Label

	checkW := runewidth.StringWidth(ic.Check)
	room := max(0, inner-checkW-1)
	left = ansi.Truncate(left, room, "…")
	body := left + strings.Repeat(" ", max(0, room-runewidth.StringWidth(left))) + " "

	mark := strings.Repeat(" ", checkW)
	if selected {
		mark = checkStyle.Render(ic.Check)
	}
	if active {
		return activeRowStyle.Render(body) + mark
	}
	return rowStyle.Render(body) + mark
}

func (m Model) viewPopover() string {
	inner := m.popoverWidth() - 2
	matches := m.adapter.Matches()

	lines := []string{
		titleStyle.Render(ansi.Truncate(m.PopoverLabel(), inner, "…")),
		m.viewSearch(inner),
		dividerStyle.Render(strings.Repeat("─", inner)),
	}
	start, end := m.list.window(len(matches))
	for i := start; i < end; i++ {
		o := matches[i]
		lines = append(lines, m.viewRow(o, inner, i == m.list.active, o.Value == m.sel.value))
	}
	counter := fmt.Sprintf("%s of %s", humanize.Comma(int64(len(matches))), humanize.Comma(int64(len(m.options))))
	lines = append(lines, subtleStyle.Render(counter))

	return popoverStyle.Width(inner).Render(strings.Join(lines, "\n"))
}

// View renders the trigger and, when open, the popover below it.
func (m Model) View() string {
	trigger := m.viewTrigger()
	if !m.sel.open {
		return trigger
	}
	return lipgloss.JoinVertical(lipgloss.Left, trigger, m.viewPopover())
}
