package combobox

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// setOpen moves both primitives and the adapter to the same open state.
func (m *Model) setOpen(open bool) tea.Cmd {
	changed := m.sel.setOpen(open)
	if !changed && m.list.open == open {
		return nil
	}
	focus := m.list.setOpen(open)
	m.adapter.SetOpen(open)
	// updates scheduled while the previous session was open are stale now
	m.searchSeq++

	if open {
		start := m.adapter.SelectedIndex()
		if start < 0 {
			start = 0
		}
		m.list.setVisible(m.visibleRows())
		m.list.highlight(start, len(m.adapter.Matches()))
	}
	return tea.Batch(focus, func() tea.Msg { return OpenChangedMsg{Open: open} })
}

// selectValue reports a confirmed choice to the caller and closes.
func (m *Model) selectValue(v string) tea.Cmd {
	if m.props.SetValue != nil {
		m.props.SetValue(v)
	}
	closeCmd := m.setOpen(false)
	return tea.Batch(func() tea.Msg { return ValueChangedMsg{Value: v} }, closeCmd)
}

// scheduleSearch defers applying the field's text to the adapter. Newer
// calls supersede older ones that have not been applied yet.
func (m *Model) scheduleSearch(value string) tea.Cmd {
	m.searchSeq++
	msg := searchMsg{seq: m.searchSeq, value: value}
	if m.cfg.Debounce > 0 {
		return tea.Tick(m.cfg.Debounce, func(time.Time) tea.Msg { return msg })
	}
	return func() tea.Msg { return msg }
}

// applySearch runs a deferred search update unless it was superseded.
func (m *Model) applySearch(msg searchMsg) {
	if msg.seq != m.searchSeq || !m.sel.open {
		return
	}
	m.adapter.SetSearchValue(msg.value)
	// auto-select: the best match is highlighted after every change
	m.list.active = -1
	m.list.highlight(0, len(m.adapter.Matches()))
}
