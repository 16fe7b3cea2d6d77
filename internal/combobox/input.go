package combobox

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleClosedKey handles keys while only the trigger is shown.
func (m Model) handleClosedKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.cfg.KeyMap.Open) {
		return m, m.setOpen(true)
	}
	return m, nil
}

// handleOpenKey handles keys while the popover is shown.
func (m Model) handleOpenKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keys := m.cfg.KeyMap
	n := len(m.adapter.Matches())

	switch {
	case key.Matches(msg, keys.Cancel):
		// clear first, close only when there is nothing to clear
		if m.list.input.Value() != "" {
			m.list.input.SetValue("")
			return m, m.scheduleSearch("")
		}
		return m, m.setOpen(false)

	case key.Matches(msg, keys.Dismiss):
		return m.handleFocusLost(focusLostMsg{Source: sourceKeyboard})

	case key.Matches(msg, keys.Select):
		if m.list.active < 0 || m.list.active >= n {
			return m, nil
		}
		return m, m.selectValue(m.adapter.Matches()[m.list.active].Value)

	case key.Matches(msg, keys.Up):
		return m, m.moveHighlight(-1)
	case key.Matches(msg, keys.Down):
		return m, m.moveHighlight(1)
	case key.Matches(msg, keys.PageUp):
		return m, m.moveHighlight(-m.list.visible)
	case key.Matches(msg, keys.PageDown):
		return m, m.moveHighlight(m.list.visible)
	case key.Matches(msg, keys.Home):
		return m, m.moveHighlight(-n)
	case key.Matches(msg, keys.End):
		return m, m.moveHighlight(n)
	}

	before := m.list.input.Value()
	var cmd tea.Cmd
	m.list.input, cmd = m.list.input.Update(msg)
	if after := m.list.input.Value(); after != before {
		return m, tea.Batch(cmd, m.scheduleSearch(after))
	}
	return m, cmd
}

// moveHighlight shifts the active row. The list primitive reports the move
// as a virtual blur of the filter field. That message and captureFocusLost
// exist only for each other and can be removed together.
func (m *Model) moveHighlight(delta int) tea.Cmd {
	if !m.list.move(delta, len(m.adapter.Matches())) {
		return nil
	}
	return func() tea.Msg { return focusLostMsg{Virtual: true, Source: sourceFilter} }
}

// handleFocusLost is the select primitive's reaction to focus leaving the
// widget: the popover closes.
func (m Model) handleFocusLost(msg focusLostMsg) (Model, tea.Cmd) {
	if captureFocusLost(msg) {
		return m, nil
	}
	if msg.Source == sourcePointer || msg.Source == sourceKeyboard {
		m.focused = false
	}
	if !m.sel.open {
		return m, nil
	}
	return m, m.setOpen(false)
}

// handleMouse hit-tests presses against the trigger, the rows and the popover.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	x, y := msg.X-m.originX, msg.Y-m.originY

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.sel.open && m.inPopover(x, y) {
			return m, m.moveHighlight(-1)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.sel.open && m.inPopover(x, y) {
			return m, m.moveHighlight(1)
		}
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch {
	case m.inTrigger(x, y):
		m.focused = true
		return m, m.setOpen(!m.sel.open)
	case m.sel.open && m.inPopover(x, y):
		if i, ok := m.rowAt(x, y); ok {
			return m, m.selectValue(m.adapter.Matches()[i].Value)
		}
		return m, nil
	default:
		return m.handleFocusLost(focusLostMsg{Source: sourcePointer})
	}
}
