package ui

import (
	"strings"
)

func (m Model) View() string {
	if m.state == stateDone {
		return ""
	}
	var b strings.Builder
	title := m.opts.Props.AriaLabel
	if title == "" {
		title = "combopick"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(10, m.width-2))))
	b.WriteString("\n")

	switch m.state {
	case stateLoading:
		b.WriteString(m.spinner.View() + " " + subtleStyle.Render("Loading options…"))
	case stateFailed:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case statePicking:
		b.WriteString(m.combo.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}
