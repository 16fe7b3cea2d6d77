package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"combopick/internal/combobox"
	"combopick/internal/infra/logx"
)

// ---------- Update ----------
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.state != statePicking {
			return m, nil
		}
		// the combobox is the only focusable thing on screen
		if !m.combo.Focused() {
			m.combo.Focus()
		}
		if !m.combo.Open() {
			switch {
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			case msg.String() == "esc", msg.String() == "q":
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.state == statePicking {
			m.combo.SetSize(msg.Width, msg.Height-headerLines-1)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadMsg:
		return m.handleLoaded(msg)

	case combobox.ValueChangedMsg:
		return m.handleChosen(msg.Value)
	}

	if m.state != statePicking {
		return m, nil
	}
	var cmd tea.Cmd
	m.combo, cmd = m.combo.Update(msg)
	return m, cmd
}

func (m Model) handleLoaded(msg loadMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		logx.Errorf("ui: loading options failed: %v", msg.err)
		m.err = msg.err
		m.state = stateFailed
		return m, tea.Quit
	}

	props := m.opts.Props
	props.Items = msg.items
	props.SetValue = logChoice
	if props.SelectedValue == "" && msg.hasMemory {
		props.SelectedValue = msg.remembered
	}

	m.combo = combobox.New(props, m.opts.Combo)
	m.combo.SetOrigin(0, headerLines)
	if m.width > 0 {
		m.combo.SetSize(m.width, m.height-headerLines-1)
	}
	m.combo.Focus()
	m.state = statePicking
	logx.Debugf("ui: %d options loaded", len(m.combo.Options()))

	if m.opts.OpenOnStart {
		return m, m.combo.SetOpen(true)
	}
	return m, nil
}

func (m Model) handleChosen(v string) (Model, tea.Cmd) {
	m.combo.SetSelectedValue(v)
	m.value, m.chosen = v, true
	m.state = stateDone

	if m.opts.History != nil && m.opts.RememberKey != "" {
		if err := m.opts.History.Remember(context.Background(), m.opts.RememberKey, v); err != nil {
			// the choice itself still counts
			logx.Warnf("ui: %v", err)
		}
	}
	return m, tea.Quit
}
