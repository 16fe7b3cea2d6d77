package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"combopick/internal/infra/logx"
	"combopick/internal/option"
)

// ---------- Messages / Cmds ----------
type loadMsg struct {
	items      option.Items
	remembered string
	hasMemory  bool
	err        error
}

func (m Model) loadCmd() tea.Cmd {
	src := m.opts.Source
	store := m.opts.History
	rememberKey := m.opts.RememberKey
	timeout := m.opts.Timeout

	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if src == nil {
			return loadMsg{err: errors.New("no option source")}
		}
		items, err := src.Load(ctx)
		if err != nil {
			return loadMsg{err: err}
		}
		msg := loadMsg{items: items}
		if store != nil && rememberKey != "" {
			v, ok, err := store.Last(ctx, rememberKey)
			if err != nil {
				// a broken history only loses the preselection
				logx.Warnf("ui: history unavailable: %v", err)
			} else {
				msg.remembered, msg.hasMemory = v, ok
			}
		}
		return msg
	}
}
