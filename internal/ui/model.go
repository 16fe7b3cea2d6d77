// Package ui is the combopick program: it loads options, shows a combobox
// and records the choice.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"combopick/internal/combobox"
	"combopick/internal/history"
	"combopick/internal/infra/logx"
	"combopick/internal/source"
)

// --- Model / State ---
type state int

const (
	stateLoading state = iota
	statePicking
	stateDone
	stateFailed
)

// headerLines is the space above the combobox: title and divider.
const headerLines = 2

// Options configures one run.
type Options struct {
	Source      source.Source
	Props       combobox.Props // SetValue is set by the program
	Combo       combobox.Config
	History     *history.Store // nil disables remembering
	RememberKey string
	Timeout     time.Duration // option loading; 0 means no limit
	OpenOnStart bool
}

// Result is what the run produced.
type Result struct {
	Value  string
	Chosen bool
	Err    error
}

type keyMap struct {
	combo combobox.KeyMap
	Quit  key.Binding
	Help  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(k.combo.ShortHelp(), k.Help, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return append(k.combo.FullHelp(), []key.Binding{k.Help, k.Quit})
}

type Model struct {
	opts    Options
	state   state
	spinner spinner.Model
	combo   combobox.Model
	help    help.Model
	keys    keyMap

	width, height int

	value  string
	chosen bool
	err    error
}

func New(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = subtleStyle

	// a zero Combo means defaults
	if len(opts.Combo.KeyMap.Select.Keys()) == 0 {
		opts.Combo = combobox.DefaultConfig()
	}
	return Model{
		opts:    opts,
		state:   stateLoading,
		spinner: sp,
		help:    help.New(),
		keys: keyMap{
			combo: opts.Combo.KeyMap,
			Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
			Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// Result reports the outcome once the program has exited.
func (m Model) Result() Result {
	return Result{Value: m.value, Chosen: m.chosen, Err: m.err}
}

func logChoice(v string) {
	logx.With(logx.Fields{"value": v}).Debug("ui: value selected")
}
