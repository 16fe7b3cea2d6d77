// Package combobox implements a searchable dropdown selector for bubbletea
// programs: a trigger, a popover with a filter field, and the filtered list
// of options.
//
// Two primitives cooperate inside the widget. The select primitive owns the
// value and the open flag; the list primitive owns the filter field and the
// highlighted row. Model keeps them, and the search adapter, in agreement.
package combobox

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"combopick/internal/filter"
	"combopick/internal/icons"
	"combopick/internal/option"
)

// Props is the caller-facing contract of the widget.
type Props struct {
	SelectedValue     string       // "" means nothing selected
	DisplayValue      string       // trigger label override when a value is selected
	Items             option.Items // Labels or Records
	SetValue          func(value string)
	AriaLabel         string // accessible name; the popover is labelled AriaLabel+"s"
	SearchPlaceholder string
	SelectPlaceholder string
	IsCollapsed       bool   // icon-only trigger
	SelectIcon        string // replaces the default chevron glyph
}

// Config tunes behaviour and layout.
type Config struct {
	Filter     filter.Config
	Icons      icons.Icons
	KeyMap     KeyMap
	MaxVisible int           // rows shown before scrolling
	Width      int           // trigger and popover width in cells
	Debounce   time.Duration // delay before a search update is applied; 0 applies on the next message
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Filter:     filter.DefaultConfig(),
		Icons:      icons.For(string(icons.StyleUnicode)),
		KeyMap:     DefaultKeyMap(),
		MaxVisible: 8,
		Width:      32,
	}
}

// Model is the combobox widget.
type Model struct {
	props Props
	cfg   Config

	normalizer option.Normalizer
	options    []option.Option
	adapter    *filter.Adapter

	sel  selectBox
	list listBox

	searchSeq int
	focused   bool

	width, height    int // area available to the widget, 0 = unbounded
	originX, originY int // screen position of the trigger's top-left cell
}

// New creates a closed, unfocused combobox.
func New(p Props, cfg Config) Model {
	if cfg.MaxVisible <= 0 {
		cfg.MaxVisible = DefaultConfig().MaxVisible
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultConfig().Width
	}
	m := Model{
		props:   p,
		cfg:     cfg,
		adapter: filter.New(cfg.Filter),
		sel:     selectBox{value: p.SelectedValue},
		list:    newListBox(p.SearchPlaceholder, cfg.MaxVisible),
	}
	m.list.input.Width = m.inputWidth()
	m.SetItems(p.Items)
	m.adapter.SetValue(p.SelectedValue)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// SetItems replaces the options. Pass a new slice when contents change.
func (m *Model) SetItems(items option.Items) {
	m.props.Items = items
	opts := m.normalizer.Normalize(items)
	if len(opts) == len(m.options) && (len(opts) == 0 || &opts[0] == &m.options[0]) {
		return
	}
	m.options = opts
	m.adapter.SetOptions(opts)
	if m.sel.open {
		m.list.highlight(0, len(m.adapter.Matches()))
	}
}

// SetSelectedValue echoes the caller-owned selection back into the widget.
func (m *Model) SetSelectedValue(v string) {
	m.props.SelectedValue = v
	m.sel.value = v
	m.adapter.SetValue(v)
}

// SetDisplayValue changes the trigger label override.
func (m *Model) SetDisplayValue(v string) { m.props.DisplayValue = v }

// SetCollapsed switches between the icon-only and the full trigger.
func (m *Model) SetCollapsed(c bool) {
	m.props.IsCollapsed = c
	m.list.input.Width = m.inputWidth()
}

// SetSize bounds the area the widget may draw into.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.list.input.Width = m.inputWidth()
	m.list.setVisible(m.visibleRows())
}

// SetOrigin tells the widget where its trigger is drawn on screen, for mouse hit-testing.
func (m *Model) SetOrigin(x, y int) { m.originX, m.originY = x, y }

// Focus gives the widget keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus and closes the popover.
func (m *Model) Blur() {
	m.focused = false
	m.setOpen(false)
}

// SetOpen opens or closes the popover programmatically.
func (m *Model) SetOpen(open bool) tea.Cmd { return m.setOpen(open) }

// Focused reports whether the widget has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// Open reports whether the popover is open.
func (m Model) Open() bool { return m.sel.open }

// SelectedValue returns the value currently shown as selected.
func (m Model) SelectedValue() string { return m.sel.value }

// SearchValue returns the search text the matches were computed from.
func (m Model) SearchValue() string { return m.adapter.SearchValue() }

// Matches returns the options currently listed.
func (m Model) Matches() []option.Option { return m.adapter.Matches() }

// Options returns the normalized option set.
func (m Model) Options() []option.Option { return m.options }

// ActiveValue returns the value of the highlighted row, or "".
func (m Model) ActiveValue() string {
	matches := m.adapter.Matches()
	if m.list.active < 0 || m.list.active >= len(matches) {
		return ""
	}
	return matches[m.list.active].Value
}

// AccessibleName is the name announced for the trigger.
func (m Model) AccessibleName() string { return m.props.AriaLabel }

// PopoverLabel is the name of the popover region.
func (m Model) PopoverLabel() string { return m.props.AriaLabel + "s" }

// KeyMap returns the active key bindings, for use with bubbles/help.
func (m Model) KeyMap() KeyMap { return m.cfg.KeyMap }

// Update implements the widget's message handling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		if m.sel.open {
			return m.handleOpenKey(msg)
		}
		return m.handleClosedKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.BlurMsg:
		return m.handleFocusLost(focusLostMsg{Source: sourceTerminal})

	case focusLostMsg:
		return m.handleFocusLost(msg)

	case searchMsg:
		m.applySearch(msg)
		return m, nil

	default:
		// cursor blink and friends
		if m.sel.open {
			var cmd tea.Cmd
			m.list.input, cmd = m.list.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}
