package filter

import (
	"strings"

	"combopick/internal/infra/logx"
	"combopick/internal/option"
)

// Adapter owns the open flag, the search text and the resulting matches for
// one combobox. Matches are recomputed synchronously whenever the search
// text or the option set changes.
type Adapter struct {
	cfg     Config
	options []option.Option
	base    []string
	value   string
	open    bool
	search  string
	matches []option.Option
}

// New creates an adapter with no options.
func New(cfg Config) *Adapter {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultConfig().MaxResults
	}
	a := &Adapter{cfg: cfg}
	a.recompute()
	return a
}

// SetOptions replaces the option set.
func (a *Adapter) SetOptions(opts []option.Option) {
	a.options = opts
	a.base = make([]string, len(opts))
	for i, o := range opts {
		a.base[i] = searchText(o.Label, o.Value)
	}
	a.recompute()
}

// SetValue records the currently selected value.
func (a *Adapter) SetValue(v string) { a.value = v }

// Value returns the currently selected value.
func (a *Adapter) Value() string { return a.value }

// Open reports whether the popover is open.
func (a *Adapter) Open() bool { return a.open }

// SetOpen changes the open flag. Hiding resets the search text so the next
// open starts from a clean search.
func (a *Adapter) SetOpen(open bool) {
	if a.open == open {
		return
	}
	a.open = open
	if !open && a.search != "" {
		a.search = ""
		a.recompute()
	}
}

// SearchValue returns the current search text.
func (a *Adapter) SearchValue() string { return a.search }

// SetSearchValue updates the search text and recomputes matches.
func (a *Adapter) SetSearchValue(s string) {
	if s == a.search {
		return
	}
	a.search = s
	a.recompute()
	logx.Debugf("filter: %q -> %d/%d matches", s, len(a.matches), len(a.options))
}

// Matches returns the options matching the current search, best first.
func (a *Adapter) Matches() []option.Option { return a.matches }

// SelectedIndex returns the position of the selected value in Matches, or -1.
func (a *Adapter) SelectedIndex() int {
	if a.value == "" {
		return -1
	}
	for i, o := range a.matches {
		if o.Value == a.value {
			return i
		}
	}
	return -1
}

func (a *Adapter) recompute() {
	q := strings.ToLower(strings.TrimSpace(a.search))

	var idx []int
	switch {
	case q == "":
		// browsing must reach every option, only searches are capped
		idx = allIndices(len(a.options), 0)
	default:
		// substring first: faster and more predictable
		idx = filterBySubstring(q, a.base, a.cfg)
		if len(idx) == 0 {
			idx = filterByFuzzy(q, a.base, a.cfg)
		}
	}

	a.matches = make([]option.Option, len(idx))
	for j, i := range idx {
		a.matches[j] = a.options[i]
	}
}
