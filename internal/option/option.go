package option

import (
	"combopick/internal/infra/logx"
)

// Option is one selectable entry of a combobox.
type Option struct {
	Label string `json:"label" toml:"label"`
	Value string `json:"value" toml:"value"`
	Icon  string `json:"icon,omitempty" toml:"icon,omitempty"` // pre-rendered glyph, may be empty
}

// Items is the input accepted by a combobox: either plain labels or full records.
// The set of implementations is closed; use Labels or Records.
type Items interface {
	options() []Option
	identity() key
}

// Labels is a list of plain strings; each one is both label and value.
type Labels []string

// Records is a list of options that pass through unchanged.
type Records []Option

type key struct {
	labels  *string
	records *Option
	n       int
}

func (l Labels) options() []Option {
	out := make([]Option, 0, len(l))
	for _, s := range l {
		out = append(out, Option{Label: s, Value: s})
	}
	return out
}

func (l Labels) identity() key {
	if len(l) == 0 {
		return key{}
	}
	return key{labels: &l[0], n: len(l)}
}

func (r Records) options() []Option {
	out := make([]Option, len(r))
	copy(out, r)
	return out
}

func (r Records) identity() key {
	if len(r) == 0 {
		return key{}
	}
	return key{records: &r[0], n: len(r)}
}

// Normalize maps items into a uniform option slice. A nil or empty input
// yields an empty, non-nil slice. Options with a value seen earlier in the
// list are dropped so values stay unique.
func Normalize(items Items) []Option {
	if items == nil {
		return []Option{}
	}
	return dedupe(items.options())
}

func dedupe(opts []Option) []Option {
	seen := make(map[string]struct{}, len(opts))
	out := opts[:0]
	for _, o := range opts {
		if _, dup := seen[o.Value]; dup {
			logx.Warnf("option: dropping duplicate value %q (label %q)", o.Value, o.Label)
			continue
		}
		seen[o.Value] = struct{}{}
		out = append(out, o)
	}
	return out
}

// Find returns the option carrying value.
func Find(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Normalizer memoizes Normalize on the identity of the input slice
// (backing array and length), not on its contents. Mutating a slice in
// place is not detected; pass a new slice when the contents change.
type Normalizer struct {
	last   key
	valid  bool
	result []Option
}

// Normalize returns the cached result when items is the same slice as the
// previous call.
func (n *Normalizer) Normalize(items Items) []Option {
	var k key
	if items != nil {
		k = items.identity()
	}
	if n.valid && k == n.last {
		return n.result
	}
	n.result = Normalize(items)
	n.last = k
	n.valid = true
	return n.result
}
