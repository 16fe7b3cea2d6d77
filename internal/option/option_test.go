package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabels(t *testing.T) {
	got := Normalize(Labels{"a", "b", "c"})
	want := []Option{{Label: "a", Value: "a"}, {Label: "b", Value: "b"}, {Label: "c", Value: "c"}}
	assert.Equal(t, want, got)
}

func TestNormalizeRecordsIsIdentity(t *testing.T) {
	in := Records{
		{Label: "GPT", Value: "gpt", Icon: "*"},
		{Label: "Claude", Value: "claude"},
	}
	got := Normalize(in)
	assert.Equal(t, []Option(in), got)

	// the result must not alias the caller's slice
	got[0].Label = "changed"
	assert.Equal(t, "GPT", in[0].Label)
}

func TestNormalizeEmpty(t *testing.T) {
	for name, items := range map[string]Items{
		"nil":           nil,
		"empty labels":  Labels{},
		"empty records": Records(nil),
	} {
		t.Run(name, func(t *testing.T) {
			got := Normalize(items)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestNormalizeDropsDuplicateValuesKeepingFirst(t *testing.T) {
	got := Normalize(Records{
		{Label: "one", Value: "x"},
		{Label: "two", Value: "y"},
		{Label: "three", Value: "x"},
	})
	assert.Equal(t, []Option{{Label: "one", Value: "x"}, {Label: "two", Value: "y"}}, got)
}

func TestFind(t *testing.T) {
	opts := Normalize(Labels{"a", "b"})
	o, ok := Find(opts, "b")
	require.True(t, ok)
	assert.Equal(t, "b", o.Label)

	_, ok = Find(opts, "z")
	assert.False(t, ok)
}

func TestNormalizerMemoizesOnIdentity(t *testing.T) {
	var n Normalizer
	items := Labels{"a", "b"}

	first := n.Normalize(items)
	second := n.Normalize(items)
	require.Len(t, second, 2)
	assert.Same(t, &first[0], &second[0], "same slice should hit the cache")

	// in-place mutation is not noticed
	items[0] = "z"
	assert.Equal(t, "a", n.Normalize(items)[0].Value)

	// a fresh slice is
	fresh := Labels{"z", "b"}
	assert.Equal(t, "z", n.Normalize(fresh)[0].Value)
}

func TestNormalizerSwitchingKinds(t *testing.T) {
	var n Normalizer
	assert.Len(t, n.Normalize(Labels{"a"}), 1)
	assert.Len(t, n.Normalize(Records{{Label: "x", Value: "1"}, {Label: "y", Value: "2"}}), 2)
	assert.Empty(t, n.Normalize(nil))
}
