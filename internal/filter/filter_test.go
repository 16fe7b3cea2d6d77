package filter

import (
	"testing"

	"github.com/sahilm/fuzzy"
	"github.com/stretchr/testify/assert"
)

func TestFilterBySubstring(t *testing.T) {
	base := []string{"hello world", "foo bar", "hello bar"}
	cfg := Config{MaxResults: 10}
	assert.Equal(t, []int{0, 2}, filterBySubstring("hello", base, cfg))

	cfg.MaxResults = 1
	assert.Equal(t, []int{0}, filterBySubstring("hello", base, cfg))
}

func TestFilterByFuzzyThresholds(t *testing.T) {
	base := []string{"abc", "axc", "ac"}
	cfg := Config{MinCoverage: 1, MaxSpread: 1, MaxResults: 10}
	assert.Equal(t, []int{2}, filterByFuzzy("ac", base, cfg))
}

func TestFilterByFuzzyFallback(t *testing.T) {
	base := []string{"abcd", "abxd"}
	cfg := Config{MinCoverage: 1, MaxSpread: 0, MaxResults: 1}
	got := filterByFuzzy("ad", base, cfg)
	if assert.Len(t, got, 1) {
		assert.Contains(t, []int{0, 1}, got[0])
	}
}

func TestMatchCoverage(t *testing.T) {
	m := fuzzy.Match{MatchedIndexes: []int{0, 2}}
	assert.Equal(t, 0.5, matchCoverage("abcd", m))
	assert.Equal(t, 1.0, matchCoverage("", m))
}

func TestMatchSpread(t *testing.T) {
	assert.Equal(t, 3, matchSpread(fuzzy.Match{MatchedIndexes: []int{1, 4}}))
	assert.Equal(t, 0, matchSpread(fuzzy.Match{}))
}

func TestSearchText(t *testing.T) {
	assert.Equal(t, "gpt-4", searchText("GPT-4", "gpt-4"))
	assert.Equal(t, "claude  anthropic/claude", searchText("Claude", "anthropic/claude"))
}

func TestAllIndices(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, allIndices(3, 10))
	assert.Equal(t, []int{0, 1}, allIndices(3, 2))
	assert.Empty(t, allIndices(0, 10))
}
