package filter

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Config bundles tuning parameters for matching.
type Config struct {
	MinCoverage float64 // minimal share of the query that must match
	MaxSpread   int     // maximal distance between first and last match index
	MaxResults  int     // upper limit of returned results
}

// DefaultConfig returns the thresholds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MinCoverage: 0.6,
		MaxSpread:   40,
		MaxResults:  200,
	}
}

// searchText builds the lowercase haystack for an option.
func searchText(label, value string) string {
	if label == value {
		return strings.ToLower(label)
	}
	return strings.ToLower(label + "  " + value)
}

// allIndices returns 0..n-1 capped at limit.
func allIndices(n, limit int) []int {
	if limit > 0 && n > limit {
		n = limit
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// filterBySubstring performs a simple substring check against the prepared
// base list and returns matching indices limited by cfg.MaxResults.
func filterBySubstring(q string, base []string, cfg Config) []int {
	sub := make([]int, 0, min(cfg.MaxResults, len(base)))
	for i, s := range base {
		if strings.Contains(s, q) {
			sub = append(sub, i)
			if len(sub) >= cfg.MaxResults {
				break
			}
		}
	}
	return sub
}

// filterByFuzzy ranks base with fuzzy matching and prunes results that cover
// too little of the query or spread too far. If pruning removes everything
// the unpruned ranking is returned instead.
func filterByFuzzy(q string, base []string, cfg Config) []int {
	matches := fuzzy.Find(q, base)

	pruned := make([]int, 0, len(matches))
	for _, mt := range matches {
		if matchCoverage(q, mt) < cfg.MinCoverage {
			continue
		}
		if matchSpread(mt) > cfg.MaxSpread {
			continue
		}
		pruned = append(pruned, mt.Index)
		if len(pruned) >= cfg.MaxResults {
			break
		}
	}
	if len(pruned) == 0 {
		for i := 0; i < len(matches) && i < cfg.MaxResults; i++ {
			pruned = append(pruned, matches[i].Index)
		}
	}
	return pruned
}

// matchCoverage returns the ratio of matched characters to the query length.
func matchCoverage(q string, m fuzzy.Match) float64 {
	if len(q) == 0 {
		return 1
	}
	return float64(len(m.MatchedIndexes)) / float64(len(q))
}

// matchSpread returns the distance between the first and last matched index.
func matchSpread(m fuzzy.Match) int {
	if len(m.MatchedIndexes) == 0 {
		return 0
	}
	return m.MatchedIndexes[len(m.MatchedIndexes)-1] - m.MatchedIndexes[0]
}
