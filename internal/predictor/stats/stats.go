// Package stats aggregates draw history and derives card recommendations.
// Everything here is pure: the same input always produces the same output,
// so callers may share results freely within a request.
package stats

import (
	"sort"

	"github.com/chancelab/predictor/internal/predictor/types"
)

// Aggregate counts every occurrence of every card token across all four
// columns of all draws.  Column position is not distinguished.
func Aggregate(draws []types.Draw) map[string]int {
	agg := make(map[string]int)
	for _, draw := range draws {
		for _, card := range draw {
			agg[card]++
		}
	}
	return agg
}

// rankTokens orders the aggregate's tokens by descending count.
// Count ties break by ascending lexicographic token so the ranking is
// reproducible for identical input.
func rankTokens(agg map[string]int) []string {
	tokens := make([]string, 0, len(agg))
	for card := range agg {
		tokens = append(tokens, card)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if agg[tokens[i]] != agg[tokens[j]] {
			return agg[tokens[i]] > agg[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

// TopN returns the n highest-ranked tokens.
func TopN(agg map[string]int, n int) []string {
	ranked := rankTokens(agg)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// SuggestSets builds numSets 4-card combinations from the strongest
// tokens.  The sets are near-duplicates on purpose: the base set is the
// top four, the second swaps the 4th position for the 5th-ranked token,
// the third swaps the 3rd position for the 6th-ranked token.  Variation
// signals diversity without claiming statistical independence the draw
// data cannot support.
func SuggestSets(agg map[string]int, numSets int) [][]string {
	ranked := rankTokens(agg)

	if len(ranked) < 4 {
		// Too few distinct cards for perturbation: one degenerate set
		// with whatever exists, never padded with invented values.
		return [][]string{ranked}
	}

	base := make([]string, 4)
	copy(base, ranked[:4])

	sets := [][]string{base}

	if len(ranked) >= 5 {
		alt := make([]string, 4)
		copy(alt, base)
		alt[3] = ranked[4]
		sets = append(sets, alt)
	}

	if len(ranked) >= 6 {
		alt := make([]string, 4)
		copy(alt, base)
		alt[2] = ranked[5]
		sets = append(sets, alt)
	}

	for len(sets) < numSets {
		sets = append(sets, base)
	}
	return sets[:numSets]
}
