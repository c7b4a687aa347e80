// Package search scores free-text queries against records and ranks the
// records that score well enough.
package search

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Score returns a 0..100 similarity between query and candidate. The shorter
// string is slid over every window of the same length in the longer one and
// the best window wins. A score of 100 means the query appears verbatim inside
// the candidate. Comparison ignores case. Empty input scores 0.
func Score(query, candidate string) int {
	q := []rune(strings.ToLower(query))
	c := []rune(strings.ToLower(candidate))
	if len(q) == 0 || len(c) == 0 {
		return 0
	}
	short, long := q, c
	if len(short) > len(long) {
		short, long = long, short
	}
	m := len(short)
	needle := string(short)

	best := m
	for i := 0; i+m <= len(long) && best > 0; i++ {
		if d := levenshtein.ComputeDistance(needle, string(long[i:i+m])); d < best {
			best = d
		}
	}
	if best == 0 {
		return 100
	}
	// only an exact window may score 100
	return min(int(math.Round((1-float64(best)/float64(m))*100)), 99)
}
