package search

import (
	"cmp"
	"slices"

	"github.com/ovaphlow/pitchfork/service-pantry/pkg/apperr"
)

// DefaultThreshold is the minimum score a record needs when the caller does
// not ask for one.
const DefaultThreshold = 60

// MaxQueryLength caps a query in runes. Scoring is quadratic in query length.
const MaxQueryLength = 256

// Options controls filtering and truncation of a ranking.
type Options struct {
	// Threshold is the minimum best-field score, 0..100.
	Threshold int
	// MaxResults truncates the ranking when > 0.
	MaxResults int
}

// Match is a ranked record with its best field score.
type Match[T any] struct {
	Item  T
	Score int
}

// ValidateThreshold rejects thresholds outside 0..100.
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 100 {
		return apperr.Newf(apperr.ErrInvalidInput, "threshold must be between 0 and 100, got %d", threshold)
	}
	return nil
}

// RankScored scores every candidate on each of its fields, keeps the ones
// whose best field reaches opts.Threshold and orders them by that score,
// highest first. Candidates with equal scores keep their input order.
func RankScored[T any](query string, candidates []T, fields func(T) []string, opts Options) []Match[T] {
	kept := make([]Match[T], 0, len(candidates))
	for _, c := range candidates {
		best := 0
		for _, f := range fields(c) {
			if s := Score(query, f); s > best {
				best = s
			}
		}
		if best >= opts.Threshold {
			kept = append(kept, Match[T]{Item: c, Score: best})
		}
	}
	slices.SortStableFunc(kept, func(a, b Match[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if opts.MaxResults > 0 && len(kept) > opts.MaxResults {
		kept = kept[:opts.MaxResults]
	}
	return kept
}

// Rank is RankScored without the scores.
func Rank[T any](query string, candidates []T, fields func(T) []string, opts Options) []T {
	matches := RankScored(query, candidates, fields, opts)
	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = m.Item
	}
	return out
}
