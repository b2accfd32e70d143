package search

import (
	"errors"
	"sort"
)

// ErrInvalidTopN is returned when a ranked search is requested with a
// non-positive result count.
var ErrInvalidTopN = errors.New("top n must be positive")

// Match is one ranked result: a recipe id and its cosine similarity score
// in [0,1].
type Match struct {
	ID    string
	Score float64
}

// Rank scores every indexed recipe against the query vector and returns the
// topN best matches. The scan is exhaustive; the corpus is bounded and a
// linear pass stays well inside the latency budget.
//
// Ordering is deterministic: score descending, then rating descending, then
// id ascending. Recipes scoring exactly zero (no shared tokens) are excluded,
// so a query with nothing in common with the corpus yields an empty, non-error
// result. topN is clamped to the corpus size; topN <= 0 fails with
// ErrInvalidTopN.
func (ix *Index) Rank(query Vector, topN int) ([]Match, error) {
	if topN <= 0 {
		return nil, ErrInvalidTopN
	}
	if topN > len(ix.ids) {
		topN = len(ix.ids)
	}

	matches := make([]Match, 0, len(ix.ids))
	for _, id := range ix.ids {
		score := query.Dot(ix.vectors[id])
		if score <= 0 {
			continue
		}
		// Accumulated floating-point error can nudge the product of two unit
		// vectors past 1.
		if score > 1 {
			score = 1
		}
		matches = append(matches, Match{ID: id, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ra, rb := ix.recipes[a.ID].Rating, ix.recipes[b.ID].Rating
		if ra != rb {
			return ra > rb
		}
		return a.ID < b.ID
	})

	if topN < len(matches) {
		matches = matches[:topN]
	}
	return matches, nil
}
