package search

import (
	"math/rand"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// Sample returns count recipes chosen uniformly at random without
// replacement. count is clamped to the corpus size; asking for more than the
// corpus holds returns every recipe exactly once. The random source is
// injected so tests can assert exact sampled sets; a nil rng falls back to
// the shared package-level source.
func (ix *Index) Sample(rng *rand.Rand, count int) []*domain.Recipe {
	if count <= 0 {
		return []*domain.Recipe{}
	}
	if count > len(ix.ids) {
		count = len(ix.ids)
	}

	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}

	// Partial Fisher-Yates over a copy of the id slice: only the first count
	// positions need to be settled.
	ids := make([]string, len(ix.ids))
	copy(ids, ix.ids)
	for i := 0; i < count; i++ {
		j := i + intn(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}

	out := make([]*domain.Recipe, count)
	for i := 0; i < count; i++ {
		out[i] = ix.recipes[ids[i]]
	}
	return out
}
