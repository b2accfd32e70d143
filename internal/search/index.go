package search

import (
	"sort"
	"strings"

	"github.com/tbourn/go-recipe-backend/internal/domain"
)

// Index is the immutable, in-memory collection of all recipe vectors plus
// the lookup structures the API needs: id → recipe, id → vector, normalized
// category → ids, and the frozen Vocabulary. It is built once before the
// service accepts traffic and safely shared by unlimited concurrent readers.
type Index struct {
	recipes    map[string]*domain.Recipe
	vectors    map[string]Vector
	byCategory map[string][]string
	categories []string
	ids        []string
	vocab      *Vocabulary
}

// Build constructs an Index from the loaded corpus in one pass: normalize
// every ingredient list, build the vocabulary, vectorize every recipe, and
// assemble the lookup maps. It returns ErrEmptyCorpus when recipes is empty.
//
// The input slice is copied into the index; callers may discard it afterwards.
func Build(recipes []domain.Recipe) (*Index, error) {
	if len(recipes) == 0 {
		return nil, ErrEmptyCorpus
	}

	tokenSets := make([]TokenCounts, len(recipes))
	for i := range recipes {
		tokenSets[i] = Normalize(recipes[i].Ingredients)
	}

	vocab, err := BuildVocabulary(tokenSets)
	if err != nil {
		return nil, err
	}

	ix := &Index{
		recipes:    make(map[string]*domain.Recipe, len(recipes)),
		vectors:    make(map[string]Vector, len(recipes)),
		byCategory: make(map[string][]string),
		ids:        make([]string, 0, len(recipes)),
		vocab:      vocab,
	}

	seenCategory := make(map[string]string)
	for i := range recipes {
		r := recipes[i]
		if _, dup := ix.recipes[r.ID]; dup {
			// Duplicate ids would break the one-of-each invariant; the first
			// occurrence wins.
			continue
		}
		ix.recipes[r.ID] = &r
		ix.vectors[r.ID] = Vectorize(tokenSets[i], vocab)
		ix.ids = append(ix.ids, r.ID)

		if cat := strings.TrimSpace(r.Category); cat != "" {
			key := strings.ToLower(cat)
			ix.byCategory[key] = append(ix.byCategory[key], r.ID)
			if _, ok := seenCategory[key]; !ok {
				seenCategory[key] = cat
			}
		}
	}

	sort.Strings(ix.ids)
	for _, ids := range ix.byCategory {
		sort.Strings(ids)
	}
	for _, display := range seenCategory {
		ix.categories = append(ix.categories, display)
	}
	sort.Strings(ix.categories)

	return ix, nil
}

// Len returns the number of indexed recipes.
func (ix *Index) Len() int { return len(ix.ids) }

// Vocabulary returns the frozen vocabulary the index was built with.
func (ix *Index) Vocabulary() *Vocabulary { return ix.vocab }

// Get returns the recipe for id, or nil when id is not indexed.
func (ix *Index) Get(id string) *domain.Recipe { return ix.recipes[id] }

// Categories returns the distinct category display names, sorted.
// The returned slice is shared and must not be mutated.
func (ix *Index) Categories() []string { return ix.categories }

// ByCategory returns the recipes whose category exactly matches the given
// name after case normalization, ordered by ascending id. An unknown
// category yields an empty slice, not an error.
func (ix *Index) ByCategory(category string) []*domain.Recipe {
	ids := ix.byCategory[strings.ToLower(strings.TrimSpace(category))]
	out := make([]*domain.Recipe, 0, len(ids))
	for _, id := range ids {
		out = append(out, ix.recipes[id])
	}
	return out
}

// QueryVector builds an ephemeral query vector from free-text ingredient
// entries using the frozen vocabulary. Out-of-vocabulary tokens are dropped;
// the zero vector is a legal result meaning "matches nothing".
func (ix *Index) QueryVector(ingredients []string) Vector {
	return Vectorize(Normalize(ingredients), ix.vocab)
}
