package search

import "errors"

// ErrEmptyCorpus is returned when an index build is attempted with zero
// recipes. The service treats this as fatal at startup: it must not accept
// traffic without a corpus.
var ErrEmptyCorpus = errors.New("corpus is empty")

// Vocabulary assigns every distinct ingredient token a stable integer index
// and tracks corpus-wide document frequency. It is built in a single pass
// over the corpus and frozen afterwards; index order is first-seen and has no
// semantic meaning beyond being stable for the lifetime of one Index.
type Vocabulary struct {
	indexOf map[string]int
	df      []int
	docs    int
}

// BuildVocabulary constructs a Vocabulary from the per-recipe token sets.
// Document frequency is incremented once per recipe per distinct token,
// regardless of how many lines produced it.
func BuildVocabulary(tokenSets []TokenCounts) (*Vocabulary, error) {
	if len(tokenSets) == 0 {
		return nil, ErrEmptyCorpus
	}
	v := &Vocabulary{
		indexOf: make(map[string]int),
		docs:    len(tokenSets),
	}
	for _, set := range tokenSets {
		for tok := range set {
			idx, ok := v.indexOf[tok]
			if !ok {
				idx = len(v.df)
				v.indexOf[tok] = idx
				v.df = append(v.df, 0)
			}
			v.df[idx]++
		}
	}
	return v, nil
}

// Lookup returns the index and document frequency of a token. The boolean is
// false for out-of-vocabulary tokens, which callers skip rather than error on.
func (v *Vocabulary) Lookup(token string) (index, df int, ok bool) {
	idx, ok := v.indexOf[token]
	if !ok {
		return 0, 0, false
	}
	return idx, v.df[idx], true
}

// Size returns the number of distinct tokens in the vocabulary.
func (v *Vocabulary) Size() int { return len(v.df) }

// Docs returns the corpus size N the vocabulary was built from.
func (v *Vocabulary) Docs() int { return v.docs }
