// Package search implements the in-memory ingredient-similarity engine: a
// deterministic, concurrency-safe TF-IDF index over recipe ingredient lists.
// It is intentionally small and free of transport concerns:
//
//   - No logging in the library (callers decide how/what to log)
//   - Immutable, read-only index after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//   - Corpus reloads publish a fresh index atomically via Store
//
// Scoring uses cosine similarity between L2-normalized TF-IDF vectors, which
// reduces to a sparse dot product. The corpus is small enough that ranking is
// a full linear scan; no approximate shortcuts are taken.
package search

import (
	"regexp"
	"strings"
)

// TokenCounts maps a canonical ingredient token to its term frequency within
// one document (recipe or query): the number of raw lines that produced it.
type TokenCounts map[string]int

// wordRE extracts runs of ASCII letters; digits, fractions, and punctuation
// act as boundaries and are discarded.
var wordRE = regexp.MustCompile(`[a-z]+`)

// unitWords are measurement terms stripped from ingredient lines before
// tokenization. Both singular and plural spellings are listed so that
// singularization order does not matter.
var unitWords = map[string]struct{}{
	"cup": {}, "cups": {},
	"tablespoon": {}, "tablespoons": {}, "tbsp": {},
	"teaspoon": {}, "teaspoons": {}, "tsp": {},
	"ounce": {}, "ounces": {}, "oz": {},
	"pound": {}, "pounds": {}, "lb": {}, "lbs": {},
	"gram": {}, "grams": {}, "g": {}, "kg": {},
	"ml": {}, "l": {}, "liter": {}, "liters": {},
	"clove": {}, "cloves": {},
	"pinch": {}, "pinches": {},
	"dash": {}, "dashes": {},
	"slice": {}, "slices": {},
	"can": {}, "cans": {},
	"package": {}, "packages": {}, "pkg": {},
	"stick": {}, "sticks": {},
	"quart": {}, "quarts": {}, "pint": {}, "pints": {},
	"gallon": {}, "gallons": {},
}

// stopWords are filler terms that carry no matching signal in ingredient
// lines. Preparation adjectives are included because the source dataset mixes
// them freely into ingredient parts ("fresh chopped parsley").
var stopWords = map[string]struct{}{
	"and": {}, "of": {}, "the": {}, "to": {}, "or": {}, "a": {}, "an": {},
	"for": {}, "with": {}, "in": {}, "into": {}, "at": {},
	"fresh": {}, "taste": {}, "optional": {},
	"dried": {}, "chopped": {}, "sliced": {}, "diced": {}, "minced": {},
	"ground": {}, "grated": {}, "shredded": {}, "melted": {}, "softened": {},
	"large": {}, "small": {}, "medium": {},
}

// Normalize converts raw ingredient lines into canonical token counts.
//
// Each line is lowercased, stripped of quantities and unit words, split on
// non-letter boundaries, filtered against the stopword list, and singularized.
// Tokens are deduplicated within a line, so a token's count is the number of
// lines that mention it — the term frequency used by Vectorize.
//
// An empty result is legal: a recipe whose lines yield no tokens is simply
// unmatchable, never an error.
func Normalize(lines []string) TokenCounts {
	counts := make(TokenCounts)
	for _, line := range lines {
		seen := make(map[string]struct{})
		for _, tok := range tokenizeLine(line) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			counts[tok]++
		}
	}
	return counts
}

// tokenizeLine canonicalizes a single raw ingredient line into tokens.
// Duplicates within the line are preserved; Normalize dedupes per line.
func tokenizeLine(line string) []string {
	line = strings.ToLower(line)

	words := wordRE.FindAllString(line, -1)
	if len(words) == 0 {
		return nil
	}

	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, unit := unitWords[w]; unit {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		w = singularize(w)
		if w == "" {
			continue
		}
		// Stopwords may resurface after singularization ("cloves" → handled
		// above, but e.g. "tastes" → "taste").
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, unit := unitWords[w]; unit {
			continue
		}
		out = append(out, w)
	}
	return out
}

// singularize trims a trailing "s" from plural tokens. Words ending in "ss"
// ("swiss", "molasses") and two-letter words are left alone.
func singularize(w string) string {
	if len(w) > 2 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}
