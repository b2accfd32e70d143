package search

import (
	"errors"
	"testing"
)

func TestBuildVocabulary_EmptyCorpus(t *testing.T) {
	if _, err := BuildVocabulary(nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestBuildVocabulary_DFPerRecipeNotPerLine(t *testing.T) {
	sets := []TokenCounts{
		{"chicken": 3, "rice": 1}, // chicken on 3 lines of one recipe
		{"rice": 2},
		{"beef": 1},
	}
	v, err := BuildVocabulary(sets)
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}
	if v.Docs() != 3 {
		t.Fatalf("Docs = %d, want 3", v.Docs())
	}
	if v.Size() != 3 {
		t.Fatalf("Size = %d, want 3", v.Size())
	}

	if _, df, ok := v.Lookup("chicken"); !ok || df != 1 {
		t.Fatalf("chicken df = %d (ok=%v), want 1", df, ok)
	}
	if _, df, ok := v.Lookup("rice"); !ok || df != 2 {
		t.Fatalf("rice df = %d (ok=%v), want 2", df, ok)
	}
	if _, _, ok := v.Lookup("tofu"); ok {
		t.Fatalf("unexpected vocabulary hit for absent token")
	}
}

func TestBuildVocabulary_FirstSeenIndexOrder(t *testing.T) {
	sets := []TokenCounts{{"a": 1}, {"b": 1, "a": 1}, {"c": 1}}
	v, err := BuildVocabulary(sets)
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}
	// Indices are dense and stable within one build.
	seen := make(map[int]bool)
	for _, tok := range []string{"a", "b", "c"} {
		idx, _, ok := v.Lookup(tok)
		if !ok {
			t.Fatalf("missing token %q", tok)
		}
		if idx < 0 || idx >= v.Size() || seen[idx] {
			t.Fatalf("index %d for %q out of range or duplicated", idx, tok)
		}
		seen[idx] = true
	}
}
