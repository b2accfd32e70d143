package search

import "math"

// Vector is a sparse TF-IDF vector: vocabulary index → non-negative weight.
// Vectors produced by Vectorize are L2-normalized, so cosine similarity
// between two of them reduces to a dot product.
type Vector map[int]float64

// Vectorize builds a weighted sparse vector from token counts against a
// frozen vocabulary. Weight per token is tf·idf with the smoothed
// idf = ln((1+N)/(1+df)) + 1, so a token present in every recipe is
// downweighted but never zeroed out. df is floored at 1 and
// out-of-vocabulary tokens are skipped entirely. The result is divided by
// its Euclidean norm; a zero vector (no recognized tokens) stays zero and
// is legal.
func Vectorize(counts TokenCounts, vocab *Vocabulary) Vector {
	vec := make(Vector, len(counts))
	n := float64(vocab.Docs())
	for tok, tf := range counts {
		idx, df, ok := vocab.Lookup(tok)
		if !ok {
			continue
		}
		if df < 1 {
			df = 1
		}
		idf := math.Log((1+n)/(1+float64(df))) + 1
		if w := float64(tf) * idf; w > 0 {
			vec[idx] = w
		}
	}

	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for idx, w := range vec {
		vec[idx] = w / norm
	}
	return vec
}

// Dot returns the dot product of two sparse vectors, iterating the smaller
// side. For L2-normalized inputs this is the cosine similarity.
func (a Vector) Dot(b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var sum float64
	for idx, w := range a {
		if bw, ok := b[idx]; ok {
			sum += w * bw
		}
	}
	return sum
}

// Norm returns the Euclidean norm of the vector. Vectors built by Vectorize
// have norm 1 (within floating-point tolerance) or exactly 0.
func (a Vector) Norm() float64 {
	var sum float64
	for _, w := range a {
		sum += w * w
	}
	return math.Sqrt(sum)
}
