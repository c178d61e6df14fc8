package fontsnip

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDimensionMismatch indicates the target vector and the loaded database
// disagree on feature dimensionality. This is a versioning error between
// the extractor and the database file, not a "no match" outcome.
var ErrDimensionMismatch = errors.New("feature vector dimension mismatch")

// MatchResult pairs a font identifier with its cosine similarity to the
// target vector. Similarity is in [-1, 1].
type MatchResult struct {
	FontID     string
	Similarity float64
}

// Aggregate folds per-glyph feature vectors into a single target vector,
// the componentwise arithmetic mean. Vectors whose length differs from
// FeatureVectorSize are dropped; if none remain, Aggregate returns nil.
//
// Zero-sentinel vectors are NOT dropped here. Feeding many legitimate
// all-zero glyphs would skew the mean toward the origin, so callers should
// filter sentinels first, as Identifier does.
func Aggregate(vectors []FeatureVector) FeatureVector {
	sum := make([]float64, FeatureVectorSize)
	count := 0
	for _, vec := range vectors {
		if len(vec) != FeatureVectorSize {
			continue
		}
		for i, c := range vec {
			sum[i] += float64(c)
		}
		count++
	}
	if count == 0 {
		return nil
	}
	target := make(FeatureVector, FeatureVectorSize)
	for i, s := range sum {
		target[i] = float32(s / float64(count))
	}
	return target
}

// CosineSimilarity returns the normalized dot product of two vectors. When
// either norm is zero, or the lengths differ, the similarity is defined as
// exactly 0.0: a degenerate or incomparable vector is maximally dissimilar
// to everything, itself included.
func CosineSimilarity(a, b FeatureVector) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Match ranks every database entry against the target vector by cosine
// similarity and returns at most topN results, best first. Ties are broken
// by the database's load order, so identical inputs always produce the
// identical ranking. A nil target or an empty database yields an empty
// result; a dimensionality disagreement yields ErrDimensionMismatch.
func Match(target FeatureVector, db *FontDatabase, topN int) ([]MatchResult, error) {
	if len(target) == 0 || db == nil || db.Len() == 0 {
		return nil, nil
	}
	if len(target) != db.Dimension() {
		return nil, fmt.Errorf("%w: target has %d components, database has %d",
			ErrDimensionMismatch, len(target), db.Dimension())
	}

	results := make([]MatchResult, 0, db.Len())
	db.Each(func(entry FontEntry) {
		results = append(results, MatchResult{
			FontID:     entry.ID,
			Similarity: CosineSimilarity(target, entry.Vector),
		})
	})

	// Stable sort keeps load order among equal similarities.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if topN < 0 {
		topN = 0
	}
	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}
