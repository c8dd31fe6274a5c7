package search

import (
	"math"
	"sort"

	"github.com/poiesic/campfinder/core"
)

// DefaultMaxResults is the number of matches returned when the caller does
// not specify a limit.
const DefaultMaxResults = 12

// CosineSimilarity computes the cosine of the angle between two vectors.
// When either vector has zero magnitude the result is 0; this guards the
// division rather than reporting a mathematically pure similarity, and
// ranking relies on exactly that behavior.
func CosineSimilarity(a, b []float32) float32 {
	var dot, magA, magB float64
	for i := 0; i < len(a) && i < len(b); i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		magA += float64(v) * float64(v)
	}
	for _, v := range b {
		magB += float64(v) * float64(v)
	}

	magnitude := math.Sqrt(magA) * math.Sqrt(magB)
	if magnitude == 0 {
		return 0
	}

	return float32(dot / magnitude)
}

// Rank scores every searchable initiative against the query embedding and
// returns the top maxHits, ordered by similarity descending. Ties keep
// catalog insertion order. Records without a description, without an
// embedding, or with an embedding of mismatched dimensionality are skipped
// silently.
//
// Rank is pure: no I/O, deterministic for fixed inputs.
func Rank(queryEmbedding []float32, initiatives []*core.Initiative, maxHits int) []*core.ScoredInitiative {
	if maxHits <= 0 {
		maxHits = DefaultMaxResults
	}

	scored := make([]*core.ScoredInitiative, 0, len(initiatives))
	for _, initiative := range initiatives {
		if initiative == nil || !initiative.Searchable(len(queryEmbedding)) {
			continue
		}

		scored = append(scored, &core.ScoredInitiative{
			Initiative: initiative,
			Similarity: CosineSimilarity(queryEmbedding, initiative.Embedding),
		})
	}

	// Stable sort keeps insertion order for equal scores, so output is
	// deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > maxHits {
		scored = scored[:maxHits]
	}

	return scored
}
