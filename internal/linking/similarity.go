package linking

import (
	"math"
	"sort"

	"github.com/contentiq/contentiq/internal/models"
)

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// scoredCandidate pairs a candidate with its similarity to the current
// article.
type scoredCandidate struct {
	article    models.PublishedArticle
	similarity float64
}

// findSimilar ranks candidates by cosine similarity to current, keeps those
// at or above the threshold, and returns at most maxResults in descending
// similarity order.
func findSimilar(current []float32, candidates []scoredCandidate, maxResults int, threshold float64) []scoredCandidate {
	kept := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		sim := CosineSimilarity(current, c.article.Embedding)
		if sim >= threshold {
			c.similarity = sim
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].similarity > kept[j].similarity })
	if len(kept) > maxResults {
		kept = kept[:maxResults]
	}
	return kept
}
