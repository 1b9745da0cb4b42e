package embedding

import (
	"context"
	"math"
)

// TaskType tells the provider whether it embeds a search query or a stored passage.
// Asymmetric models produce different vectors for the two.
type TaskType string

const (
	TaskQuery   TaskType = "query"
	TaskPassage TaskType = "passage"
)

// EmbeddingProvider defines the interface for generating text embeddings.
// The returned vectors are one-to-one with texts, in input order.
type EmbeddingProvider interface {
	Generate(ctx context.Context, texts []string, taskType TaskType) ([][]float32, error)
}

// normalizeVector normalizes a vector to unit length (magnitude = 1)
// This is REQUIRED for accurate cosine similarity calculation
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	// Avoid division by zero
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
