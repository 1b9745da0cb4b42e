package entity

import (
	"time"

	"github.com/google/uuid"
)

type Passage struct {
	Id        uuid.UUID
	Namespace string
	Source    string
	Title     string
	URL       string
	Text      string
	Embedding []float32
	CreatedAt time.Time
}

// ScoredPassage wraps Passage with its cosine similarity to a query vector.
type ScoredPassage struct {
	Passage    *Passage
	Similarity float64
}
