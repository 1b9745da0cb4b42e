package contract

import (
	"context"

	"notecraft-be/internal/entity"
	"notecraft-be/pkg/vectorstore"
)

// PassageRepository is the vector store behind context retrieval.
type PassageRepository interface {
	vectorstore.Store

	CreateBulk(ctx context.Context, passages []*entity.Passage) error
	// SearchSimilarWithScore returns the closest passages of a namespace, best first.
	SearchSimilarWithScore(ctx context.Context, namespace string, embedding []float32, limit int) ([]*entity.ScoredPassage, error)
	Count(ctx context.Context, namespace string) (int64, error)
}
