package memory

import (
	"context"
	"testing"

	"notecraft-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassageRepository_QueryRanksByCosine(t *testing.T) {
	repo := NewPassageRepository()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "biology", []vectorstore.Record{
		{ID: uuid.NewString(), Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{Text: "aligned", Source: "pubmed"}},
		{ID: uuid.NewString(), Vector: []float32{0, 1}, Metadata: vectorstore.Metadata{Text: "orthogonal", Source: "pubmed"}},
		{ID: uuid.NewString(), Vector: []float32{1, 1}, Metadata: vectorstore.Metadata{Text: "diagonal", Source: "pubmed"}},
	}))
	require.NoError(t, repo.Upsert(ctx, "physics", []vectorstore.Record{
		{ID: uuid.NewString(), Vector: []float32{1, 0}, Metadata: vectorstore.Metadata{Text: "other namespace"}},
	}))

	matches, err := repo.Query(ctx, "biology", []float32{2, 0}, 2)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "aligned", matches[0].Metadata.Text)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "diagonal", matches[1].Metadata.Text)
	assert.Equal(t, "biology", matches[0].Metadata.Namespace)
}

func TestPassageRepository_EmptyNamespace(t *testing.T) {
	repo := NewPassageRepository()

	matches, err := repo.Query(context.Background(), "history", []float32{1, 0}, 3)

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPassageRepository_Count(t *testing.T) {
	repo := NewPassageRepository()
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, "a", []vectorstore.Record{{ID: "not-a-uuid", Vector: []float32{1}}}))
	require.NoError(t, repo.Upsert(ctx, "b", []vectorstore.Record{{Vector: []float32{1}}, {Vector: []float32{1}}}))

	n, err := repo.Count(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestCosineSimilarity_MismatchedLength(t *testing.T) {
	assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
