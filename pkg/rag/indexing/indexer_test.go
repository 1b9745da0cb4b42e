package indexing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/embedding"
	"notecraft-be/pkg/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEmbedder) Generate(ctx context.Context, texts []string, taskType embedding.TaskType) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

type recordingStore struct {
	mu      sync.Mutex
	batches [][]vectorstore.Record
	err     error
}

func (s *recordingStore) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	return nil, nil
}

func (s *recordingStore) Upsert(ctx context.Context, namespace string, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, append([]vectorstore.Record(nil), records...))
	return nil
}

func docs(n int) []corpus.Document {
	out := make([]corpus.Document, n)
	for i := range out {
		out[i] = corpus.Document{Title: fmt.Sprintf("doc %d", i), Text: fmt.Sprintf("passage text %d", i)}
	}
	return out
}

func TestIndexSingleUpsertForSmallJob(t *testing.T) {
	store := &recordingStore{}
	ix := NewIndexer(&fakeEmbedder{}, store, DefaultConfig(), logger.NewNopLogger())

	n, err := ix.Index(context.Background(), IndexJob{Namespace: "biology", Source: corpus.SourcePubmed, Documents: docs(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, store.batches, 1)
	batch := store.batches[0]
	require.Len(t, batch, 3)

	ids := map[string]bool{}
	for i, rec := range batch {
		assert.NotEmpty(t, rec.ID)
		ids[rec.ID] = true
		assert.Equal(t, fmt.Sprintf("passage text %d", i), rec.Metadata.Text)
		assert.Equal(t, "biology", rec.Metadata.Namespace)
		assert.Equal(t, "pubmed", rec.Metadata.Source)
		assert.Equal(t, float32(len(rec.Metadata.Text)), rec.Vector[0])
	}
	assert.Len(t, ids, 3)
}

func TestIndexBatchesLargeJobs(t *testing.T) {
	store := &recordingStore{}
	emb := &fakeEmbedder{}
	ix := NewIndexer(emb, store, DefaultConfig(), logger.NewNopLogger())

	n, err := ix.Index(context.Background(), IndexJob{Namespace: "physics", Source: corpus.SourceArxiv, Documents: docs(250)})
	require.NoError(t, err)
	assert.Equal(t, 250, n)

	require.Len(t, store.batches, 3)
	assert.Len(t, store.batches[0], 100)
	assert.Len(t, store.batches[1], 100)
	assert.Len(t, store.batches[2], 50)
	// 250 passages in embed batches of 32
	assert.Equal(t, 8, emb.calls)
	assert.Equal(t, "passage text 249", store.batches[2][49].Metadata.Text)
}

func TestIndexChunksLongDocuments(t *testing.T) {
	store := &recordingStore{}
	cfg := DefaultConfig()
	cfg.ChunkSize = 10
	cfg.ChunkOverlap = 0
	ix := NewIndexer(&fakeEmbedder{}, store, cfg, logger.NewNopLogger())

	job := IndexJob{Namespace: "history", Source: corpus.SourceWikipedia, Documents: []corpus.Document{
		{Title: "Rome", Text: strings.Repeat("a", 25)},
		{Title: "empty", Text: "   "},
	}}
	n, err := ix.Index(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, rec := range store.batches[0] {
		assert.Equal(t, "Rome", rec.Metadata.Title)
	}
}

func TestIndexNothingToDo(t *testing.T) {
	store := &recordingStore{}
	ix := NewIndexer(&fakeEmbedder{}, store, DefaultConfig(), logger.NewNopLogger())

	n, err := ix.Index(context.Background(), IndexJob{Namespace: "history"})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.batches)
}

func TestIndexErrors(t *testing.T) {
	ix := NewIndexer(&fakeEmbedder{err: errors.New("embed down")}, &recordingStore{}, DefaultConfig(), logger.NewNopLogger())
	_, err := ix.Index(context.Background(), IndexJob{Namespace: "biology", Documents: docs(2)})
	assert.ErrorContains(t, err, "embed down")

	ix = NewIndexer(&fakeEmbedder{}, &recordingStore{err: errors.New("store down")}, DefaultConfig(), logger.NewNopLogger())
	_, err = ix.Index(context.Background(), IndexJob{Namespace: "biology", Documents: docs(2)})
	assert.ErrorContains(t, err, "store down")
}
