package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/rag/indexing"
	"notecraft-be/pkg/rag/namespace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type topicFetcher struct {
	docs map[string][]corpus.Document
	fail map[string]bool
}

func (f *topicFetcher) FetchByTopic(ctx context.Context, topic string, maxResults int) ([]corpus.Document, error) {
	if f.fail[topic] {
		return nil, errors.New("connection reset")
	}
	docs := f.docs[topic]
	if len(docs) > maxResults {
		docs = docs[:maxResults]
	}
	return docs, nil
}

type recordingIndexer struct {
	jobs []indexing.IndexJob
}

func (r *recordingIndexer) Index(ctx context.Context, job indexing.IndexJob) (int, error) {
	r.jobs = append(r.jobs, job)
	return len(job.Documents), nil
}

func newTestSeeder(f corpus.Fetcher, idx passageIndexer, dryRun bool) (*seeder, *bytes.Buffer) {
	reg := corpus.NewRegistry()
	reg.Register(corpus.SourcePubmed, f)
	out := &bytes.Buffer{}
	return &seeder{fetchers: reg, indexer: idx, maxResults: 2, dryRun: dryRun, out: out}, out
}

func TestSeedNamespace(t *testing.T) {
	f := &topicFetcher{
		docs: map[string][]corpus.Document{
			"genomics": {{Title: "a", Text: "A"}, {Title: "b", Text: "B"}, {Title: "c", Text: "C"}},
			"ecology":  {{Title: "d", Text: "D"}},
		},
		fail: map[string]bool{"botany": true},
	}
	idx := &recordingIndexer{}
	s, out := newTestSeeder(f, idx, false)

	stats, err := s.seedNamespace(context.Background(), namespace.Biology, []string{"genomics", "ecology", "botany", "zoology"})

	require.NoError(t, err)
	assert.Equal(t, seedStats{Topics: 4, Documents: 3, Passages: 3, Failed: 1}, stats)
	require.Len(t, idx.jobs, 2)
	assert.Equal(t, "biology", idx.jobs[0].Namespace)
	assert.Equal(t, corpus.SourcePubmed, idx.jobs[0].Source)
	assert.Len(t, idx.jobs[0].Documents, 2)
	assert.Contains(t, out.String(), "botany: fetch failed")
	assert.Contains(t, out.String(), "zoology: no documents found")
}

func TestSeedNamespace_DryRunSkipsIndexing(t *testing.T) {
	f := &topicFetcher{docs: map[string][]corpus.Document{"genomics": {{Title: "a", Text: "A"}}}}
	s, _ := newTestSeeder(f, nil, true)

	stats, err := s.seedNamespace(context.Background(), namespace.Biology, []string{"genomics"})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Zero(t, stats.Passages)
}

func TestSeedNamespace_MissingFetcher(t *testing.T) {
	s, _ := newTestSeeder(&topicFetcher{}, &recordingIndexer{}, false)

	_, err := s.seedNamespace(context.Background(), namespace.Physics, []string{"optics"})

	assert.Error(t, err)
}

func TestSelectNamespaces(t *testing.T) {
	got, err := selectNamespaces([]string{"medicine", "Biology", "medicine"}, false)
	require.NoError(t, err)
	assert.Equal(t, []namespace.Namespace{namespace.Biology, namespace.Medicine}, got)

	_, err = selectNamespaces([]string{"astrology"}, false)
	assert.Error(t, err)

	_, err = selectNamespaces(nil, false)
	assert.Error(t, err)

	all, err := selectNamespaces(nil, true)
	require.NoError(t, err)
	assert.Len(t, all, len(namespace.All))
}

func TestCatalogCoversEveryNamespace(t *testing.T) {
	for _, ns := range namespace.All {
		assert.NotEmpty(t, catalog[ns], "namespace %s has no seed topics", ns)
	}
}
