package main

import (
	"context"
	"fmt"
	"io"

	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/rag/indexing"
	"notecraft-be/pkg/rag/namespace"
)

type passageIndexer interface {
	Index(ctx context.Context, job indexing.IndexJob) (int, error)
}

type seeder struct {
	fetchers   *corpus.Registry
	indexer    passageIndexer
	maxResults int
	dryRun     bool
	out        io.Writer
}

type seedStats struct {
	Topics    int
	Documents int
	Passages  int
	Failed    int
}

// seedNamespace fetches every catalog topic of ns and indexes the results.
// A failing topic is reported and skipped.
func (s *seeder) seedNamespace(ctx context.Context, ns namespace.Namespace, topics []string) (seedStats, error) {
	var stats seedStats

	source, ok := ns.Source()
	if !ok {
		return stats, fmt.Errorf("namespace %q has no corpus source", ns)
	}
	fetcher, err := s.fetchers.Get(source)
	if err != nil {
		return stats, err
	}

	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Topics++

		docs, err := fetcher.FetchByTopic(ctx, topic, s.maxResults)
		if err != nil {
			stats.Failed++
			fmt.Fprintf(s.out, "  ✗ %s: fetch failed: %v\n", topic, err)
			continue
		}
		if len(docs) == 0 {
			fmt.Fprintf(s.out, "  - %s: no documents found\n", topic)
			continue
		}
		stats.Documents += len(docs)

		if s.dryRun {
			fmt.Fprintf(s.out, "  ~ %s: %d documents (dry run)\n", topic, len(docs))
			continue
		}

		written, err := s.indexer.Index(ctx, indexing.IndexJob{
			Namespace: string(ns),
			Source:    source,
			Documents: docs,
		})
		stats.Passages += written
		if err != nil {
			stats.Failed++
			fmt.Fprintf(s.out, "  ✗ %s: indexing failed after %d passages: %v\n", topic, written, err)
			continue
		}
		fmt.Fprintf(s.out, "  ✓ %s: %d documents, %d passages\n", topic, len(docs), written)
	}
	return stats, nil
}
