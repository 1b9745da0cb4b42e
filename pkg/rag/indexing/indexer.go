// Package indexing embeds freshly fetched documents and writes them to the
// vector store so later queries on the same topic hit the cache.
package indexing

import (
	"context"
	"fmt"
	"strings"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/embedding"
	"notecraft-be/pkg/utils"
	"notecraft-be/pkg/vectorstore"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// IndexJob is the unit of background work produced by a retrieval miss.
// Documents are a copy owned by the job.
type IndexJob struct {
	Namespace string            `json:"namespace"`
	Source    corpus.Source     `json:"source"`
	Documents []corpus.Document `json:"documents"`
}

// Scheduler accepts index jobs without waiting for them to run.
type Scheduler interface {
	Schedule(ctx context.Context, job IndexJob) error
}

type Config struct {
	ChunkSize        int
	ChunkOverlap     int
	EmbedBatchSize   int
	EmbedConcurrency int
	UpsertBatchSize  int
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:        2000,
		ChunkOverlap:     200,
		EmbedBatchSize:   32,
		EmbedConcurrency: 4,
		UpsertBatchSize:  100,
	}
}

type Indexer struct {
	embedder embedding.EmbeddingProvider
	store    vectorstore.Store
	cfg      Config
	logger   logger.ILogger
}

func NewIndexer(embedder embedding.EmbeddingProvider, store vectorstore.Store, cfg Config, log logger.ILogger) *Indexer {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 0
	}
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = def.EmbedBatchSize
	}
	if cfg.EmbedConcurrency <= 0 {
		cfg.EmbedConcurrency = def.EmbedConcurrency
	}
	if cfg.UpsertBatchSize <= 0 {
		cfg.UpsertBatchSize = def.UpsertBatchSize
	}
	return &Indexer{embedder: embedder, store: store, cfg: cfg, logger: log}
}

// Index chunks, embeds and upserts the job's documents. It returns the
// number of passages written. Each passage gets a fresh id, so indexing the
// same document twice stores it twice.
func (ix *Indexer) Index(ctx context.Context, job IndexJob) (int, error) {
	passages := ix.passages(job)
	if len(passages) == 0 {
		return 0, nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	vectors, err := ix.embed(ctx, texts)
	if err != nil {
		return 0, err
	}

	records := make([]vectorstore.Record, len(passages))
	for i, p := range passages {
		records[i] = vectorstore.Record{
			ID:       uuid.NewString(),
			Vector:   vectors[i],
			Metadata: p,
		}
	}

	written := 0
	for start := 0; start < len(records); start += ix.cfg.UpsertBatchSize {
		end := min(start+ix.cfg.UpsertBatchSize, len(records))
		if err := ix.store.Upsert(ctx, job.Namespace, records[start:end]); err != nil {
			return written, fmt.Errorf("upsert passages %d-%d: %w", start, end, err)
		}
		written = end
	}

	ix.logger.Info("Indexer", "Passages indexed", map[string]interface{}{
		"namespace": job.Namespace,
		"source":    job.Source,
		"documents": len(job.Documents),
		"passages":  written,
	})
	return written, nil
}

func (ix *Indexer) passages(job IndexJob) []vectorstore.Metadata {
	out := make([]vectorstore.Metadata, 0, len(job.Documents))
	for _, doc := range job.Documents {
		text := strings.TrimSpace(doc.Text)
		if text == "" {
			continue
		}
		for _, chunk := range utils.SplitText(text, ix.cfg.ChunkSize, ix.cfg.ChunkOverlap) {
			out = append(out, vectorstore.Metadata{
				Text:      chunk,
				Namespace: job.Namespace,
				Source:    string(job.Source),
				Title:     doc.Title,
				URL:       doc.URL,
			})
		}
	}
	return out
}

// embed splits texts into provider-sized batches and runs a bounded number
// of them at once. Output order matches input order.
func (ix *Indexer) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(ix.cfg.EmbedConcurrency)

	for start := 0; start < len(texts); start += ix.cfg.EmbedBatchSize {
		end := min(start+ix.cfg.EmbedBatchSize, len(texts))
		g.Go(func() error {
			batch, err := ix.embedder.Generate(gCtx, texts[start:end], embedding.TaskPassage)
			if err != nil {
				return fmt.Errorf("embedding passages %d-%d: %w", start, end, err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("embedding passages %d-%d: got %d vectors", start, end, len(batch))
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
