// Package retrieval implements best-effort context lookup: the vector store
// acts as a soft cache in front of the external corpus fetchers.
package retrieval

import (
	"context"
	"strings"
	"time"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/embedding"
	"notecraft-be/pkg/rag"
	"notecraft-be/pkg/rag/indexing"
	"notecraft-be/pkg/rag/namespace"
	"notecraft-be/pkg/vectorstore"
)

type Config struct {
	TopK     int
	MinScore float64
	MaxFetch int
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		TopK:     3,
		MinScore: 0.2,
		MaxFetch: 3,
		Timeout:  20 * time.Second,
	}
}

type Resolver struct {
	embedder  embedding.EmbeddingProvider
	store     vectorstore.Store
	fetchers  *corpus.Registry
	scheduler indexing.Scheduler
	cfg       Config
	logger    logger.ILogger
}

func NewResolver(
	embedder embedding.EmbeddingProvider,
	store vectorstore.Store,
	fetchers *corpus.Registry,
	scheduler indexing.Scheduler,
	cfg Config,
	log logger.ILogger,
) *Resolver {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.MaxFetch <= 0 {
		cfg.MaxFetch = DefaultConfig().MaxFetch
	}
	return &Resolver{
		embedder:  embedder,
		store:     store,
		fetchers:  fetchers,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    log,
	}
}

// Resolve never fails. A vector store hit returns the stored passages, a miss
// falls back to the namespace's corpus fetcher and schedules the fetched
// documents for indexing, and anything else yields rag.EmptyContext.
func (r *Resolver) Resolve(ctx context.Context, topic string, ns namespace.Namespace) rag.ContextBundle {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	if docs := r.lookup(ctx, topic, ns); len(docs) > 0 {
		return rag.ContextBundle{Message: rag.MessageFound, Documents: docs, Source: rag.SourceVectorStore}
	}

	fetched, source := r.fetch(ctx, topic, ns)
	if len(fetched) == 0 {
		return rag.EmptyContext()
	}

	texts := make([]string, len(fetched))
	for i, d := range fetched {
		texts[i] = d.Text
	}

	r.schedule(ctx, indexing.IndexJob{
		Namespace: ns.String(),
		Source:    source,
		Documents: append([]corpus.Document(nil), fetched...),
	})

	return rag.ContextBundle{Message: rag.MessageFetched, Documents: texts, Source: rag.SourceExternalFetch}
}

// lookup returns passages scoring at least MinScore. Errors count as a miss.
func (r *Resolver) lookup(ctx context.Context, topic string, ns namespace.Namespace) []string {
	vectors, err := r.embedder.Generate(ctx, []string{topic}, embedding.TaskQuery)
	if err != nil || len(vectors) != 1 {
		r.logger.Warn("Resolver", "Query embedding failed, treating as miss", map[string]interface{}{
			"namespace": ns,
			"error":     errString(err),
		})
		return nil
	}

	matches, err := r.store.Query(ctx, ns.String(), vectors[0], r.cfg.TopK)
	if err != nil {
		r.logger.Warn("Resolver", "Vector store query failed, treating as miss", map[string]interface{}{
			"namespace": ns,
			"error":     err.Error(),
		})
		return nil
	}

	docs := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Score < r.cfg.MinScore || strings.TrimSpace(m.Metadata.Text) == "" {
			continue
		}
		docs = append(docs, m.Metadata.Text)
	}
	return docs
}

func (r *Resolver) fetch(ctx context.Context, topic string, ns namespace.Namespace) ([]corpus.Document, corpus.Source) {
	source, ok := ns.Source()
	if !ok {
		r.logger.Warn("Resolver", "Namespace has no corpus source", map[string]interface{}{"namespace": ns})
		return nil, ""
	}
	fetcher, err := r.fetchers.Get(source)
	if err != nil {
		r.logger.Warn("Resolver", "No fetcher for source", map[string]interface{}{"source": source})
		return nil, source
	}

	docs, err := fetcher.FetchByTopic(ctx, topic, r.cfg.MaxFetch)
	if err != nil {
		r.logger.Warn("Resolver", "Corpus fetch failed", map[string]interface{}{
			"source": source,
			"topic":  topic,
			"error":  err.Error(),
		})
		return nil, source
	}

	out := make([]corpus.Document, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Text) != "" {
			out = append(out, d)
		}
		if len(out) == r.cfg.MaxFetch {
			break
		}
	}
	return out, source
}

func (r *Resolver) schedule(ctx context.Context, job indexing.IndexJob) {
	if r.scheduler == nil {
		return
	}
	// The job outlives this request.
	if err := r.scheduler.Schedule(context.WithoutCancel(ctx), job); err != nil {
		r.logger.Error("Resolver", "Failed to schedule indexing", map[string]interface{}{
			"namespace": job.Namespace,
			"error":     err,
		})
	}
}

func errString(err error) string {
	if err == nil {
		return "unexpected vector count"
	}
	return err.Error()
}
