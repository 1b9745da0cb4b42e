package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"notecraft-be/internal/entity"
	"notecraft-be/internal/mapper"
	"notecraft-be/internal/repository/contract"
	"notecraft-be/pkg/vectorstore"
)

// PassageRepository is an in-process vector store using brute force cosine
// similarity. Meant for local runs without Postgres and for tests.
type PassageRepository struct {
	mu         sync.RWMutex
	namespaces map[string][]*entity.Passage
	mapper     *mapper.PassageMapper
}

var _ contract.PassageRepository = (*PassageRepository)(nil)

func NewPassageRepository() *PassageRepository {
	return &PassageRepository{
		namespaces: make(map[string][]*entity.Passage),
		mapper:     mapper.NewPassageMapper(),
	}
}

func (r *PassageRepository) CreateBulk(ctx context.Context, passages []*entity.Passage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, p := range passages {
		stored := *p
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		stored.Embedding = append([]float32(nil), p.Embedding...)
		r.put(&stored)
	}
	return nil
}

func (r *PassageRepository) put(p *entity.Passage) {
	existing := r.namespaces[p.Namespace]
	for i, e := range existing {
		if e.Id == p.Id {
			existing[i] = p
			return
		}
	}
	r.namespaces[p.Namespace] = append(existing, p)
}

func (r *PassageRepository) SearchSimilarWithScore(ctx context.Context, namespace string, embedding []float32, limit int) ([]*entity.ScoredPassage, error) {
	if limit <= 0 {
		limit = 3
	}

	r.mu.RLock()
	passages := r.namespaces[namespace]
	scored := make([]*entity.ScoredPassage, 0, len(passages))
	for _, p := range passages {
		scored = append(scored, &entity.ScoredPassage{
			Passage:    p,
			Similarity: cosineSimilarity(embedding, p.Embedding),
		})
	}
	r.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *PassageRepository) Count(ctx context.Context, namespace string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if namespace != "" {
		return int64(len(r.namespaces[namespace])), nil
	}
	var total int64
	for _, ps := range r.namespaces {
		total += int64(len(ps))
	}
	return total, nil
}

func (r *PassageRepository) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	scored, err := r.SearchSimilarWithScore(ctx, namespace, vector, topK)
	if err != nil {
		return nil, err
	}
	matches := make([]vectorstore.Match, len(scored))
	for i, s := range scored {
		matches[i] = r.mapper.ToMatch(s)
	}
	return matches, nil
}

func (r *PassageRepository) Upsert(ctx context.Context, namespace string, records []vectorstore.Record) error {
	passages := make([]*entity.Passage, len(records))
	for i, rec := range records {
		passages[i] = r.mapper.FromRecord(namespace, rec)
	}
	return r.CreateBulk(ctx, passages)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
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
