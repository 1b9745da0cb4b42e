package implementation

import (
	"context"
	"time"

	"notecraft-be/internal/entity"
	"notecraft-be/internal/mapper"
	"notecraft-be/internal/model"
	"notecraft-be/internal/repository/contract"
	"notecraft-be/pkg/vectorstore"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PassageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PassageMapper
}

func NewPassageRepository(db *gorm.DB) contract.PassageRepository {
	return &PassageRepositoryImpl{
		db:     db,
		mapper: mapper.NewPassageMapper(),
	}
}

func (r *PassageRepositoryImpl) CreateBulk(ctx context.Context, passages []*entity.Passage) error {
	if len(passages) == 0 {
		return nil
	}
	models := make([]*model.IndexedPassage, len(passages))
	now := time.Now()
	for i, p := range passages {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		models[i] = r.mapper.ToModel(p)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(models).Error
}

// SearchSimilarWithScore returns passages with similarity scores, best first.
func (r *PassageRepositoryImpl) SearchSimilarWithScore(ctx context.Context, namespace string, embedding []float32, limit int) ([]*entity.ScoredPassage, error) {
	if limit <= 0 {
		limit = 3
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.IndexedPassage
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("indexed_passages").
		Select("indexed_passages.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("namespace = ?", namespace).
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredPassage, len(results))
	for i := range results {
		scored[i] = &entity.ScoredPassage{
			Passage:    r.mapper.ToEntity(&results[i].IndexedPassage),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

func (r *PassageRepositoryImpl) Count(ctx context.Context, namespace string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.IndexedPassage{})
	if namespace != "" {
		query = query.Where("namespace = ?", namespace)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *PassageRepositoryImpl) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
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

func (r *PassageRepositoryImpl) Upsert(ctx context.Context, namespace string, records []vectorstore.Record) error {
	passages := make([]*entity.Passage, len(records))
	for i, rec := range records {
		passages[i] = r.mapper.FromRecord(namespace, rec)
	}
	return r.CreateBulk(ctx, passages)
}
