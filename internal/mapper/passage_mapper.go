package mapper

import (
	"notecraft-be/internal/entity"
	"notecraft-be/internal/model"
	"notecraft-be/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type PassageMapper struct{}

func NewPassageMapper() *PassageMapper {
	return &PassageMapper{}
}

func (m *PassageMapper) ToEntity(p *model.IndexedPassage) *entity.Passage {
	if p == nil {
		return nil
	}

	title, _ := p.Metadata["title"].(string)
	url, _ := p.Metadata["url"].(string)

	return &entity.Passage{
		Id:        p.Id,
		Namespace: p.Namespace,
		Source:    p.Source,
		Title:     title,
		URL:       url,
		Text:      p.Text,
		Embedding: p.Embedding.Slice(),
		CreatedAt: p.CreatedAt,
	}
}

func (m *PassageMapper) ToModel(e *entity.Passage) *model.IndexedPassage {
	if e == nil {
		return nil
	}

	meta := datatypes.JSONMap{}
	if e.Title != "" {
		meta["title"] = e.Title
	}
	if e.URL != "" {
		meta["url"] = e.URL
	}

	return &model.IndexedPassage{
		Id:        e.Id,
		Namespace: e.Namespace,
		Source:    e.Source,
		Text:      e.Text,
		Metadata:  meta,
		Embedding: pgvector.NewVector(e.Embedding),
		CreatedAt: e.CreatedAt,
	}
}

// FromRecord converts a vector store record; a malformed or empty ID gets a fresh UUID.
func (m *PassageMapper) FromRecord(namespace string, r vectorstore.Record) *entity.Passage {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		id = uuid.New()
	}
	return &entity.Passage{
		Id:        id,
		Namespace: namespace,
		Source:    r.Metadata.Source,
		Title:     r.Metadata.Title,
		URL:       r.Metadata.URL,
		Text:      r.Metadata.Text,
		Embedding: r.Vector,
	}
}

func (m *PassageMapper) ToMatch(s *entity.ScoredPassage) vectorstore.Match {
	return vectorstore.Match{
		ID:    s.Passage.Id.String(),
		Score: s.Similarity,
		Metadata: vectorstore.Metadata{
			Text:      s.Passage.Text,
			Namespace: s.Passage.Namespace,
			Source:    s.Passage.Source,
			Title:     s.Passage.Title,
			URL:       s.Passage.URL,
		},
	}
}
