package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// IndexedPassage is one embedded passage in a subject namespace.
// Rows are append-only; duplicates across concurrent indexing runs are tolerated.
type IndexedPassage struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Namespace string            `gorm:"type:varchar(64);not null;index"`
	Source    string            `gorm:"type:varchar(32);not null"`
	Text      string            `gorm:"type:text;not null"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	Embedding pgvector.Vector   `gorm:"type:vector(768)"` // must match EMBEDDING_DIMENSIONS
	CreatedAt time.Time         `gorm:"autoCreateTime"`
}

func (IndexedPassage) TableName() string {
	return "indexed_passages"
}
