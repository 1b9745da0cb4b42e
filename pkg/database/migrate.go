package database

import (
	"fmt"

	"gorm.io/gorm"
)

var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS vector;`,
}

// Migrate prepares extensions and runs AutoMigrate for models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup sql failed: %w", err)
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	// AutoMigrate does not create vector indexes.
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_indexed_passages_embedding ON indexed_passages USING hnsw (embedding vector_cosine_ops);`).Error
}
