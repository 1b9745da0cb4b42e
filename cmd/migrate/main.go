package main

import (
	"log"

	"notecraft-be/internal/config"
	"notecraft-be/internal/model"
	"notecraft-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database
	db, err := database.Open(cfg.Database.DatabaseOptions())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Migrating indexed_passages...")
	if err := database.Migrate(db, &model.IndexedPassage{}); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}
	log.Println("✅ Migration completed")
}
