// Package vectorstore defines the namespaced nearest-neighbour index the
// retrieval pipeline reads from and the background indexer writes to.
package vectorstore

import "context"

// Metadata travels with every stored vector.
type Metadata struct {
	Text      string `json:"text"`
	Namespace string `json:"namespace"`
	Source    string `json:"source"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Record is one vector to upsert. IDs are generated by the writer and records
// are never mutated after creation.
type Record struct {
	ID       string
	Vector   []float32
	Metadata Metadata
}

// Match is a query hit. Score is cosine similarity, 1.0 meaning identical.
type Match struct {
	ID       string
	Score    float64
	Metadata Metadata
}

// Store is safe for concurrent use. Upsert is atomic per record.
type Store interface {
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error)
	Upsert(ctx context.Context, namespace string, records []Record) error
}
