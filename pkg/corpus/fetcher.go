package corpus

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Source identifies an external corpus family.
type Source string

const (
	SourceArxiv     Source = "arxiv"
	SourcePubmed    Source = "pubmed"
	SourceWikipedia Source = "wikipedia"
)

// Document is a unit of freshly fetched text.
type Document struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
}

// Fetcher retrieves documents for a free-text topic. Implementations return an
// empty slice when nothing matches and an error only on transport failures.
type Fetcher interface {
	FetchByTopic(ctx context.Context, topic string, maxResults int) ([]Document, error)
}

// Registry routes a source family to its fetcher.
type Registry struct {
	fetchers map[Source]Fetcher
}

func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[Source]Fetcher)}
}

// NewDefaultRegistry wires the arXiv, PubMed and Wikipedia fetchers sharing one HTTP client.
func NewDefaultRegistry(timeout time.Duration, pubmedAPIKey string) *Registry {
	client := &http.Client{Timeout: timeout}
	r := NewRegistry()
	r.Register(SourceArxiv, NewArxivFetcher(client))
	r.Register(SourcePubmed, NewPubmedFetcher(client, pubmedAPIKey))
	r.Register(SourceWikipedia, NewWikipediaFetcher(client))
	return r
}

func (r *Registry) Register(source Source, f Fetcher) {
	r.fetchers[source] = f
}

func (r *Registry) Get(source Source) (Fetcher, error) {
	f, ok := r.fetchers[source]
	if !ok {
		return nil, fmt.Errorf("no fetcher registered for source %q", source)
	}
	return f, nil
}
