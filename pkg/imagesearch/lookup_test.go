package imagesearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	urls   []string
	err    error
	calls  int
	counts []int
}

func (s *stubProvider) Search(ctx context.Context, query string, count int) ([]string, error) {
	s.calls++
	s.counts = append(s.counts, count)
	if s.err != nil {
		return nil, s.err
	}
	if count < len(s.urls) {
		return s.urls[:count], nil
	}
	return s.urls, nil
}

func TestLookupSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns top hit and caches it", func(t *testing.T) {
		p := &stubProvider{urls: []string{"https://img/1.png", "https://img/2.png"}}
		l := NewLookup(p, cache.NewMemoryCache(), time.Second, logger.NewNopLogger())

		assert.Equal(t, "https://img/1.png", l.Search(ctx, "plant cell diagram"))
		assert.Equal(t, "https://img/1.png", l.Search(ctx, "Plant cell diagram "))
		assert.Equal(t, 1, p.calls)
		assert.Equal(t, []int{1}, p.counts)
	})

	t.Run("placeholder on empty result", func(t *testing.T) {
		p := &stubProvider{}
		l := NewLookup(p, cache.NewMemoryCache(), time.Second, logger.NewNopLogger())
		assert.Equal(t, PlaceholderURL, l.Search(ctx, "nothing"))
	})

	t.Run("placeholder on provider failure and not cached", func(t *testing.T) {
		p := &stubProvider{err: errors.New("quota exceeded")}
		l := NewLookup(p, cache.NewMemoryCache(), time.Second, logger.NewNopLogger())
		assert.Equal(t, PlaceholderURL, l.Search(ctx, "x"))
		assert.Equal(t, PlaceholderURL, l.Search(ctx, "x"))
		assert.Equal(t, 2, p.calls)
	})

	t.Run("blank description skips provider", func(t *testing.T) {
		p := &stubProvider{urls: []string{"https://img/1.png"}}
		l := NewLookup(p, nil, time.Second, logger.NewNopLogger())
		assert.Equal(t, PlaceholderURL, l.Search(ctx, "   "))
		assert.Zero(t, p.calls)
	})
}

func TestLookupSearchVariant(t *testing.T) {
	ctx := context.Background()
	pool := []string{"a", "b", "c", "d", "e", "f"}

	p := &stubProvider{urls: pool}
	var seen int
	l := NewLookup(p, cache.NewMemoryCache(), time.Second, logger.NewNopLogger()).
		WithPicker(func(n int) int {
			seen = n
			return n - 1
		})

	assert.Equal(t, "e", l.SearchVariant(ctx, "sunset", 0))
	assert.Equal(t, DefaultPoolSize, seen)

	assert.Equal(t, "b", l.SearchVariant(ctx, "sunset", 2))
	assert.Equal(t, 2, seen)

	// variants bypass the cache
	assert.Equal(t, 2, p.calls)

	failing := NewLookup(&stubProvider{err: errors.New("down")}, nil, time.Second, logger.NewNopLogger())
	assert.Equal(t, PlaceholderURL, failing.SearchVariant(ctx, "sunset", 3))
}

func TestGoogleProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "key", q.Get("key"))
		assert.Equal(t, "cx", q.Get("cx"))
		assert.Equal(t, "image", q.Get("searchType"))
		assert.Equal(t, "2", q.Get("num"))
		assert.Equal(t, "mitochondria", q.Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"link":"https://x/1.jpg"},{"link":""},{"link":"https://x/2.jpg"}]}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("key", "cx", time.Second)
	p.baseURL = srv.URL

	urls, err := p.Search(context.Background(), "mitochondria", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.jpg"}, urls)
}

func TestGoogleProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"daily limit"}}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider("key", "cx", time.Second)
	p.baseURL = srv.URL

	_, err := p.Search(context.Background(), "q", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily limit")
}
