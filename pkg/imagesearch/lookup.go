package imagesearch

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/cache"
)

// PlaceholderURL is returned whenever no image can be resolved.
const PlaceholderURL = "https://via.placeholder.com/150"

const (
	DefaultPoolSize = 5
	cacheTTL        = 24 * time.Hour
	cachePrefix     = "image:"
)

// Lookup resolves image descriptions to URLs. It never fails: every error
// path degrades to PlaceholderURL.
type Lookup struct {
	provider Provider
	cache    cache.Cache
	timeout  time.Duration
	logger   logger.ILogger
	pick     func(n int) int
}

func NewLookup(provider Provider, c cache.Cache, timeout time.Duration, log logger.ILogger) *Lookup {
	return &Lookup{
		provider: provider,
		cache:    c,
		timeout:  timeout,
		logger:   log,
		pick:     rand.IntN,
	}
}

// WithPicker replaces the random index source, for deterministic tests.
func (l *Lookup) WithPicker(pick func(n int) int) *Lookup {
	l.pick = pick
	return l
}

// Search returns the top image for description. Hits are cached.
func (l *Lookup) Search(ctx context.Context, description string) string {
	key := cachePrefix + strings.ToLower(strings.TrimSpace(description))
	if l.cache != nil {
		if url, found, err := l.cache.Get(ctx, key); err == nil && found {
			return url
		}
	}

	urls := l.query(ctx, description, 1)
	if len(urls) == 0 {
		return PlaceholderURL
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, key, urls[0], cacheTTL); err != nil {
			l.logger.Warn("ImageLookup", "Failed to cache image url", map[string]interface{}{"error": err.Error()})
		}
	}
	return urls[0]
}

// SearchVariant picks uniformly among the top poolSize results so that a
// regenerate request usually yields a different image. Never cached.
func (l *Lookup) SearchVariant(ctx context.Context, description string, poolSize int) string {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	urls := l.query(ctx, description, poolSize)
	if len(urls) == 0 {
		return PlaceholderURL
	}
	return urls[l.pick(len(urls))]
}

func (l *Lookup) query(ctx context.Context, description string, count int) []string {
	if strings.TrimSpace(description) == "" {
		return nil
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	urls, err := l.provider.Search(ctx, description, count)
	if err != nil {
		l.logger.Warn("ImageLookup", "Image search failed, using placeholder", map[string]interface{}{
			"description": description,
			"error":       err.Error(),
		})
		return nil
	}
	if len(urls) == 0 {
		l.logger.Info("ImageLookup", "No image found, using placeholder", map[string]interface{}{"description": description})
	}
	return urls
}
