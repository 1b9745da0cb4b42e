// Package cache is a small string key/value store with expiry, backed either by
// an in-process go-cache or by Redis when several instances share state.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns found=false without error when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
