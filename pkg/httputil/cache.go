package httputil

import (
	"context"
	"time"

	"github.com/matzehuels/forecastviz/pkg/cache"
)

// Cached returns the body stored under key, or calls fetch and stores its
// result for ttl. refresh skips the lookup but still stores the new body.
// The bool result reports a cache hit. Cache read and write failures are
// treated as misses so an unavailable cache never fails a request.
func Cached(ctx context.Context, c cache.Cache, key string, ttl time.Duration, refresh bool, fetch func() ([]byte, error)) ([]byte, bool, error) {
	if c == nil {
		c = cache.NewNullCache()
	}
	if !refresh {
		if data, ok, err := c.Get(ctx, key); err == nil && ok {
			return data, true, nil
		}
	}
	data, err := fetch()
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, false, nil
}
