// Package cache stores datasets and rendered artifacts between runs.
//
// [Cache] is a byte-oriented store with per-entry TTL. Three backends are
// provided: [FileCache] for the CLI, [RedisCache] for the preview server, and
// [NullCache] when caching is disabled. Keys are produced by a [Keyer] so
// that every component agrees on the key layout:
//
//	k := cache.NewDefaultKeyer()
//	k.DatasetKey("api", "AAPL")                       // dataset:api:AAPL
//	k.ArtifactKey(hash, cache.ArtifactKeyOpts{...})   // artifact:<sha256>
package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cache is a key/value store for opaque bytes.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLHTTP     = 15 * time.Minute
	TTLDataset  = time.Hour
	TTLArtifact = 24 * time.Hour
)

// DefaultDir returns the CLI cache directory: $XDG_CACHE_HOME/forecastviz,
// or ~/.cache/forecastviz.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "forecastviz"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "forecastviz"), nil
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, key string) string
	// DatasetKey keys a decoded dataset by source name and ticker.
	DatasetKey(source, ticker string) string
	// ArtifactKey keys a rendered artifact by dataset hash and render options.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string        `json:"format"`
	At     time.Duration `json:"at"`
	Scale  float64       `json:"scale,omitempty"`
	// Config is a hash of the chart configuration.
	Config string `json:"config"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) DatasetKey(source, ticker string) string {
	return "dataset:" + source + ":" + strings.ToUpper(ticker)
}

func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}
