// Package cache provides caching for computed chart layouts and exports.
//
// The engine itself memoizes layouts per chart instance; this package covers
// the layer above it, where the same spec and viewport are requested by many
// clients (the HTTP server) or across process restarts (the CLI). Backends:
//   - memory: In-process storage for development/testing and single-instance servers
//   - redis: Redis-backed storage for multi-instance deployments
//   - file: File-based storage for CLI usage
//   - null: No-op cache for when caching should be disabled
//
// Keys are generated through the Keyer interface so that every component
// hashing the same inputs lands on the same entry:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(specHash, cache.LayoutKeyOpts{
//	    Width:  800,
//	    Height: 400,
//	})
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/chartcore/pkg/observability"
)

// Cache is the interface for cache storage backends.
type Cache interface {
	// Get retrieves a value by key.
	// Returns (nil, false, nil) on a miss; errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A TTL of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SpecKeyOpts hold the fields that distinguish stored chart specs.
type SpecKeyOpts struct {
	Version string `json:"version,omitempty"`
}

// LayoutKeyOpts hold the inputs that change a computed layout for the same data.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	LegendW    float64 `json:"legend_w,omitempty"`
	LegendH    float64 `json:"legend_h,omitempty"`
}

// ExportKeyOpts hold the fields that distinguish serialized exports of a layout.
type ExportKeyOpts struct {
	Format string `json:"format"`
	Indent bool   `json:"indent,omitempty"`
}

// Keyer generates cache keys for the different cached object types.
type Keyer interface {
	// SpecKey generates a key for a stored chart spec.
	SpecKey(chartID string, opts SpecKeyOpts) string

	// LayoutKey generates a key for a computed layout.
	// specHash is the hash of the spec and its data (see Hash).
	LayoutKey(specHash string, opts LayoutKeyOpts) string

	// ExportKey generates a key for a serialized export of a layout.
	ExportKey(layoutHash string, opts ExportKeyOpts) string
}

// DefaultKeyer is the standard key generator.
// Keys embed a hash of the options so that any change in inputs produces
// a different key rather than a stale hit.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SpecKey generates a key for a stored chart spec.
// Format: spec:{chartID}:{version}
func (k *DefaultKeyer) SpecKey(chartID string, opts SpecKeyOpts) string {
	version := opts.Version
	if version == "" {
		version = "latest"
	}
	return "spec:" + chartID + ":" + version
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(specHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", specHash, opts)
}

// ExportKey generates a key for a serialized export.
func (k *DefaultKeyer) ExportKey(layoutHash string, opts ExportKeyOpts) string {
	return hashKey("export", layoutHash, opts)
}

// Instrumented wraps a cache with observability hooks.
// keyType labels the metrics (for example "layout" or "export").
func Instrumented(c Cache, keyType string) Cache {
	return &instrumentedCache{inner: c, keyType: keyType}
}

type instrumentedCache struct {
	inner   Cache
	keyType string
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, hit, err
}

func (c *instrumentedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}

func (c *instrumentedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumentedCache) Close() error {
	return c.inner.Close()
}

// Ensure implementations satisfy Cache.
var _ Cache = (*instrumentedCache)(nil)
