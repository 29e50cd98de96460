// Package cache provides byte-level caching for dispatch results and
// rendered artifacts.
//
// # Overview
//
// A [Cache] stores opaque byte slices under string keys with an optional
// TTL. Three stores are provided:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: a shared Redis instance, for multi-process setups
//
// Keys are built by a [Keyer] so that every input that can change a result
// (algorithm, table content, column roles, graph flags, arguments, engine
// priority) ends up in the hash. [ScopedKeyer] prefixes keys to separate
// namespaces sharing one store.
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ResultKey("shortest_path", cache.Hash(tableBytes), cache.ResultKeyOpts{
//	    Source: "source", Target: "target", Directed: true,
//	})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
//
// Wrap any store with [Observed] to report hits, misses and writes to the
// cache hooks in pkg/observability.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// TTLs used by the CLI.
const (
	ResultTTL   = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// ResultKeyOpts holds everything besides the algorithm and the table content
// that affects a dispatched result.
type ResultKeyOpts struct {
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	EdgeKey    string            `json:"edge_key,omitempty"`
	Directed   bool              `json:"directed"`
	Multigraph bool              `json:"multigraph"`
	Args       map[string]string `json:"args,omitempty"`
	Priority   []string          `json:"priority,omitempty"`
}

// ArtifactKeyOpts describes a rendered output.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Detailed  bool   `json:"detailed"`
	EdgeLabel string `json:"edge_label,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey returns the key for the result of algorithm run on the table
	// whose content hashes to tableHash.
	ResultKey(algorithm, tableHash string, opts ResultKeyOpts) string

	// ArtifactKey returns the key for a rendering of the table graph whose
	// content hashes to tableHash.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(algorithm, tableHash string, opts ResultKeyOpts) string {
	return keyOf("result:"+algorithm, tableHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return keyOf("artifact:"+opts.Format, tableHash, opts)
}
