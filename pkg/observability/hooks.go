// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about algorithm dispatch, graph conversion and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, which keeps library
// packages free of import cycles and of any particular metrics framework.
// The prom subpackage provides a Prometheus implementation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetDispatchHooks(m)
//	    observability.SetConvertHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Dispatch().OnDispatchStart(ctx, "shortest_path")
//	// ... run on some engine ...
//	observability.Dispatch().OnDispatchComplete(ctx, "shortest_path", "gonum", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Conversion directions reported to [ConvertHooks].
const (
	DirectionFromCanonical = "from_canonical"
	DirectionToCanonical   = "to_canonical"
)

// =============================================================================
// Dispatch Hooks
// =============================================================================

// DispatchHooks receives events from the algorithm dispatcher.
type DispatchHooks interface {
	// OnDispatchStart records the start of a dispatched call.
	OnDispatchStart(ctx context.Context, algorithm string)

	// OnBackendSkip records an engine that was passed over, with the reason
	// ("self", "declined" or "not_implemented").
	OnBackendSkip(ctx context.Context, algorithm, backend, reason string)

	// OnDispatchComplete records the engine that produced the result (or
	// failed last) and the total call duration.
	OnDispatchComplete(ctx context.Context, algorithm, backend string, duration time.Duration, err error)
}

// =============================================================================
// Convert Hooks
// =============================================================================

// ConvertHooks receives events from table/canonical graph conversion.
// Conversion is synchronous and carries no context.
type ConvertHooks interface {
	// OnConvert records one conversion with the size of the canonical graph
	// involved.
	OnConvert(direction string, nodes, edges int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDispatchHooks is a no-op implementation of DispatchHooks.
type NoopDispatchHooks struct{}

func (NoopDispatchHooks) OnDispatchStart(context.Context, string)               {}
func (NoopDispatchHooks) OnBackendSkip(context.Context, string, string, string) {}
func (NoopDispatchHooks) OnDispatchComplete(context.Context, string, string, time.Duration, error) {
}

// NoopConvertHooks is a no-op implementation of ConvertHooks.
type NoopConvertHooks struct{}

func (NoopConvertHooks) OnConvert(string, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dispatchHooks DispatchHooks = NoopDispatchHooks{}
	convertHooks  ConvertHooks  = NoopConvertHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetDispatchHooks registers custom dispatch hooks.
// This should be called once at application startup before any dispatch.
func SetDispatchHooks(h DispatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dispatchHooks = h
	}
}

// SetConvertHooks registers custom conversion hooks.
func SetConvertHooks(h ConvertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convertHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Dispatch returns the registered dispatch hooks.
func Dispatch() DispatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dispatchHooks
}

// Convert returns the registered conversion hooks.
func Convert() ConvertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convertHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dispatchHooks = NoopDispatchHooks{}
	convertHooks = NoopConvertHooks{}
	cacheHooks = NoopCacheHooks{}
}
