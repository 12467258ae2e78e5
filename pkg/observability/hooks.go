// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through registered hooks instead of
// depending on a specific backend. Nothing is recorded until a consumer
// registers hooks; the CLI installs logging hooks under --verbose and the
// HTTP service can install its own.
//
// # Usage
//
// Register hooks at application startup, or around a test:
//
//	restore := observability.Install(observability.Hooks{
//	    Pipeline: &myPipelineHooks{},
//	    Cache:    &myCacheHooks{},
//	})
//	defer restore()
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnFetchStart(ctx, "inventree", "12")
//	// ... fetch ...
//	observability.Pipeline().OnFetchComplete(ctx, "inventree", "12", nodes, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the diagram pipeline.
type PipelineHooks interface {
	// Fetch events: loading a hierarchy from a host, BOM file or JSON file.
	OnFetchStart(ctx context.Context, source, part string)
	OnFetchComplete(ctx context.Context, source, part string, nodeCount int, duration time.Duration, err error)

	// Build events: converting a hierarchy to diagram text.
	OnBuildStart(ctx context.Context, format string, nodeCount int)
	OnBuildComplete(ctx context.Context, format string, duration time.Duration, err error)

	// Render events: producing visual artifacts.
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnBuildStart(context.Context, string, int)                        {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, time.Duration, error)    {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// Hooks bundles one implementation per event kind. Nil fields are left
// unchanged by [Install].
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func noop() Hooks {
	return Hooks{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}
}

var (
	hooksMu sync.RWMutex
	current = noop()
)

// Install registers the non-nil hooks in h and returns a function that
// restores the hooks that were active before.
func Install(h Hooks) (restore func()) {
	hooksMu.Lock()
	defer hooksMu.Unlock()

	prev := current
	if h.Pipeline != nil {
		current.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
	if h.HTTP != nil {
		current.HTTP = h.HTTP
	}
	return func() {
		hooksMu.Lock()
		current = prev
		hooksMu.Unlock()
	}
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { Install(Hooks{Pipeline: h}) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { Install(Hooks{Cache: h}) }

// SetHTTPHooks registers HTTP client hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { Install(Hooks{HTTP: h}) }

func active() Hooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return current
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return active().Pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return active().Cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return active().HTTP }

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	current = noop()
}
