// Package observability lets a binary observe importviz without the
// libraries importing a metrics or tracing backend.
//
// Libraries report events through the accessors [Pipeline], [Cache], [HTTP]
// and [Sessions]. Each returns a no-op implementation until main registers
// its own:
//
//	observability.SetPipelineHooks(myHooks)
//	observability.SetSessionHooks(myHooks)
//
// A typical event pair in library code:
//
//	observability.Pipeline().OnFetchStart(ctx, id)
//	ds, err := load(ctx, id)
//	observability.Pipeline().OnFetchComplete(ctx, id, ds.Len(), time.Since(start), err)
//
// The CLI registers hooks that write every event to its debug log.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives dataset fetch, layout and render events.
type PipelineHooks interface {
	OnFetchStart(ctx context.Context, id string)
	OnFetchComplete(ctx context.Context, id string, moduleCount int, duration time.Duration, err error)

	// mode is "all", "collapsed" or "plot".
	OnLayoutStart(ctx context.Context, mode string, moduleCount int)
	OnLayoutComplete(ctx context.Context, mode string, boxes, connectors int, duration time.Duration)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType names the cache
// layer, for example "dataset" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives outgoing HTTP client events.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError reports transport failures; HTTP error statuses go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// SessionHooks receives interactive session events from the server.
type SessionHooks interface {
	OnSessionCreate(ctx context.Context, id, source string)
	// action is the interaction name, for example "click" or "search".
	OnSessionAction(ctx context.Context, id, action string, duration time.Duration, err error)
	OnSessionsExpired(ctx context.Context, count int)
}

type (
	// NoopPipelineHooks discards pipeline events.
	NoopPipelineHooks struct{}
	// NoopCacheHooks discards cache events.
	NoopCacheHooks struct{}
	// NoopHTTPHooks discards HTTP events.
	NoopHTTPHooks struct{}
	// NoopSessionHooks discards session events.
	NoopSessionHooks struct{}
)

func (NoopPipelineHooks) OnFetchStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, int, time.Duration)  {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

func (NoopSessionHooks) OnSessionCreate(context.Context, string, string)                       {}
func (NoopSessionHooks) OnSessionAction(context.Context, string, string, time.Duration, error) {}
func (NoopSessionHooks) OnSessionsExpired(context.Context, int)                                {}

// registry holds the active hooks. Registration normally happens once at
// startup; reads are concurrent.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
	sessions SessionHooks
}

var hooks = defaults()

func defaults() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
		sessions: NoopSessionHooks{},
	}
}

func (r *registry) set(fn func(*registry)) {
	r.mu.Lock()
	fn(r)
	r.mu.Unlock()
}

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		hooks.set(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		hooks.set(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		hooks.set(func(r *registry) { r.http = h })
	}
}

// SetSessionHooks registers h. A nil h is ignored.
func SetSessionHooks(h SessionHooks) {
	if h != nil {
		hooks.set(func(r *registry) { r.sessions = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Sessions returns the registered session hooks.
func Sessions() SessionHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.sessions
}

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	d := defaults()
	hooks.set(func(r *registry) {
		r.pipeline, r.cache, r.http, r.sessions = d.pipeline, d.cache, d.http, d.sessions
	})
}
