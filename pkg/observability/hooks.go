// Package observability provides hooks for metrics and logging.
//
// Libraries emit events through small hook interfaces and never import a
// metrics backend directly. The binary registers an implementation at
// startup; [Prometheus] is the one shipped with forecastviz.
//
//	m := observability.NewPrometheus()
//	observability.Register(m)
//	http.Handle("/metrics", m.Handler())
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, ticker, formats)
//	// ... render ...
//	observability.Render().OnRenderComplete(ctx, ticker, formats, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

type RenderHooks interface {
	OnLoadStart(ctx context.Context, source, ticker string)
	OnLoadComplete(ctx context.Context, source, ticker string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, ticker string, formats []string)
	OnRenderComplete(ctx context.Context, ticker string, formats []string, duration time.Duration, err error)
}

// CacheHooks are labelled by key type: "dataset" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observe outgoing requests made by the API client.
// OnError fires for transport failures only, never for error statuses.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// SourceHooks fire when a primary source fails and the synthetic
// dataset is served in its place.
type SourceHooks interface {
	OnFallback(ctx context.Context, ticker string, err error)
}

// Noop implements every hook interface and does nothing. Embed it to
// override a single method.
type Noop struct{}

func (Noop) OnLoadStart(context.Context, string, string)                              {}
func (Noop) OnLoadComplete(context.Context, string, string, time.Duration, error)     {}
func (Noop) OnRenderStart(context.Context, string, []string)                          {}
func (Noop) OnRenderComplete(context.Context, string, []string, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                                       {}
func (Noop) OnCacheMiss(context.Context, string)                                      {}
func (Noop) OnCacheSet(context.Context, string, int)                                  {}
func (Noop) OnRequest(context.Context, string, string, string)                        {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration)   {}
func (Noop) OnError(context.Context, string, string, string, error)                   {}
func (Noop) OnFallback(context.Context, string, error)                                {}

// Hooks is the set of installed implementations. Nil fields leave the
// current implementation in place when passed to Install.
type Hooks struct {
	Render RenderHooks
	Cache  CacheHooks
	HTTP   HTTPHooks
	Source SourceHooks
}

var installed atomic.Pointer[Hooks]

func init() { Reset() }

func current() *Hooks { return installed.Load() }

// Install replaces the non-nil members of h. Callers racing on Install
// may lose each other's updates; install once at startup.
func Install(h Hooks) {
	next := *current()
	if h.Render != nil {
		next.Render = h.Render
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	if h.Source != nil {
		next.Source = h.Source
	}
	installed.Store(&next)
}

// Reset installs Noop everywhere.
func Reset() {
	installed.Store(&Hooks{Render: Noop{}, Cache: Noop{}, HTTP: Noop{}, Source: Noop{}})
}

func Render() RenderHooks { return current().Render }
func Cache() CacheHooks   { return current().Cache }
func HTTP() HTTPHooks     { return current().HTTP }
func Source() SourceHooks { return current().Source }
