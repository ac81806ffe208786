package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "forecastviz"

// Prometheus implements every hook interface with Prometheus collectors on
// its own registry, so several instances never collide.
type Prometheus struct {
	registry *prometheus.Registry

	loads         *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	renders       *prometheus.CounterVec
	renderSeconds *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpErrors    *prometheus.CounterVec
	fallbacks     prometheus.Counter
}

// NewPrometheus creates the collectors and registers them, together with
// the Go and process collectors, on a fresh registry.
func NewPrometheus() *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "dataset_loads_total",
			Help: "Dataset loads by source and outcome.",
		}, []string{"source", "outcome"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "dataset_load_duration_seconds",
			Help:    "Dataset load latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "renders_total",
			Help: "Chart renders by outcome.",
		}, []string{"outcome"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_duration_seconds",
			Help:    "Chart render latency.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"outcome"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_client_requests_total",
			Help: "Outgoing HTTP responses by host and status.",
		}, []string{"host", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_client_duration_seconds",
			Help:    "Outgoing HTTP latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_client_errors_total",
			Help: "Outgoing HTTP transport errors by host.",
		}, []string{"host"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "source_fallbacks_total",
			Help: "Datasets replaced by the synthetic fallback.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.loads, m.loadDuration, m.renders, m.renderSeconds,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpDuration, m.httpErrors,
		m.fallbacks,
	)
	return m
}

// Register installs m as the render, cache, HTTP and source hooks.
func Register(m *Prometheus) {
	Install(Hooks{Render: m, Cache: m, HTTP: m, Source: m})
}

// Registry returns the registry the collectors live on.
func (m *Prometheus) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Prometheus) OnLoadStart(context.Context, string, string) {}

func (m *Prometheus) OnLoadComplete(_ context.Context, source, _ string, d time.Duration, err error) {
	m.loads.WithLabelValues(source, outcome(err)).Inc()
	m.loadDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Prometheus) OnRenderStart(context.Context, string, []string) {}

func (m *Prometheus) OnRenderComplete(_ context.Context, _ string, _ []string, d time.Duration, err error) {
	o := outcome(err)
	m.renders.WithLabelValues(o).Inc()
	m.renderSeconds.WithLabelValues(o).Observe(d.Seconds())
}

func (m *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Prometheus) OnRequest(context.Context, string, string, string) {}

func (m *Prometheus) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(host, http.StatusText(status)).Inc()
	m.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Prometheus) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpErrors.WithLabelValues(host).Inc()
}

func (m *Prometheus) OnFallback(context.Context, string, error) {
	m.fallbacks.Inc()
}

var (
	_ RenderHooks = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ HTTPHooks   = (*Prometheus)(nil)
	_ SourceHooks = (*Prometheus)(nil)
)
