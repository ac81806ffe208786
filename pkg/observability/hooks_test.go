package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistryDefaultsAndInstall(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	for name, h := range map[string]any{"render": Render(), "cache": Cache(), "http": HTTP(), "source": Source()} {
		if _, ok := h.(Noop); !ok {
			t.Errorf("%s hooks = %T, want Noop", name, h)
		}
	}

	custom := &testRenderHooks{}
	Install(Hooks{Render: custom})
	Install(Hooks{})
	if Render() != RenderHooks(custom) {
		t.Error("empty Install replaced the render hooks")
	}
	if _, ok := Cache().(Noop); !ok {
		t.Error("Install touched unset members")
	}

	m := NewPrometheus()
	Register(m)
	if Render() != RenderHooks(m) || Cache() != CacheHooks(m) || HTTP() != HTTPHooks(m) || Source() != SourceHooks(m) {
		t.Error("Register should install the Prometheus hooks everywhere")
	}

	Reset()
	if _, ok := Source().(Noop); !ok {
		t.Error("Reset did not restore Noop")
	}
}

func TestPrometheusCounters(t *testing.T) {
	ctx := context.Background()
	m := NewPrometheus()

	m.OnLoadComplete(ctx, "api", "AAPL", 10*time.Millisecond, nil)
	m.OnLoadComplete(ctx, "api", "AAPL", 10*time.Millisecond, errors.New("down"))
	m.OnRenderComplete(ctx, "AAPL", []string{"svg"}, time.Millisecond, nil)
	m.OnCacheHit(ctx, "artifact")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 512)
	m.OnResponse(ctx, "GET", "api", "/x", 200, time.Millisecond)
	m.OnError(ctx, "GET", "api", "/x", errors.New("reset"))
	m.OnFallback(ctx, "AAPL", errors.New("down"))
	m.OnFallback(ctx, "MSFT", errors.New("down"))

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"loads ok", testutil.ToFloat64(m.loads.WithLabelValues("api", "ok")), 1},
		{"loads error", testutil.ToFloat64(m.loads.WithLabelValues("api", "error")), 1},
		{"renders", testutil.ToFloat64(m.renders.WithLabelValues("ok")), 1},
		{"cache hit", testutil.ToFloat64(m.cacheEvents.WithLabelValues("artifact", "hit")), 1},
		{"cache miss", testutil.ToFloat64(m.cacheEvents.WithLabelValues("artifact", "miss")), 1},
		{"cache bytes", testutil.ToFloat64(m.cacheBytes.WithLabelValues("artifact")), 512},
		{"http", testutil.ToFloat64(m.httpRequests.WithLabelValues("api", "OK")), 1},
		{"http errors", testutil.ToFloat64(m.httpErrors.WithLabelValues("api")), 1},
		{"fallbacks", testutil.ToFloat64(m.fallbacks), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPrometheusIndependentRegistries(t *testing.T) {
	// Two instances must not panic on duplicate registration.
	a, b := NewPrometheus(), NewPrometheus()
	a.OnFallback(context.Background(), "X", nil)
	if testutil.ToFloat64(b.fallbacks) != 0 {
		t.Error("instances should not share collectors")
	}
}

func TestPrometheusHandler(t *testing.T) {
	m := NewPrometheus()
	m.OnFallback(context.Background(), "AAPL", nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "forecastviz_source_fallbacks_total 1") {
		t.Errorf("exposition missing fallback counter:\n%s", body)
	}
}

type testRenderHooks struct{ Noop }
