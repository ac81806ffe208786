package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/forecastviz/pkg/cache"
	"github.com/matzehuels/forecastviz/pkg/errors"
)

const body = `{
  "ticker": "AAPL",
  "labels": ["2025-01", "2025-02", "2025-03"],
  "actual": [1, 2, null],
  "predicted": [null, null, 3],
  "predict_start_index": 2,
  "annotation": "up"
}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientDataset(t *testing.T) {
	var gotPath, gotToken string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	c, err := NewClient(srv.URL+"/v1/", WithHeader("Authorization", "Bearer t"))
	if err != nil {
		t.Fatal(err)
	}
	ds, err := c.Dataset(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Dataset error: %v", err)
	}
	if gotPath != "/v1/stocks/AAPL/forecast" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "Bearer t" {
		t.Errorf("Authorization = %q", gotToken)
	}
	if ds.Ticker != "AAPL" || ds.Len() != 3 || ds.Annotation != "up" {
		t.Errorf("unexpected dataset %+v", ds)
	}
	if ds.Actual.Defined(2) {
		t.Error("null should decode to a gap")
	}
}

func TestClientCaches(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(body))
	})
	fc, _ := cache.NewFileCache(t.TempDir())
	ctx := context.Background()

	c, _ := NewClient(srv.URL, WithCache(fc, time.Hour))
	for range 3 {
		if _, err := c.Dataset(ctx, "AAPL"); err != nil {
			t.Fatal(err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}

	refresh, _ := NewClient(srv.URL, WithCache(fc, time.Hour), WithRefresh(true))
	if _, err := refresh.Dataset(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("refresh should refetch: calls = %d", calls.Load())
	}
}

func TestClientRetries(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(body))
	})

	c, _ := NewClient(srv.URL, WithRetry(3, time.Millisecond))
	if _, err := c.Dataset(context.Background(), "AAPL"); err != nil {
		t.Fatalf("Dataset error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.Code
	}{
		{"notFound", http.StatusNotFound, "", errors.ErrCodeNotFound},
		{"serverError", http.StatusInternalServerError, "", errors.ErrCodeNetwork},
		{"rateLimited", http.StatusTooManyRequests, "", errors.ErrCodeRateLimited},
		{"malformed", http.StatusOK, "{not json", errors.ErrCodeInvalidDataset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			c, _ := NewClient(srv.URL, WithRetry(2, time.Millisecond))
			_, err := c.Dataset(context.Background(), "AAPL")
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q (%v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestClientValidation(t *testing.T) {
	if _, err := NewClient("ftp://example.com"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NewClient(ftp) err = %v", err)
	}
	c, _ := NewClient("http://127.0.0.1:1")
	if _, err := c.Dataset(context.Background(), "A/B"); !errors.Is(err, errors.ErrCodeInvalidTicker) {
		t.Errorf("Dataset(A/B) err = %v", err)
	}
}

func TestClientRateLimit(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
	c, _ := NewClient(srv.URL, WithRateLimit(1, 1))
	ctx := context.Background()
	if _, err := c.Dataset(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}

	// The burst is spent; a short deadline cannot wait a full second.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := c.Dataset(short, "AAPL"); err == nil {
		t.Error("expected the limiter to reject the second request")
	}
}

func TestClientURL(t *testing.T) {
	c, _ := NewClient("https://api.example.com/base")
	if got := c.URL("brk.b"); got != "https://api.example.com/base/stocks/BRK.B/forecast" {
		t.Errorf("URL = %q", got)
	}
}
