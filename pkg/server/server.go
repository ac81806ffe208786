// Package server is the HTTP preview server.
//
// Routes:
//
//	GET /healthz                          liveness probe
//	GET /version                          build information
//	GET /stocks/{ticker}/forecast         dataset JSON (mock backend)
//	GET /stocks/{ticker}/chart.{format}   rendered chart (svg, json, png, pdf)
//	GET /metrics                          Prometheus exposition
//
// Chart requests accept width, height and at (a duration such as 300ms)
// query parameters.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forecastviz/pkg/buildinfo"
	"github.com/matzehuels/forecastviz/pkg/chart"
	fverrors "github.com/matzehuels/forecastviz/pkg/errors"
	"github.com/matzehuels/forecastviz/pkg/forecast"
	"github.com/matzehuels/forecastviz/pkg/observability"
	"github.com/matzehuels/forecastviz/pkg/pipeline"
	"github.com/matzehuels/forecastviz/pkg/render/sink"
)

const (
	maxDimension    = 4096
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves charts rendered by a pipeline runner.
type Server struct {
	Runner  *pipeline.Runner
	Config  chart.Config
	Metrics *observability.Prometheus
	Logger  *log.Logger
}

// New creates a server. A zero config selects chart.DefaultConfig and a nil
// metrics value disables /metrics.
func New(runner *pipeline.Runner, cfg chart.Config, metrics *observability.Prometheus, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Width == 0 && cfg.Height == 0 && cfg.YTicks == 0 {
		cfg = chart.DefaultConfig()
	}
	return &Server{Runner: runner, Config: cfg, Metrics: metrics, Logger: logger}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Read())
	})
	r.Route("/stocks/{ticker}", func(r chi.Router) {
		r.Get("/forecast", s.handleForecast)
		r.Get("/chart.{format}", s.handleChart)
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if err := fverrors.ValidateTicker(ticker); err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.Runner.Load(r.Context(), ticker)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := forecast.Marshal(ds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	opts := pipeline.Options{
		Ticker:  chi.URLParam(r, "ticker"),
		Formats: []string{format},
		Chart:   s.Config,
		Logger:  s.Logger,
	}
	if err := applyQuery(&opts, r); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(res.Artifacts[format])
}

func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	dim := func(name string, dst *float64) error {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || v <= 0 || v > maxDimension {
			return fverrors.New(fverrors.ErrCodeInvalidInput, "%s must be a number in (0, %d]", name, maxDimension)
		}
		*dst = v
		return nil
	}
	if err := dim("width", &opts.Chart.Width); err != nil {
		return err
	}
	if err := dim("height", &opts.Chart.Height); err != nil {
		return err
	}
	if raw := q.Get("at"); raw != "" {
		at, err := time.ParseDuration(raw)
		if err != nil {
			return fverrors.Wrap(fverrors.ErrCodeInvalidInput, err, "at must be a duration such as 300ms")
		}
		opts.At = at
	}
	opts.Refresh = q.Get("refresh") == "1" || q.Get("refresh") == "true"
	return nil
}

type errorBody struct {
	Error     fverrors.Code `json:"error"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := fverrors.HTTPStatus(err)
	code := fverrors.GetCode(err)
	if code == "" {
		code = fverrors.ErrCodeInternal
	}
	msg := fverrors.UserMessage(err)
	if status >= 500 {
		s.Logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
