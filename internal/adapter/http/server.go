package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-obs-pipeline/internal/pipeline"
	"github.com/couchcryptid/weather-obs-pipeline/internal/report"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultProvider supplies readiness and the most recent pipeline result.
type ResultProvider interface {
	CheckReadiness(ctx context.Context) error
	Last() *pipeline.Result
}

// Server exposes health, readiness, metrics, and chart-data HTTP endpoints.
type Server struct {
	httpServer *http.Server
	provider   ResultProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /api/v1/charts routes the charting frontend reads.
func NewServer(addr string, provider ResultProvider, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/charts/scatter", s.handleScatter)
	mux.HandleFunc("GET /api/v1/charts/box", s.handleBox)
	mux.HandleFunc("GET /api/v1/charts/bar", s.handleBar)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleScatter(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.result(w)
	if !ok {
		return
	}
	writeChart(w, result, report.Scatter(result.Sample))
}

func (s *Server) handleBox(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.result(w)
	if !ok {
		return
	}
	writeChart(w, result, report.Box(result.Sample))
}

func (s *Server) handleBar(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.result(w)
	if !ok {
		return
	}
	writeChart(w, result, report.Bar(result.Aggregates))
}

// result fetches the last pipeline result, answering 503 when none exists yet.
func (s *Server) result(w http.ResponseWriter) (*pipeline.Result, bool) {
	result := s.provider.Last()
	if result == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no pipeline result available yet",
		})
		return nil, false
	}
	return result, true
}

// chartPayload wraps a series with the timestamp of the run it came from.
type chartPayload struct {
	ProducedAt time.Time `json:"produced_at"`
	Points     any       `json:"points"`
}

func writeChart(w http.ResponseWriter, result *pipeline.Result, points any) {
	writeJSON(w, http.StatusOK, chartPayload{ProducedAt: result.ProducedAt, Points: points})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
