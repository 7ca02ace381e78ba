// Package api exposes the HTTP interface that triggers ingestion runs.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
	"github.com/windnewsmapper/windnews-ingest/internal/metrics"
)

// Runner is the single entry point an API layer or scheduler calls.
type Runner interface {
	RunAll(ctx context.Context) (ingest.RunSummary, error)
}

// Pinger reports whether the persistence backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires HTTP handlers to the ingestion orchestrator.
type Server struct {
	router  chi.Router
	runner  Runner
	store   Pinger
	sources []ingest.Adapter
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(runner Runner, store Pinger, sources []ingest.Adapter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	s := &Server{
		runner:  runner,
		store:   store,
		sources: sources,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1/ingest", func(r chi.Router) {
		r.Post("/run", s.runIngest)
		r.Get("/sources", s.listSources)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// runIngest triggers a synchronous ingestion run. Per-source scraping
// failures are reported inside the summary; only an unreachable store turns
// the whole request into an error response, and even then the partial
// summary is included.
func (s *Server) runIngest(w http.ResponseWriter, r *http.Request) {
	summary, err := s.runner.RunAll(r.Context())
	if err != nil {
		s.logger.Error("ingestion run failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"summary": summary,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) listSources(w http.ResponseWriter, _ *http.Request) {
	type sourceInfo struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	out := make([]sourceInfo, 0, len(s.sources))
	for _, a := range s.sources {
		out = append(out, sourceInfo{Name: a.Name(), URL: a.BaseURL()})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sources": out})
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("panic", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
