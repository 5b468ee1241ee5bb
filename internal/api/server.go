// Package api serves the shared star archive over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/metrics"
	"github.com/frankfika/thanksgiving/internal/star"
	"github.com/frankfika/thanksgiving/internal/store"
)

// maxBody bounds request bodies.
const maxBody = 64 << 10

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	stars    store.Backend
	analyzer analysis.Analyzer
	metrics  *metrics.Collector
	log      *zap.Logger
}

// New creates a server. analyzer and m may be nil; without an analyzer
// /api/analyze always answers with the echo star.
func New(stars store.Backend, analyzer analysis.Analyzer, m *metrics.Collector, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if analyzer == nil {
		analyzer = analysis.Func(func(context.Context, string) (star.Record, error) {
			return star.Record{}, analysis.ErrNoAPIKey
		})
	}
	return &Server{stars: stars, analyzer: analyzer, metrics: m, log: log}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/stars", s.listStars)
		r.Post("/stars", s.createStar)
		r.Post("/analyze", s.analyze)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) listStars(w http.ResponseWriter, r *http.Request) {
	recs, err := s.stars.List(r.Context())
	if err != nil {
		s.log.Error("list stars", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to load stars")
		return
	}
	if recs == nil {
		recs = []star.Record{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"stars": recs})
}

func (s *Server) createStar(w http.ResponseWriter, r *http.Request) {
	var rec star.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&rec); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid star data")
		return
	}
	if err := rec.Validate(); err != nil || rec.Reading == (star.Reading{}) {
		s.respondError(w, http.StatusBadRequest, "Invalid star data")
		return
	}
	rec = rec.Normalize()
	if err := s.stars.Save(r.Context(), rec); err != nil {
		s.log.Error("save star", zap.String("id", rec.ID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "Failed to add star")
		return
	}
	s.metrics.StarCreated(rec.Category())
	s.respondJSON(w, http.StatusCreated, map[string]any{"success": true, "star": rec})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&in); err != nil || strings.TrimSpace(in.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "Missing or invalid text")
		return
	}
	rec, err := s.analyzer.Analyze(r.Context(), in.Text)
	if errors.Is(err, analysis.ErrEmptyText) {
		s.respondError(w, http.StatusBadRequest, "Missing or invalid text")
		return
	}
	if err != nil {
		s.log.Warn("analysis failed, answering with echo star", zap.Error(err))
		s.metrics.AnalysisFailed(err)
		rec = star.Echo(in.Text)
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"star": rec})
}

// logRequests logs and counts every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := metrics.UnmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(r.Method, route, ww.Status(), elapsed)
		s.log.Info("HTTP Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", elapsed),
			zap.String("requestID", chimiddleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe runs the server on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("api listening", zap.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
