package web

import (
	"net/http"
	"strings"
	"time"

	"lecture-transcription/internal/infra/logging"
	"lecture-transcription/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the lecture management API.
type Server struct {
	lectureUC usecase.LectureUseCase
	apiKey    string
	log       *zerolog.Logger
}

func NewServer(lectureUC usecase.LectureUseCase, apiKey string, logger *zerolog.Logger) *Server {
	return &Server{lectureUC: lectureUC, apiKey: apiKey, log: logger}
}

// Router builds the route tree. Lecture routes sit behind bearer auth;
// health and metrics stay open for probes and scrapers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/lectures", func(r chi.Router) {
		r.Use(traceMiddleware)
		r.Use(s.requestLogMiddleware)
		r.Use(s.authMiddleware)
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Get("/{lectureID}", s.handleGet)
		r.Patch("/{lectureID}", s.handleUpdate)
		r.Delete("/{lectureID}", s.handleDelete)
	})

	return r
}

// traceMiddleware assigns each request a trace id, carried in the context
// for log correlation and echoed back in the X-Trace-Id header.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := uuid.NewString()
		ctx := logging.WithTraceID(r.Context(), tid)
		w.Header().Set("X-Trace-Id", tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logging.With(r.Context(), s.log)
		start := time.Now()
		ww := &respWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// authMiddleware provides simple Bearer token authentication for the API.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
