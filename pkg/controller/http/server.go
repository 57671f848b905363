package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/usecase"
	"github.com/memora-app/memora/pkg/utils/logging"
)

// DefaultMaxUploadSize caps media attachments at 10MB
const DefaultMaxUploadSize = 10 << 20

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	verifier      interfaces.TokenVerifier
	corsOrigins   []string
	maxUploadSize int64
}

type Options func(*Server)

// WithVerifier sets the bearer-token verifier for protected routes
func WithVerifier(v interfaces.TokenVerifier) Options {
	return func(s *Server) {
		s.verifier = v
	}
}

// WithCORSOrigins sets the allowed CORS origins ("*" by default)
func WithCORSOrigins(origins []string) Options {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithMaxUploadSize overrides the media upload size cap
func WithMaxUploadSize(size int64) Options {
	return func(s *Server) {
		if size > 0 {
			s.maxUploadSize = size
		}
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		corsOrigins:   []string{"*"},
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check; no auth required
	r.Get("/health", healthHandler)

	r.Route("/api/memories", func(r chi.Router) {
		r.Use(authMiddleware(s.verifier))
		r.Post("/", s.addMemoryHandler)
		r.Get("/search", s.searchHandler)
		r.Get("/timeline", s.timelineHandler)
		r.Get("/moodmap", s.moodMapHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(ctx).Error("failed to write response", "error", err.Error())
	}
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
