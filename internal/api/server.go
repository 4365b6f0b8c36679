// Package api provides the HTTP API server and handlers for the AudioLab service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/audiolabapp/audiolab-server/internal/ratelimit"
	"github.com/audiolabapp/audiolab-server/internal/search"
	"github.com/audiolabapp/audiolab-server/internal/service"
	"github.com/audiolabapp/audiolab-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	audioService *service.AudioService
	searchIndex  *search.Index // nil when search is disabled
	validator    *validation.Validator
	limiter      *ratelimit.KeyedLimiter
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// searchIndex may be nil; the search endpoint then reports unavailable.
func NewServer(audioService *service.AudioService, searchIndex *search.Index, limiter *ratelimit.KeyedLimiter, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("AudioLab API", "1.0.0")
	humaConfig.DocsPath = "/api/v1/docs"

	s := &Server{
		audioService: audioService,
		searchIndex:  searchIndex,
		validator:    validation.New(),
		limiter:      limiter,
		router:       router,
		logger:       logger,
	}

	// The huma adapter registers its docs and schema routes on the mux
	// as soon as it is created, and chi rejects middleware added after
	// any route. Middleware first, then the adapter, then routes.
	s.setupMiddleware()
	s.api = humachi.New(router, humaConfig)
	s.setupRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if s.limiter != nil {
		s.router.Use(rateLimitMiddleware(s.limiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Audio records and deriving operations.
		r.Route("/audio", func(r chi.Router) {
			r.Post("/", s.handleCreateAudio)
			r.Get("/{id}", s.handleGetAudio)
			r.Post("/{id}/reduce-noise", s.handleReduceNoise)
			r.Post("/{id}/effects", s.handleApplyEffect)
			r.Post("/{id}/convert", s.handleConvertFormat)
			r.Post("/{id}/adjust", s.handleAdjustProperties)

			// Annotating operations (mutate in place).
			r.Post("/{id}/detect-language", s.handleDetectLanguage)
			r.Post("/{id}/transcribe", s.handleTranscribe)

			// Analysis and segmentation.
			r.Get("/{id}/voice-activity", s.handleDetectVoiceActivity)
			r.Post("/{id}/split", s.handleSplitByTime)
			r.Post("/{id}/split-by-silence", s.handleSplitBySilence)
			r.Post("/{id}/auto-segments", s.handleAutoGenerateSegments)

			// Composite workflows.
			r.Post("/{id}/enhance", s.handleEnhance)
		})

		r.Route("/segments", func(r chi.Router) {
			r.Get("/{id}", s.handleGetSegment)
			r.Post("/merge", s.handleMergeSegments)
		})

		r.Get("/records/{id}", s.handleGetRecord)

		// Synthesis.
		r.Post("/synthesize", s.handleSynthesize)
		r.Post("/audiobooks", s.handleCreateAudiobook)
	})
}
