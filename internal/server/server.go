// Package server provides the HTTP server and routing.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/drawlytics/drawlytics/internal/config"
	"github.com/drawlytics/drawlytics/internal/database"
	"github.com/drawlytics/drawlytics/internal/events"
	"github.com/drawlytics/drawlytics/internal/modules/artifacts"
	artifactshandlers "github.com/drawlytics/drawlytics/internal/modules/artifacts/handlers"
	"github.com/drawlytics/drawlytics/internal/modules/draws"
	drawshandlers "github.com/drawlytics/drawlytics/internal/modules/draws/handlers"
	"github.com/drawlytics/drawlytics/internal/scheduler"
)

// Config holds server dependencies.
type Config struct {
	Log           zerolog.Logger
	Cfg           *config.Config
	DrawsDB       *database.DB
	DrawService   *draws.Service
	ArtifactStore *artifacts.Store
	UpdateJob     *scheduler.UpdateJob
	Hub           *events.Hub
}

// Server is the HTTP server.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	drawsDB        *database.DB
	drawService    *draws.Service
	artifactStore  *artifacts.Store
	updateJob      *scheduler.UpdateJob
	hub            *events.Hub
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg.Cfg,
		drawsDB:        cfg.DrawsDB,
		drawService:    cfg.DrawService,
		artifactStore:  cfg.ArtifactStore,
		updateJob:      cfg.UpdateJob,
		hub:            cfg.Hub,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.DrawsDB, cfg.DrawService),
	}

	s.setupMiddleware(cfg.Cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// WebSocket stream must skip the write timeout middleware chain
		r.Get("/ws", s.handleWebSocket)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
		})

		r.Post("/update", s.handleTriggerUpdate)

		drawshandlers.NewHandler(s.drawService, s.log).RegisterRoutes(r)
		artifactshandlers.NewHandler(s.artifactStore, s.log).RegisterRoutes(r)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
