// Package api provides the HTTP server for Meteograph (Dashboard + API).
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meteograph/meteograph/internal/chart"
	"github.com/meteograph/meteograph/internal/config"
	"github.com/meteograph/meteograph/internal/panel"
	"github.com/meteograph/meteograph/internal/sampler"
	"github.com/meteograph/meteograph/internal/storage"
	"github.com/meteograph/meteograph/pkg/version"
)

// Server represents the HTTP web server (Dashboard + API).
type Server struct {
	config     *config.WebserverConfig
	fullConfig *config.Config
	storage    storage.Storage
	runner     *sampler.Runner
	formatter  *chart.Formatter
	panels     map[string]*panel.Panel
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a new API server instance. One interaction panel is
// created per enabled station; every quick-filter selection flows through
// the panel change callback into the Prometheus filter counter.
func NewServer(cfg *config.Config, store storage.Storage, runner *sampler.Runner, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	panels := make(map[string]*panel.Panel)
	for _, st := range cfg.GetEnabledStations() {
		panels[st.Name] = panel.New(
			logger.With(zap.String("station", st.Name)),
			panel.WithChangeFunc(RecordFilterSelection),
		)
	}

	s := &Server{
		config:     &cfg.Webserver,
		fullConfig: cfg,
		storage:    store,
		runner:     runner,
		formatter:  chart.NewFormatter(logger).WithLocation(time.Local),
		panels:     panels,
		logger:     logger,
	}

	s.setupRouter()
	return s, nil
}

// setupRouter configures the Chi router with all routes and middleware.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Basic Auth (if configured)
	if s.config.Auth != nil && s.config.Auth.Username != "" {
		r.Use(s.basicAuthMiddleware)
	}

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	// Dashboard (Web UI)
	r.Get("/", s.handleDashboard)
	r.Get("/dashboard", s.handleDashboard)
	r.Route("/dashboard/station/{name}", func(r chi.Router) {
		r.Get("/chart", s.handleStationChart)
		r.Post("/filter", s.handleStationFilter)
		r.Post("/rendered", s.handleStationRendered)
	})

	// API Documentation
	r.Get("/api", s.handleAPIRedirect)
	r.Get("/api/", s.handleAPIDocs)

	// API v1 routes (Read-Only)
	r.Route("/api/v1", func(r chi.Router) {
		// Observations
		r.Get("/observations", s.handleGetObservations)
		r.Get("/observations/latest", s.handleGetLatestObservations)
		r.Get("/observations/{id}", s.handleGetObservation)

		// Stations
		r.Get("/stations", s.handleGetStations)
		r.Get("/stations/{name}/stats", s.handleGetStationStats)

		// Sampling
		r.Post("/sample", s.handleTriggerSample)

		// Metrics
		r.Get("/metrics", s.handlePrometheusMetrics)
	})

	s.router = r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting web server",
		zap.String("listen", s.config.Listen),
		zap.String("version", version.GetShortVersion()),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router (useful for testing).
func (s *Server) Router() chi.Router {
	return s.router
}
