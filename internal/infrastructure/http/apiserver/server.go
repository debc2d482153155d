// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fitchef/fitchef/internal/infrastructure/config"
	"github.com/fitchef/fitchef/internal/infrastructure/http/handlers"
	"github.com/fitchef/fitchef/internal/infrastructure/http/middleware"
	"github.com/fitchef/fitchef/internal/infrastructure/security"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the JSON API HTTP server.
type Server struct {
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server
	router      *chi.Mux
	handlers    *handlers.APIHandlers
	authService *security.AuthService
}

// NewServer creates a new API server instance
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	apiHandlers *handlers.APIHandlers,
	authService *security.AuthService,
) *Server {
	s := &Server{
		config:      cfg,
		logger:      log,
		handlers:    apiHandlers,
		authService: authService,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures the JSON API routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(s.config.RateLimit))

	// Generation calls block on the model, so the request timeout must
	// exceed the AI client timeout.
	r.Use(chimiddleware.Timeout(s.config.AI.Timeout + 30*time.Second))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.JSONOnly())

	r.Get("/health", s.handlers.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *Server) setupAPIV1Routes(r chi.Router) {
	h := s.handlers

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authService))
			r.Post("/logout", h.Logout)
			r.Get("/profile", h.Profile)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(s.authService))
		r.Post("/generate", h.Generate)
		r.Get("/recipes", h.ListRecipes)
		r.Get("/recipes/{id}", h.GetRecipe)
	})

	// Authenticated by shared secret, not by user session.
	r.Post("/webhooks/payment", h.PaymentWebhook)
}

// Start starts the API HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	return s.server.ListenAndServe()
}

// Server returns the underlying HTTP server instance
func (s *Server) Server() *http.Server {
	return s.server
}

// Router returns the configured router, used by handler tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
