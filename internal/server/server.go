// Package server wires the store, services, handlers and middleware into
// one HTTP server and runs it until a shutdown signal arrives.
//
// DEPENDENCY FLOW:
//
//	config.Config → sqlite.DB → metrics.InstrumentStore → services → handlers → chi routes
//
// Everything is assembled in New, the composition root. The server owns the
// database connection and closes it on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippet-social/internal/auth"
	"github.com/sakif/snippet-social/internal/config"
	"github.com/sakif/snippet-social/internal/handler"
	"github.com/sakif/snippet-social/internal/metrics"
	"github.com/sakif/snippet-social/internal/middleware"
	"github.com/sakif/snippet-social/internal/service"
	"github.com/sakif/snippet-social/internal/store/sqlite"
)

// Server is the HTTP server and the resources it owns.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	db      *sqlite.DB
	metrics *metrics.Metrics
	tokens  *auth.TokenService
}

// New opens the store and builds the router. The caller must call Start or
// Close to release the database.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlite.New(sqlite.Config{Path: cfg.DBPath, Timeout: cfg.StoreTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
		tokens:  tokens,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes registers middleware and routes.
//
//	GET  /healthz                    → store ping
//	GET  /metrics                    → Prometheus exposition
//	GET  /users/{handle}             → profile + first feed page
//	GET  /users/{handle}/summary     → profile + latest snippet
//	GET  /users/{handle}/snippets    → next feed page (?cursor=)
//	GET  /me                         → caller's credentials and activity   [auth]
//	POST /notifications/read         → mark notifications read             [auth]
//
// Recoverer sits inside Logger so a recovered panic is still logged as 500.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger, s.metrics))
	s.router.Use(chimiddleware.Recoverer)

	client := metrics.InstrumentStore(s.db, s.metrics)

	profiles := service.NewProfileService(client, service.ProfileConfig{
		PageSize:          s.config.FeedPageSize,
		NotificationLimit: s.config.NotificationLimit,
	}, s.logger)
	feed := service.NewFeedService(client, s.config.FeedPageSize, s.logger)
	notifications := service.NewNotificationService(client, s.logger)

	profileHandler := handler.NewProfileHandler(profiles, feed, s.logger)
	notificationHandler := handler.NewNotificationHandler(notifications, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Get("/users/{handle}", profileHandler.HandleGetUser)
	s.router.Get("/users/{handle}/summary", profileHandler.HandleSummary)
	s.router.Get("/users/{handle}/snippets", profileHandler.HandleNextSnippets)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(s.tokens, handler.Deny(s.logger)))
		r.Get("/me", profileHandler.HandleMe)
		r.Post("/notifications/read", notificationHandler.HandleMarkRead)
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to config.ShutdownTimeout and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.Int("feed_page_size", s.config.FeedPageSize),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
