// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root that connects
// config, database, services, handlers, and middleware. Keeping it out of
// main.go makes the whole stack constructible from tests: the end-to-end
// tests build a Server against an in-memory database and drive it through
// httptest without ever binding a port.
//
// DEPENDENCY INJECTION FLOW:
//
//	main.go: config.Load() → logger → server.New(cfg, logger)
//	server.New: sqlite.DB → auth services → domain services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services (not
// repositories), routes get handlers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/boilerplate-api/internal/auth"
	"github.com/sakif/boilerplate-api/internal/config"
	"github.com/sakif/boilerplate-api/internal/handler"
	"github.com/sakif/boilerplate-api/internal/middleware"
	sqliteRepo "github.com/sakif/boilerplate-api/internal/repository/sqlite"
	"github.com/sakif/boilerplate-api/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection belongs to the Server and is closed during shutdown, after
// in-flight requests have drained.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency chain and wires all routes.
//
// IMPORT ALIAS:
// repository/sqlite is imported as sqliteRepo to keep it visually distinct
// from the driver package.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // clean up if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router so tests can mount the whole API on an
// httptest.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Tests use this; production goes through Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// DB exposes the underlying store for tests and admin tooling that need to
// manipulate state the HTTP surface doesn't cover (e.g. deactivating a
// user).
func (s *Server) DB() *sqliteRepo.DB {
	return s.db
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                       → welcome (JSON)
//	GET    /health                 → liveness probe
//	POST   /auth/register          → create user, return token
//	POST   /auth/login             → verify credentials, return token
//	GET    /auth/google/login      → Google consent URL (JSON)
//	GET    /auth/google/callback   → finish OAuth, redirect with token
//	GET    /auth/me                → current user          [auth]
//	PATCH  /auth/me                → patch current user    [auth]
//	GET    /items                  → list own items        [auth]
//	POST   /items                  → create item           [auth]
//	GET    /items/{id}             → get own item          [auth]
//	PATCH  /items/{id}             → patch own item        [auth]
//	DELETE /items/{id}             → delete own item       [auth]
//
// MIDDLEWARE ORDER MATTERS — ours runs in this order on every request:
//  1. RequestID — assigns a unique ID for tracing
//  2. RealIP — extracts the real client IP from proxy headers
//  3. Recoverer — catches panics and returns 500 instead of crashing
//  4. Logger — logs each request with timing info
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Auth plumbing ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTAlgorithm, s.config.AccessTokenTTL())
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	google := auth.NewGoogleProvider(
		s.config.GoogleClientID,
		s.config.GoogleClientSecret,
		s.config.GoogleRedirectURI,
	)
	if !google.Configured() {
		s.logger.Warn("Google OAuth not configured — /auth/google endpoints will report it")
	}

	// === Services ===
	authSvc := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	oauthSvc := service.NewOAuthService(s.db.Users(), s.db.OAuthAccounts(), google, s.logger)
	itemSvc := service.NewItemService(s.db.Items(), s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authSvc, oauthSvc, s.config.FrontendURL, s.logger)
	itemHandler := handler.NewItemHandler(itemSvc, s.logger)

	// === Public routes ===
	s.router.Get("/", handler.HandleRoot)
	s.router.Get("/health", handler.HandleHealth)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/google/login", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)

		// /auth/me requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Patch("/me", authHandler.HandleUpdateMe)
		})
	})

	// === Protected routes ===
	s.router.Route("/items", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/", itemHandler.HandleList)
		r.Post("/", itemHandler.HandleCreate)
		r.Get("/{id}", itemHandler.HandleGet)
		r.Patch("/{id}", itemHandler.HandleUpdate)
		r.Delete("/{id}", itemHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections on SIGINT/SIGTERM
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
//
// The deferred db.Close ensures step 3 happens even if something panics.
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

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
