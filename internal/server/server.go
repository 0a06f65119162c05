// Package server wires the application together: it owns the router,
// the database connection and the dependency graph, and runs the HTTP
// server with graceful shutdown.
//
// WHY SEPARATE FROM main.go?
// Keeping the wiring in its own package makes it:
// - Testable (tests can build a full server without running main)
// - Reusable (multiple entry points share the same setup)
// - Clean (main.go only reads config and calls Start)
//
// DEPENDENCY INJECTION FLOW:
// main.go builds a Config from the environment and passes it here.
// New() then assembles the whole chain in one place:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: the auth service gets the user
// repository interface, not the concrete DB; handlers get services, never
// SQL. This is the "composition root" pattern.
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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anakena/club-server/internal/auth"
	"github.com/anakena/club-server/internal/handler"
	"github.com/anakena/club-server/internal/middleware"
	sqliteRepo "github.com/anakena/club-server/internal/repository/sqlite"
	"github.com/anakena/club-server/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs session tokens. Required; New rejects short values.
	JWTSecret string

	// AdminEmailDomain marks accounts as admin when their email ends
	// with this suffix (e.g. "@anakena.cl").
	AdminEmailDomain string

	// BcryptCost tunes password hashing. 0 picks the default.
	BcryptCost int

	// SecureCookies restricts the session cookie to HTTPS. Enabled in
	// production, off for local development over plain HTTP.
	SecureCookies bool

	// AllowedOrigins is the CORS allow-list for the browser frontend.
	AllowedOrigins []string
}

// Server is the HTTP server plus the resources it owns. The database
// connection belongs to the server and is closed during shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and returns a ready-to-start
// server. The returned server owns the database connection.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured router so tests can drive the server
// through httptest without opening a real listener.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources. Start does this itself on
// shutdown; Close exists for callers that never reach Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and all route handlers.
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID — unique ID per request, for tracing
// 2. RealIP — real client IP from proxy headers
// 3. Recoverer — turns panics into 500s instead of crashing
// 4. CORS — must answer preflights before auth runs
// 5. Logger + Metrics — observe everything that reaches a handler
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(s.config.AllowedOrigins))
	s.router.Use(middleware.Logger(s.logger))

	// A per-server registry (instead of the process-global default) lets
	// multiple servers coexist, e.g. across tests, without collector
	// registration collisions.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.router.Use(middleware.Metrics(registry))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(
		s.db.Users(), tokens, passwords, s.config.AdminEmailDomain, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.config.SecureCookies, s.logger)

	teamHandler := handler.NewTeamHandler(s.db.Teams())
	playerHandler := handler.NewPlayerHandler(s.db.Players())
	matchHandler := handler.NewMatchHandler(s.db.Matches())
	newsHandler := handler.NewNewsHandler(s.db.News())
	tournamentHandler := handler.NewTournamentHandler(s.db.Tournaments())
	eventHandler := handler.NewEventHandler(s.db.Events())
	storeHandler := handler.NewStoreHandler(s.db.Store())

	// Every handler behind requireSession sees a request whose session
	// cookie verified AND whose x-csrf-token header matched the claim.
	requireSession := auth.RequireSession(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(requireSession)
				r.Get("/me", authHandler.HandleMe)
				r.Get("/users", authHandler.HandleListUsers)
			})
		})

		// Reads are public; mutations need a verified session.
		registerResource(r, "/teams", requireSession, resourceRoutes{
			list: teamHandler.HandleList, get: teamHandler.HandleGetByID,
			create: teamHandler.HandleCreate, update: teamHandler.HandleUpdate,
			delete: teamHandler.HandleDelete,
		})
		registerResource(r, "/players", requireSession, resourceRoutes{
			list: playerHandler.HandleList, get: playerHandler.HandleGetByID,
			create: playerHandler.HandleCreate, update: playerHandler.HandleUpdate,
			delete: playerHandler.HandleDelete,
		})
		registerResource(r, "/matches", requireSession, resourceRoutes{
			list: matchHandler.HandleList, get: matchHandler.HandleGetByID,
			create: matchHandler.HandleCreate, update: matchHandler.HandleUpdate,
			delete: matchHandler.HandleDelete,
		})
		registerResource(r, "/news", requireSession, resourceRoutes{
			list: newsHandler.HandleList, get: newsHandler.HandleGetByID,
			create: newsHandler.HandleCreate, update: newsHandler.HandleUpdate,
			delete: newsHandler.HandleDelete,
		})
		registerResource(r, "/tournaments", requireSession, resourceRoutes{
			list: tournamentHandler.HandleList, get: tournamentHandler.HandleGetByID,
			create: tournamentHandler.HandleCreate, update: tournamentHandler.HandleUpdate,
			delete: tournamentHandler.HandleDelete,
		})
		registerResource(r, "/events", requireSession, resourceRoutes{
			list: eventHandler.HandleList, get: eventHandler.HandleGetByID,
			create: eventHandler.HandleCreate, update: eventHandler.HandleUpdate,
			delete: eventHandler.HandleDelete,
		})
		registerResource(r, "/store", requireSession, resourceRoutes{
			list: storeHandler.HandleList, get: storeHandler.HandleGetByID,
			create: storeHandler.HandleCreate, update: storeHandler.HandleUpdate,
			delete: storeHandler.HandleDelete,
		})
	})

	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return nil
}

// resourceRoutes is the uniform handler set every collection exposes.
type resourceRoutes struct {
	list   http.HandlerFunc
	get    http.HandlerFunc
	create http.HandlerFunc
	update http.HandlerFunc
	delete http.HandlerFunc
}

func registerResource(r chi.Router, path string, guard func(http.Handler) http.Handler, routes resourceRoutes) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", routes.list)
		r.Get("/{id}", routes.get)

		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/", routes.create)
			r.Put("/{id}", routes.update)
			r.Delete("/{id}", routes.delete)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, then close the database (flushes the WAL and
// releases the file lock).
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
			slog.String("database", s.config.DBPath),
			slog.Bool("secure_cookies", s.config.SecureCookies),
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
