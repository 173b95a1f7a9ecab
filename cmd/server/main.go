package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shiftboard/backend/internal/api"
	"github.com/shiftboard/backend/internal/auth"
	"github.com/shiftboard/backend/internal/camp"
	"github.com/shiftboard/backend/internal/config"
	"github.com/shiftboard/backend/internal/export"
	"github.com/shiftboard/backend/internal/metrics"
	"github.com/shiftboard/backend/internal/refresher"
	"github.com/shiftboard/backend/internal/report"
	"github.com/shiftboard/backend/internal/roster"
	"github.com/shiftboard/backend/internal/settings"
	"github.com/shiftboard/backend/internal/storage"
	"github.com/shiftboard/backend/internal/users"
	"github.com/shiftboard/backend/internal/websocket"
	"github.com/shiftboard/backend/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Str("export_mode", cfg.ExportMode).
		Msg("starting shiftboard backend server")

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create store (DynamoDB or in-memory, per environment)
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create store")
	}

	// Create services
	rosterSvc := roster.NewService(store, log.Logger)
	campSvc := camp.NewService(store, log.Logger)
	reportSvc := report.NewService(store, log.Logger)
	userSvc := users.NewService(store, log.Logger)
	settingsSvc := settings.NewService(store, log.Logger)

	if err := userSvc.EnsureDefaultAdmin(); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default admin")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	exporter := export.New(cfg.ExportMode)

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	// Start the snapshot refresh loop at the saved interval
	currentSettings, err := settingsSvc.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load settings")
	}
	refresherSvc := refresher.New(rosterSvc, campSvc, hub, log.Logger)
	go refresherSvc.Start(ctx, time.Duration(currentSettings.UpdateInterval)*time.Second)

	// Create handlers
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)
	agentsHandler := api.NewAgentsHandler(rosterSvc, campSvc, log.Logger)
	campsHandler := api.NewCampsHandler(campSvc, rosterSvc, log.Logger)
	reportsHandler := api.NewReportsHandler(reportSvc, rosterSvc, exporter, log.Logger)
	usersHandler := api.NewUsersHandler(userSvc, tokens, log.Logger)
	settingsHandler := api.NewSettingsHandler(settingsSvc, refresherSvc, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())
	r.Post("/api/login", usersHandler.Login)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Get("/ws", wsHandler.ServeHTTP)
		r.Get("/api/settings", settingsHandler.Get)
		r.Route("/api/agents", agentsHandler.Routes)
		r.Route("/api/camps", campsHandler.Routes)
		r.Route("/api/reports", reportsHandler.Routes)

		// Admin-only surface
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Put("/api/settings", settingsHandler.Update)
			r.Route("/api/users", usersHandler.Routes)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the refresher
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"shiftboard-backend"}`)
}
