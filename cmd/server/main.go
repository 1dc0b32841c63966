package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-roster/internal/config"
	"github.com/stemsi/student-roster/internal/database"
	"github.com/stemsi/student-roster/internal/handler"
	"github.com/stemsi/student-roster/internal/logger"
	"github.com/stemsi/student-roster/internal/router"
	"github.com/stemsi/student-roster/internal/service"
	"github.com/stemsi/student-roster/internal/validator"
	ws "github.com/stemsi/student-roster/internal/websocket"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting student roster server")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Roster Store ─────────────────────────────────────────────
	repo, closeStore, err := database.OpenRosterRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open roster store")
	}
	defer closeStore()

	// ─── Start WebSocket Hub ───────────────────────────────────────────
	hub := ws.NewHub(cfg.AllowedOrigins, log)
	hubCtx, hubCancel := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	// ─── Load Roster ───────────────────────────────────────────────────
	rosterService := service.NewRosterService(repo, hub, log,
		service.WithOverwriteUnreadable(cfg.OverwriteUnreadable))
	// Load logs its own outcome. A failed load leaves the roster empty and
	// read-only; /health reports it.
	_ = rosterService.Load(ctx)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Roster: handler.NewRosterHandler(rosterService, log),
		Health: handler.NewHealthHandler(rosterService),
		WS:     handler.NewWSHandler(hub),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Close WebSocket streams; hijacked connections are not covered by Shutdown.
	hubCancel()

	// 2. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
