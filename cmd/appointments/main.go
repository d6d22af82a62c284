package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/appointment-hub/internal/application"
	"github.com/example/appointment-hub/internal/config"
	"github.com/example/appointment-hub/internal/docstore"
	"github.com/example/appointment-hub/internal/docstore/sqlite"
	httptransport "github.com/example/appointment-hub/internal/http"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Local development convenience; a missing .env file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	backend, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := backend.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	store := docstore.NewStore(backend, uuid.NewString, now, logger)
	defer store.Close()

	authService := application.NewAuthService(store, store, nil, tokenGenerator, now, cfg.SessionTTL, cfg.AdminPIN, logger)
	catalogService := application.NewCatalogService(store, logger)
	bookingService := application.NewBookingService(store, store, now, cfg.ConflictCheck, logger)
	lifecycleService := application.NewLifecycleService(store, logger)
	analyticsService := application.NewAnalyticsService(store, now, logger)

	if cfg.Seed {
		if err := application.SeedCatalog(ctx, store, logger); err != nil {
			logger.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, logger),
		Services:       httptransport.NewServiceHandler(catalogService, bookingService, logger),
		Appointments:   httptransport.NewAppointmentHandler(bookingService, lifecycleService, logger),
		Admin:          httptransport.NewAdminHandler(analyticsService, logger),
		Feeds:          httptransport.NewFeedHandler(store, logger),
		Sessions:       authService,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("appointments API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
