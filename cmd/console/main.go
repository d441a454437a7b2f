package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/maxviazov/shop-admin-console/internal/apiclient"
	"github.com/maxviazov/shop-admin-console/internal/config"
	"github.com/maxviazov/shop-admin-console/internal/feedback"
	"github.com/maxviazov/shop-admin-console/internal/handler"
	"github.com/maxviazov/shop-admin-console/internal/listview"
	"github.com/maxviazov/shop-admin-console/internal/logger"
	"github.com/maxviazov/shop-admin-console/internal/metrics"
	"github.com/maxviazov/shop-admin-console/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real env vars win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ .env not loaded: %v", err)
	}

	configPath := os.Getenv("APP_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load application config
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	if cfg.Logger.Env == "" {
		cfg.Logger.Env = cfg.App.Env
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	appLogger.Info().Str("config", configPath).Msg("✅ Logger initialized successfully")

	client, err := apiclient.New(cfg.API, nil, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ API client initialization failed")
	}

	var m *metrics.Metrics
	var observer listview.Observer
	if cfg.Metrics.Enabled {
		m = metrics.New(nil)
		observer = m
	}

	recorder := feedback.NewRecorder(cfg.ListView.NoticeBuffer)
	notifier := feedback.Fanout{recorder, feedback.NewLogNotifier(appLogger)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := service.NewRegistry(ctx, listview.Options{
		Defaults:      listview.Filters{Size: cfg.ListView.DefaultPageSize},
		DebounceDelay: cfg.ListView.DebounceDelay,
		RetryDelay:    cfg.ListView.RetryDelay,
		FetchTimeout:  cfg.ListView.FetchTimeout,
		Notifier:      notifier,
		Observer:      observer,
		Logger:        appLogger,
	}, appLogger)
	service.RegisterBackend(registry, client)

	console := service.NewConsoleService(service.ConsoleOptions{
		Registry:    registry,
		Uploader:    client,
		Notices:     recorder,
		Notifier:    notifier,
		MaxPageSize: cfg.ListView.MaxPageSize,
	}, appLogger)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewEngine(handler.Deps{
		Backend:     client,
		Console:     console,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		Logger:      appLogger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info().Int("port", cfg.App.Port).Str("backend", cfg.API.BaseURL).Msg("🚀 Service started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("❌ HTTP server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("server shutdown failed")
	}
	registry.Close()
	appLogger.Info().Msg("stopped")
}
