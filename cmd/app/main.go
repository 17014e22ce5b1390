package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"plantcare.app/advisor"
	"plantcare.app/api"
	"plantcare.app/config"
	"plantcare.app/database"
	"plantcare.app/location"
	"plantcare.app/metrics"
	"plantcare.app/pkg/logger"
	"plantcare.app/providers"
	"plantcare.app/providers/cache"
	"plantcare.app/repository"
	"plantcare.app/service"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	logger.Setup()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.InitDB(cfg.Store)
	if err != nil {
		slog.Error("Failed to initialize local store", "error", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run store migrations", "error", err)
		os.Exit(1)
	}

	store := repository.NewStoreRepository(db)

	profileClient := location.NewProfileClient(&cfg.Profile)

	var device location.DeviceLocator = location.DisabledLocator{}
	if cfg.Location.DeviceEnabled {
		device = location.NewGatewayLocator(&cfg.Location)
	}

	resolver := location.NewResolver(
		store,
		profileClient,
		device,
		cfg.Location.CacheTTL,
		metrics.NewResolverMetrics(),
	)

	weatherCache, err := cache.NewCacheFromConfig(&cfg.Cache)
	if err != nil {
		slog.Error("Failed to initialize weather cache", "error", err)
		os.Exit(1)
	}

	fetcher := providers.NewFetcher(
		providers.NewProxyClient(&cfg.Weather),
		cache.NewSnapshotCache(weatherCache),
		cfg.Weather.CacheTTL,
		metrics.NewCacheMetrics(cfg.Cache.Type),
	)

	server := api.NewServer(
		cfg,
		service.NewLocationService(resolver),
		service.NewWeatherService(fetcher),
		service.NewAdvisoryService(advisor.NewEngine()),
		store,
	)

	setupGracefulShutdown(db)

	slog.Info("Starting plant care advisory API", "port", cfg.Server.Port)
	if err := server.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(db *gorm.DB) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		slog.Info("Received shutdown signal...")
		if err := database.CloseDB(db); err != nil {
			slog.Error("Error closing local store", "error", err)
		}
		os.Exit(0)
	}()
}
