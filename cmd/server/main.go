package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kma-weather-api/internal/api"
	"kma-weather-api/internal/config"
	"kma-weather-api/internal/services"
	"kma-weather-api/internal/storage"
	"kma-weather-api/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting KMA Weather API Gateway")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Coordinate lookup store
	coordStore, err := storage.NewSQLite(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open coordinate database", zap.Error(err))
	}
	defer coordStore.Close()

	// Upstream KMA client
	kmaClient := client.NewKMAClient(
		cfg.WeatherAPI.ServiceKey,
		cfg.WeatherAPI.BaseURL,
		client.ClientConfig{
			Timeout:        cfg.WeatherAPI.Timeout,
			MaxRetries:     cfg.Retry.MaxRetries,
			RetryDelay:     cfg.Retry.Delay,
			Multiplier:     cfg.Retry.Multiplier,
			Threshold:      cfg.CircuitBreaker.Threshold,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
		logger,
	)
	defer kmaClient.CloseIdleConnections()

	// Weather query service
	weatherService := services.NewWeatherService(kmaClient, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "kma-weather-api",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: api.ErrorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(weatherService, coordStore, logger)
	api.SetupRoutes(app, handler, logger)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
