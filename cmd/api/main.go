package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/cache"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/server"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/storage"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	code := 0
	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	os.Exit(code)
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Initialize database
	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Redis backs the local cache, sessions and rate limits. Without it the
	// server keeps them in process memory.
	var store cache.Store
	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		store = cache.NewMemoryStore()
	} else {
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient)
	}

	generator, closeGenerator, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGenerator()

	var objects service.ObjectStorage
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			return err
		}
		objects = s3Store
	} else {
		logger.Info("S3_BUCKET_NAME not set, recipe sharing disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(cfg, server.Dependencies{
		DB:        db,
		Cache:     store,
		Generator: generator,
		Storage:   objects,
		Registry:  registry,
		Logger:    logger,
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// newGenerator builds the text generator for the configured provider.
func newGenerator(ctx context.Context, cfg *config.Config) (service.TextGenerator, func(), error) {
	switch cfg.LLMProvider {
	case "deepseek":
		return service.NewDeepSeekClient(cfg.DeepSeekAPIKey, cfg.DeepSeekAPIURL), func() {}, nil
	default:
		client, err := service.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	}
}
