package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ridwanfathin/rug-estimate-service/internal/config"
	"github.com/ridwanfathin/rug-estimate-service/internal/database"
	"github.com/ridwanfathin/rug-estimate-service/internal/export"
	"github.com/ridwanfathin/rug-estimate-service/internal/handler"
	"github.com/ridwanfathin/rug-estimate-service/internal/repository"
	"github.com/ridwanfathin/rug-estimate-service/internal/server"
	"github.com/ridwanfathin/rug-estimate-service/internal/service"
	"github.com/ridwanfathin/rug-estimate-service/internal/storage"
)

// @title Rug Estimate Service API
// @version 1.0
// @description Turns rug inspection letters into priced service estimates, annotated photos and approved quotes.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("config.load.failed", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("server.failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Initialize repository
	var repo repository.EstimateRepository
	var db *database.PostgresDB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewPostgresDB(ctx, database.Config{
			URL:            cfg.DatabaseURL,
			MaxConns:       int32(cfg.DBMaxConns),
			ConnectTimeout: 10 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		repo = repository.NewPostgresEstimateRepository(db.GetPool())
		logger.Info("repository.ready", "backend", "postgres")
	} else {
		repo = repository.NewMemoryEstimateRepository()
		logger.Info("repository.ready", "backend", "memory")
	}

	// Initialize optional export storage
	var uploader storage.Uploader
	if cfg.StorageConfigured() {
		s3Uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("init export storage: %w", err)
		}
		uploader = s3Uploader
	}

	// Create services and handlers
	estimateService := service.NewEstimateService(repo, service.Config{
		Exporter:     export.NewService(logger),
		Uploader:     uploader,
		ExportPrefix: cfg.ExportPrefix,
		Logger:       logger,
	})
	estimateHandler := handler.NewEstimateHandler(estimateService, logger)

	// Create and configure server
	appServer := server.NewServer(cfg, estimateHandler, logger)
	if db != nil {
		appServer.SetHealthCheck(db.Ping)
	}

	// Start server (blocking call)
	return appServer.Start()
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevelValue()}
	if cfg.LogFormat == "pretty" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
