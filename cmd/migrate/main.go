package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/database"
	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/models"
)

func main() {
	// Parse command line flags
	reset := flag.Bool("reset", false, "Drop all tables before migrating (not allowed in production)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Environment.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if *reset {
		if cfg.Environment.IsProduction() {
			logger.Fatal("Refusing to reset a production database")
		}
		tables := []interface{}{&models.Recipe{}, &models.DietaryProfile{}, &models.Product{}, &models.User{}}
		if err := db.Migrator().DropTable(tables...); err != nil {
			logger.Fatal("Failed to drop tables", zap.Error(err))
		}
		logger.Info("Dropped all tables")
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	logger.Info("All migrations applied successfully", zap.String("driver", cfg.DBDriver))
}
