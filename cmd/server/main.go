package main

import (
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"cenometr/server/config"
	"cenometr/server/internal/api"
	"cenometr/server/internal/database"
	"cenometr/server/internal/scheduler"
	"cenometr/server/internal/scraping"
	"cenometr/server/internal/stats"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// optional; real deployments configure through the environment
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.DatabasePath)

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	seeded, err := db.SeedDefaultTransactions()
	if err != nil {
		logger.WithError(err).Fatal("Failed to seed transactions")
	}
	if seeded {
		logger.Info("Seeded reference transactions")
		for _, city := range config.TrackedCities {
			if err := stats.RebuildTransactionSnapshots(db, city.ID); err != nil {
				logger.WithError(err).WithField("city", city.Slug).Error("Failed to build transaction snapshots")
			}
		}
	}

	manager := scraping.NewRefreshManager(db, cfg, logger)
	handler := api.NewHandler(db, manager, logger)

	if cfg.Scheduler.Enabled {
		s := scheduler.NewScheduler(manager, cfg, logger)
		s.Start()
		defer s.Stop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
