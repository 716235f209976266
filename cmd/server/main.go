package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/empathy-ledger/campaign-workflow-api/internal/config"
	"github.com/empathy-ledger/campaign-workflow-api/internal/dao"
	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/metrics"
	"github.com/empathy-ledger/campaign-workflow-api/internal/router"
	"github.com/empathy-ledger/campaign-workflow-api/internal/service"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Campaign Workflow API Server...")

	// CONFIG_PATH wins over auto-discovery of configs/config.yaml
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Info("Configuration loaded successfully")

	db, err := database.Initialize(&cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("Database health check failed")
	}

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			logger.WithError(err).Fatal("Failed to apply migrations")
		}
		logger.WithField("applied", applied).Info("Schema migrations complete")
	}

	workflowDAO := dao.NewWorkflowDAO(db)
	stageAuditDAO := dao.NewStageAuditDAO(db)
	campaignDAO := dao.NewCampaignDAO(db)

	workflowService := service.NewWorkflowService(workflowDAO, stageAuditDAO, campaignDAO, db, cfg.Workflow, logger)
	campaignService := service.NewCampaignService(campaignDAO, workflowDAO, db, cfg.Campaign, logger)

	logger.Info("Services initialized successfully")

	ginRouter := router.SetupRouter(router.Options{
		CORS:      cfg.CORS,
		Logger:    logger,
		Registry:  metrics.NewRegistry(),
		Health:    db,
		Workflows: workflowService,
		Campaigns: campaignService,
	})

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logger.WithField("addr", serverAddr).Info("Starting HTTP server...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	db.LogStats()
	logger.Info("Server exited gracefully")
}
