// Package cli implements campaignctl, the operator command line for the campaign workflow store.
package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/empathy-ledger/campaign-workflow-api/internal/config"
	"github.com/empathy-ledger/campaign-workflow-api/internal/dao"
	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/service"
)

// Env is the wired store a command runs against
type Env struct {
	Config    *config.Config
	Logger    *logrus.Logger
	DB        *database.DB
	Workflows *service.WorkflowService
	Campaigns *service.CampaignService

	closer func() error
}

// Opener builds an Env from a config file path
type Opener func(ctx context.Context, configPath string) (*Env, error)

// NewEnv wires the DAOs and services over db
func NewEnv(cfg *config.Config, db *database.DB, logger *logrus.Logger) *Env {
	workflowDAO := dao.NewWorkflowDAO(db)
	campaignDAO := dao.NewCampaignDAO(db)
	return &Env{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Workflows: service.NewWorkflowService(workflowDAO, dao.NewStageAuditDAO(db), campaignDAO, db, cfg.Workflow, logger),
		Campaigns: service.NewCampaignService(campaignDAO, workflowDAO, db, cfg.Campaign, logger),
	}
}

// Open loads the configuration and connects to the configured database
func Open(ctx context.Context, configPath string) (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil && level > logrus.WarnLevel {
		logger.SetLevel(level)
	}

	db, err := database.Initialize(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	env := NewEnv(cfg, db, logger)
	env.closer = db.Close
	return env, nil
}

// Close releases the database connection when Open created it
func (e *Env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer()
}
