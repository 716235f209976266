package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/empathy-ledger/campaign-workflow-api/internal/config"
	"github.com/empathy-ledger/campaign-workflow-api/internal/core/campaign"
	"github.com/empathy-ledger/campaign-workflow-api/internal/core/workflow"
	"github.com/empathy-ledger/campaign-workflow-api/internal/dao"
	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/metrics"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

// Clock returns the current time in epoch milliseconds
type Clock func() int64

// storeError passes service errors through and wraps anything else as a StoreError
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := serviceerror.As(err); ok {
		return err
	}
	return serviceerror.Store(op, err)
}

// fail records a failed operation and returns err
func fail(logger *logrus.Logger, op string, err error, fields logrus.Fields) error {
	errType := serviceerror.StoreError.Message
	entry := logger.WithFields(fields).WithError(err)
	if se, ok := serviceerror.As(err); ok {
		errType = se.Message
		if se.Type == serviceerror.ServerErrorType {
			entry.Errorf("%s failed", op)
		} else {
			entry.Debugf("%s rejected", op)
		}
	} else {
		entry.Errorf("%s failed", op)
	}
	metrics.RecordFailure(op, errType)
	return err
}

func validateTenant(tenantID string) error {
	if err := utils.ValidateTenantID(tenantID); err != nil {
		return serviceerror.Validation("%s", err.Error())
	}
	return nil
}

func validateID(field, id string) error {
	if err := utils.ValidateID(field, id); err != nil {
		return serviceerror.Validation("%s", err.Error())
	}
	return nil
}

// ScorerFromConfig builds the pending queue scorer, keeping defaults for unset weights
func ScorerFromConfig(cfg config.PriorityConfig) workflow.WeightedScorer {
	scorer := workflow.DefaultWeightedScorer()
	for stage, weight := range cfg.StageWeights {
		scorer.StageWeights[models.Stage(stage)] = weight
	}
	if cfg.PerDayWeight != 0 {
		scorer.PerDayWeight = cfg.PerDayWeight
	}
	if cfg.MaxDays != 0 {
		scorer.MaxDays = cfg.MaxDays
	}
	if cfg.ElderPendingWeight != 0 {
		scorer.ElderPendingWeight = cfg.ElderPendingWeight
	}
	if cfg.FollowUpDueWeight != 0 {
		scorer.FollowUpDueWeight = cfg.FollowUpDueWeight
	}
	return scorer
}

// rollUpCampaign recomputes a campaign's counts from its workflows inside tx.
// The campaign row is locked first so concurrent roll ups serialize.
func rollUpCampaign(ctx context.Context, tx *database.Transaction, campaignDAO *dao.CampaignDAO, workflowDAO *dao.WorkflowDAO, tenantID, campaignID string, now int64) error {
	if _, err := campaignDAO.GetForUpdateWithTx(ctx, tx, campaignID, tenantID); err != nil {
		return err
	}
	workflows, err := workflowDAO.ListWithTx(ctx, tx, tenantID, models.WorkflowFilter{CampaignID: &campaignID})
	if err != nil {
		return err
	}
	return campaignDAO.UpdateCountsWithTx(ctx, tx, tenantID, campaignID, campaign.RollUp(workflows), now)
}
