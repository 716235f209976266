package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/empathy-ledger/campaign-workflow-api/internal/config"
	"github.com/empathy-ledger/campaign-workflow-api/internal/core/workflow"
	"github.com/empathy-ledger/campaign-workflow-api/internal/dao"
	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/metrics"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

// WorkflowService handles business logic for campaign consent workflows
type WorkflowService struct {
	workflowDAO   *dao.WorkflowDAO
	stageAuditDAO *dao.StageAuditDAO
	campaignDAO   *dao.CampaignDAO
	db            *database.DB
	cfg           config.WorkflowConfig
	scorer        workflow.Scorer
	now           Clock
	logger        *logrus.Logger
}

// NewWorkflowService creates a new workflow service instance
func NewWorkflowService(
	workflowDAO *dao.WorkflowDAO,
	stageAuditDAO *dao.StageAuditDAO,
	campaignDAO *dao.CampaignDAO,
	db *database.DB,
	cfg config.WorkflowConfig,
	logger *logrus.Logger,
) *WorkflowService {
	return &WorkflowService{
		workflowDAO:   workflowDAO,
		stageAuditDAO: stageAuditDAO,
		campaignDAO:   campaignDAO,
		db:            db,
		cfg:           cfg,
		scorer:        ScorerFromConfig(cfg.Priority),
		now:           utils.GetCurrentTimeMillis,
		logger:        logger,
	}
}

// WithClock replaces the time source
func (s *WorkflowService) WithClock(now Clock) *WorkflowService {
	s.now = now
	return s
}

// WithScorer replaces the pending queue scorer
func (s *WorkflowService) WithScorer(scorer workflow.Scorer) *WorkflowService {
	s.scorer = scorer
	return s
}

// mutation computes the next state of a locked workflow
type mutation func(current models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error)

// auditedMutation is a mutation that also names the audit reason of its stage change.
// A nil reason falls back to the note the mutation appended.
type auditedMutation func(current models.CampaignWorkflow, now int64) (models.CampaignWorkflow, *string, error)

// mutate runs fn against the locked row and writes the result with compare-and-set.
// A stage change is audited, and the campaign's counts are rolled up in the same transaction.
func (s *WorkflowService) mutate(ctx context.Context, op string, actor models.Actor, workflowID string, fn mutation) (*models.CampaignWorkflow, error) {
	return s.mutateAudited(ctx, op, actor, workflowID, func(current models.CampaignWorkflow, now int64) (models.CampaignWorkflow, *string, error) {
		next, err := fn(current, now)
		return next, nil, err
	})
}

func (s *WorkflowService) mutateAudited(ctx context.Context, op string, actor models.Actor, workflowID string, fn auditedMutation) (*models.CampaignWorkflow, error) {
	fields := logrus.Fields{"workflow_id": workflowID, "tenant_id": actor.TenantID}
	if err := validateTenant(actor.TenantID); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}
	if err := validateID("workflow ID", workflowID); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}

	var before, after models.CampaignWorkflow
	err := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		current, err := s.workflowDAO.GetForUpdateWithTx(ctx, tx, workflowID, actor.TenantID)
		if err != nil {
			return err
		}
		now := s.now()
		next, auditReason, err := fn(*current, now)
		if err != nil {
			return err
		}

		n, err := s.workflowDAO.UpdateWithTx(ctx, tx, &next, current.Stage, current.StageChangedAt)
		if err != nil {
			return err
		}
		if n == 0 {
			return serviceerror.Conflict("workflow", workflowID)
		}

		if next.Stage != current.Stage {
			from := current.Stage
			reason := auditReason
			switch {
			case next.Stage == models.StageWithdrawn:
				reason = next.WithdrawalReason
			case reason == nil:
				reason = lastNote(current.Notes, next.Notes)
			}
			audit := &models.StageTransition{
				ID:         utils.GenerateID(),
				WorkflowID: next.ID,
				TenantID:   next.TenantID,
				FromStage:  &from,
				ToStage:    next.Stage,
				ActionTime: next.StageChangedAt,
				ActionBy:   actor.UserRef(),
				Reason:     reason,
			}
			if err := s.stageAuditDAO.CreateWithTx(ctx, tx, audit); err != nil {
				return err
			}
		}

		if next.CampaignID != nil {
			if err := rollUpCampaign(ctx, tx, s.campaignDAO, s.workflowDAO, actor.TenantID, *next.CampaignID, now); err != nil {
				return err
			}
		}

		before, after = *current, next
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, op, storeError(op, err), fields)
	}

	if after.Stage != before.Stage {
		metrics.RecordTransition(string(before.Stage), string(after.Stage))
		s.logger.WithFields(fields).WithFields(logrus.Fields{
			"from_stage": before.Stage,
			"stage":      after.Stage,
		}).Info("Workflow stage changed")
	}
	return &after, nil
}

// lastNote returns the note appended between before and after, if any
func lastNote(before, after *string) *string {
	if after == nil {
		return nil
	}
	if before != nil && *before == *after {
		return nil
	}
	added := *after
	if before != nil && *before != "" {
		added = strings.TrimPrefix(added, *before+"\n")
	}
	return &added
}

// TrackInvitation creates a workflow in the invited stage
func (s *WorkflowService) TrackInvitation(ctx context.Context, actor models.Actor, req *models.TrackInvitationRequest) (*models.CampaignWorkflow, error) {
	const op = "track_invitation"
	fields := logrus.Fields{"tenant_id": actor.TenantID}
	if err := s.validateTrackInvitation(actor, req); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}

	storytellerID := utils.SanitizeString(req.StorytellerID)
	method := strings.TrimSpace(req.InvitationMethod)
	metadata := models.JSONMap{}
	if req.Metadata != nil {
		metadata = models.JSONMap(req.Metadata)
	}

	var created models.CampaignWorkflow
	err := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		elderReview := false
		if req.CampaignID != nil {
			c, err := s.campaignDAO.GetForUpdateWithTx(ctx, tx, *req.CampaignID, actor.TenantID)
			if err != nil {
				return err
			}
			elderReview = c.RequiresElderReview
		}
		if req.ElderReviewRequired != nil {
			elderReview = *req.ElderReviewRequired
		}

		now := s.now()
		w := models.CampaignWorkflow{
			ID:                  utils.GenerateID(),
			TenantID:            actor.TenantID,
			CampaignID:          req.CampaignID,
			StorytellerID:       storytellerID,
			Stage:               models.StageInvited,
			StageChangedAt:      now,
			InvitationSentAt:    &now,
			InvitationMethod:    &method,
			ElderReviewRequired: elderReview,
			Notes:               workflow.AppendNote(nil, req.Notes),
			Metadata:            metadata,
			CreatedBy:           actor.UserRef(),
			CreatedTime:         now,
			UpdatedTime:         now,
		}
		if err := s.workflowDAO.CreateWithTx(ctx, tx, &w); err != nil {
			return err
		}

		audit := &models.StageTransition{
			ID:         utils.GenerateID(),
			WorkflowID: w.ID,
			TenantID:   w.TenantID,
			ToStage:    models.StageInvited,
			ActionTime: now,
			ActionBy:   actor.UserRef(),
		}
		if err := s.stageAuditDAO.CreateWithTx(ctx, tx, audit); err != nil {
			return err
		}

		if w.CampaignID != nil {
			if err := rollUpCampaign(ctx, tx, s.campaignDAO, s.workflowDAO, actor.TenantID, *w.CampaignID, now); err != nil {
				return err
			}
		}
		created = w
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, op, storeError(op, err), fields)
	}

	s.logger.WithFields(logrus.Fields{
		"workflow_id":    created.ID,
		"tenant_id":      created.TenantID,
		"storyteller_id": created.StorytellerID,
	}).Info("Invitation tracked")
	return &created, nil
}

func (s *WorkflowService) validateTrackInvitation(actor models.Actor, req *models.TrackInvitationRequest) error {
	if err := validateTenant(actor.TenantID); err != nil {
		return err
	}
	if req == nil {
		return serviceerror.Validation("request body is required")
	}
	if err := validateID("storyteller ID", utils.SanitizeString(req.StorytellerID)); err != nil {
		return err
	}
	if req.CampaignID != nil {
		if err := validateID("campaign ID", *req.CampaignID); err != nil {
			return err
		}
	}
	if !contains(models.InvitationMethods, strings.TrimSpace(req.InvitationMethod)) {
		return serviceerror.Validation("invalid invitation method %q, expected one of %s",
			req.InvitationMethod, strings.Join(models.InvitationMethods, ", "))
	}
	return nil
}

// RecordConsent moves a workflow to consented
func (s *WorkflowService) RecordConsent(ctx context.Context, actor models.Actor, workflowID string, req *models.RecordConsentRequest) (*models.CampaignWorkflow, error) {
	const op = "record_consent"
	if req == nil {
		req = &models.RecordConsentRequest{}
	}
	if req.ConsentFormURL != nil {
		if err := utils.ValidateURL("consent form URL", *req.ConsentFormURL); err != nil {
			return nil, fail(s.logger, op, serviceerror.Validation("%s", err.Error()), logrus.Fields{"workflow_id": workflowID})
		}
	}
	return s.mutate(ctx, op, actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error) {
		return workflow.Apply(w, workflow.TransitionInput{
			To:             models.StageConsented,
			Actor:          actor,
			Now:            now,
			Notes:          req.Notes,
			ConsentFormURL: req.ConsentFormURL,
		})
	})
}

// AdvanceStage moves a workflow to the requested stage
func (s *WorkflowService) AdvanceStage(ctx context.Context, actor models.Actor, workflowID string, req *models.AdvanceStageRequest) (*models.CampaignWorkflow, error) {
	const op = "advance_stage"
	if req == nil {
		return nil, fail(s.logger, op, serviceerror.Validation("request body is required"), logrus.Fields{"workflow_id": workflowID})
	}
	to, err := workflow.ParseStage(req.Stage)
	if err != nil {
		return nil, fail(s.logger, op, serviceerror.Validation("%s", err.Error()), logrus.Fields{"workflow_id": workflowID})
	}
	return s.mutate(ctx, op, actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error) {
		return workflow.Apply(w, workflow.TransitionInput{
			To:     to,
			Actor:  actor,
			Now:    now,
			Notes:  req.Notes,
			Reason: req.Reason,
		})
	})
}

// BulkAdvance advances each workflow independently. Every item runs in its own
// transaction, so one failure never undoes another.
func (s *WorkflowService) BulkAdvance(ctx context.Context, actor models.Actor, req *models.BulkAdvanceRequest) ([]models.BulkAdvanceResult, error) {
	const op = "bulk_advance"
	fields := logrus.Fields{"tenant_id": actor.TenantID}
	if err := validateTenant(actor.TenantID); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}
	if req == nil || len(req.WorkflowIDs) == 0 {
		return nil, fail(s.logger, op, serviceerror.Validation("at least one workflow ID is required"), fields)
	}
	if maxItems := s.cfg.Bulk.MaxItems; maxItems > 0 && len(req.WorkflowIDs) > maxItems {
		return nil, fail(s.logger, op, serviceerror.Validation("bulk advance accepts at most %d workflows, got %d", maxItems, len(req.WorkflowIDs)), fields)
	}
	stage, err := workflow.ParseStage(req.Stage)
	if err != nil {
		return nil, fail(s.logger, op, serviceerror.Validation("%s", err.Error()), fields)
	}
	if stage == models.StageWithdrawn && (req.Reason == nil || utils.SanitizeString(*req.Reason) == "") {
		return nil, fail(s.logger, op, serviceerror.Validation("a withdrawal reason is required"), fields)
	}

	item := &models.AdvanceStageRequest{Stage: req.Stage, Notes: req.Notes, Reason: req.Reason}
	results := make([]models.BulkAdvanceResult, len(req.WorkflowIDs))

	var g errgroup.Group
	if s.cfg.Bulk.Concurrency > 0 {
		g.SetLimit(s.cfg.Bulk.Concurrency)
	}
	for i, id := range req.WorkflowIDs {
		g.Go(func() error {
			result := models.BulkAdvanceResult{WorkflowID: id}
			w, err := s.AdvanceStage(ctx, actor, id, item)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Success = true
				result.Workflow = w
			}
			metrics.RecordBulkItem(result.Success)
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	s.logger.WithFields(fields).WithFields(logrus.Fields{
		"stage":     req.Stage,
		"requested": len(results),
		"succeeded": succeeded,
	}).Info("Bulk advance finished")
	return results, nil
}

// LinkStory attaches a recorded story to a workflow without changing its stage
func (s *WorkflowService) LinkStory(ctx context.Context, actor models.Actor, workflowID string, req *models.LinkStoryRequest) (*models.CampaignWorkflow, error) {
	const op = "link_story"
	fields := logrus.Fields{"workflow_id": workflowID}
	if req == nil {
		return nil, fail(s.logger, op, serviceerror.Validation("request body is required"), fields)
	}
	storyID := utils.SanitizeString(req.StoryID)
	if err := validateID("story ID", storyID); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}
	if req.RecordingMethod != nil && !contains(models.RecordingMethods, *req.RecordingMethod) {
		return nil, fail(s.logger, op, serviceerror.Validation("invalid recording method %q, expected one of %s",
			*req.RecordingMethod, strings.Join(models.RecordingMethods, ", ")), fields)
	}

	return s.mutate(ctx, op, actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error) {
		if w.Stage == models.StageWithdrawn {
			return w, serviceerror.InvalidTransition("workflow %s is withdrawn and cannot take a story", w.ID)
		}
		w.StoryID = &storyID
		w.RecordingLocation = req.RecordingLocation
		w.RecordingMethod = req.RecordingMethod
		w.UpdatedTime = now
		return w, nil
	})
}

// RecordElderReview stamps an Elder review decision. Approval moves a workflow
// that has not yet been reviewed to reviewed in the same transaction.
func (s *WorkflowService) RecordElderReview(ctx context.Context, actor models.Actor, workflowID string, req *models.ElderReviewRequest) (*models.CampaignWorkflow, error) {
	const op = "record_elder_review"
	if req == nil || req.Approved == nil {
		return nil, fail(s.logger, op, serviceerror.Validation("approved is required"), logrus.Fields{"workflow_id": workflowID})
	}
	w, err := s.mutateAudited(ctx, op, actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, *string, error) {
		next, advanced, err := workflow.ApplyElderReview(w, workflow.ElderReviewInput{
			Approved: *req.Approved,
			Actor:    actor,
			Now:      now,
			Notes:    req.Notes,
		})
		if !advanced {
			return next, nil, err
		}
		reason := workflow.ElderApprovedNote
		return next, &reason, err
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"workflow_id": w.ID,
		"approved":    *req.Approved,
	}).Info("Elder review recorded")
	return w, nil
}

// WithdrawConsent moves a workflow to withdrawn from any other stage
func (s *WorkflowService) WithdrawConsent(ctx context.Context, actor models.Actor, workflowID, reason string) (*models.CampaignWorkflow, error) {
	const op = "withdraw_consent"
	reason = utils.SanitizeString(reason)
	if reason == "" {
		return nil, fail(s.logger, op, serviceerror.Validation("a withdrawal reason is required"), logrus.Fields{"workflow_id": workflowID})
	}
	return s.mutate(ctx, op, actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error) {
		return workflow.ApplyWithdrawal(w, reason, actor, now)
	})
}

// SetFollowUp flags a workflow for follow up on date
func (s *WorkflowService) SetFollowUp(ctx context.Context, actor models.Actor, workflowID string, req *models.FollowUpRequest) (*models.CampaignWorkflow, error) {
	const op = "set_follow_up"
	if req == nil || req.Date <= 0 {
		return nil, fail(s.logger, op, serviceerror.Validation("a follow up date is required"), logrus.Fields{"workflow_id": workflowID})
	}
	return s.mutate(ctx, op, actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error) {
		date := req.Date
		w.FollowUpRequired = true
		w.FollowUpDate = &date
		w.FollowUpNotes = req.Notes
		w.UpdatedTime = now
		return w, nil
	})
}

// ClearFollowUp removes a workflow's follow up flag
func (s *WorkflowService) ClearFollowUp(ctx context.Context, actor models.Actor, workflowID string) (*models.CampaignWorkflow, error) {
	return s.mutate(ctx, "clear_follow_up", actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error) {
		w.FollowUpRequired = false
		w.FollowUpDate = nil
		w.FollowUpNotes = nil
		w.UpdatedTime = now
		return w, nil
	})
}

// UpdateMetadata replaces a workflow's metadata
func (s *WorkflowService) UpdateMetadata(ctx context.Context, actor models.Actor, workflowID string, metadata map[string]interface{}) (*models.CampaignWorkflow, error) {
	return s.mutate(ctx, "update_metadata", actor, workflowID, func(w models.CampaignWorkflow, now int64) (models.CampaignWorkflow, error) {
		w.Metadata = models.JSONMap{}.Merge(metadata)
		w.UpdatedTime = now
		return w, nil
	})
}

// GetWorkflow retrieves a workflow by ID
func (s *WorkflowService) GetWorkflow(ctx context.Context, tenantID, workflowID string) (*models.CampaignWorkflow, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if err := validateID("workflow ID", workflowID); err != nil {
		return nil, err
	}
	w, err := s.workflowDAO.GetByID(ctx, workflowID, tenantID)
	if err != nil {
		return nil, storeError("get workflow", err)
	}
	return w, nil
}

// ListByCampaign lists a campaign's workflows, newest first
func (s *WorkflowService) ListByCampaign(ctx context.Context, tenantID, campaignID string, stage *models.Stage, elderReviewRequired *bool) ([]models.CampaignWorkflow, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if err := validateID("campaign ID", campaignID); err != nil {
		return nil, err
	}
	if stage != nil && !workflow.IsValid(*stage) {
		return nil, serviceerror.Validation("unknown stage %q", *stage)
	}
	workflows, err := s.workflowDAO.List(ctx, tenantID, models.WorkflowFilter{
		CampaignID:          &campaignID,
		Stage:               stage,
		ElderReviewRequired: elderReviewRequired,
	})
	if err != nil {
		return nil, storeError("list workflows", err)
	}
	return workflows, nil
}

// GetByStoryteller retrieves a storyteller's most recent workflow
func (s *WorkflowService) GetByStoryteller(ctx context.Context, tenantID, storytellerID string, campaignID *string) (*models.CampaignWorkflow, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if err := validateID("storyteller ID", storytellerID); err != nil {
		return nil, err
	}
	w, err := s.workflowDAO.GetLatestByStoryteller(ctx, tenantID, storytellerID, campaignID)
	if err != nil {
		return nil, storeError("get workflow by storyteller", err)
	}
	return w, nil
}

// GetHistory returns a workflow's stage transitions, oldest first
func (s *WorkflowService) GetHistory(ctx context.Context, tenantID, workflowID string) ([]models.StageTransition, error) {
	if _, err := s.GetWorkflow(ctx, tenantID, workflowID); err != nil {
		return nil, err
	}
	history, err := s.stageAuditDAO.GetByWorkflowID(ctx, workflowID, tenantID)
	if err != nil {
		return nil, storeError("get workflow history", err)
	}
	return history, nil
}

func (s *WorkflowService) scope(ctx context.Context, tenantID string, campaignID *string) ([]models.CampaignWorkflow, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	workflows, err := s.workflowDAO.List(ctx, tenantID, models.WorkflowFilter{CampaignID: campaignID})
	if err != nil {
		return nil, storeError("list workflows", err)
	}
	return workflows, nil
}

// GetWorkflowSummary counts workflows per stage, optionally within one campaign
func (s *WorkflowService) GetWorkflowSummary(ctx context.Context, tenantID string, campaignID *string) (*models.WorkflowSummary, error) {
	workflows, err := s.scope(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	summary := workflow.Summarize(workflows)
	return &summary, nil
}

// GetPendingQueue returns the workflows needing attention, highest priority first
func (s *WorkflowService) GetPendingQueue(ctx context.Context, tenantID string, campaignID *string, limit int) ([]models.PendingConsentItem, error) {
	workflows, err := s.scope(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	limit = utils.ValidateLimit(limit, s.cfg.PendingQueue.DefaultLimit, s.cfg.PendingQueue.MaxLimit)
	return workflow.PendingQueue(workflows, s.now(), limit, s.scorer), nil
}

// GetConversionFunnel reports how far workflows got through the pipeline
func (s *WorkflowService) GetConversionFunnel(ctx context.Context, tenantID string, campaignID *string) (*models.ConversionFunnel, error) {
	workflows, err := s.scope(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	funnel := workflow.Funnel(workflows)
	return &funnel, nil
}

func contains(values []string, v string) bool {
	for _, known := range values {
		if known == v {
			return true
		}
	}
	return false
}
