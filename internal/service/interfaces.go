package service

import (
	"context"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// WorkflowManager is the consent workflow surface used by handlers and the CLI
type WorkflowManager interface {
	TrackInvitation(ctx context.Context, actor models.Actor, req *models.TrackInvitationRequest) (*models.CampaignWorkflow, error)
	RecordConsent(ctx context.Context, actor models.Actor, workflowID string, req *models.RecordConsentRequest) (*models.CampaignWorkflow, error)
	AdvanceStage(ctx context.Context, actor models.Actor, workflowID string, req *models.AdvanceStageRequest) (*models.CampaignWorkflow, error)
	BulkAdvance(ctx context.Context, actor models.Actor, req *models.BulkAdvanceRequest) ([]models.BulkAdvanceResult, error)
	LinkStory(ctx context.Context, actor models.Actor, workflowID string, req *models.LinkStoryRequest) (*models.CampaignWorkflow, error)
	RecordElderReview(ctx context.Context, actor models.Actor, workflowID string, req *models.ElderReviewRequest) (*models.CampaignWorkflow, error)
	WithdrawConsent(ctx context.Context, actor models.Actor, workflowID, reason string) (*models.CampaignWorkflow, error)
	SetFollowUp(ctx context.Context, actor models.Actor, workflowID string, req *models.FollowUpRequest) (*models.CampaignWorkflow, error)
	ClearFollowUp(ctx context.Context, actor models.Actor, workflowID string) (*models.CampaignWorkflow, error)
	UpdateMetadata(ctx context.Context, actor models.Actor, workflowID string, metadata map[string]interface{}) (*models.CampaignWorkflow, error)

	GetWorkflow(ctx context.Context, tenantID, workflowID string) (*models.CampaignWorkflow, error)
	ListByCampaign(ctx context.Context, tenantID, campaignID string, stage *models.Stage, elderReviewRequired *bool) ([]models.CampaignWorkflow, error)
	GetByStoryteller(ctx context.Context, tenantID, storytellerID string, campaignID *string) (*models.CampaignWorkflow, error)
	GetHistory(ctx context.Context, tenantID, workflowID string) ([]models.StageTransition, error)
	GetWorkflowSummary(ctx context.Context, tenantID string, campaignID *string) (*models.WorkflowSummary, error)
	GetPendingQueue(ctx context.Context, tenantID string, campaignID *string, limit int) ([]models.PendingConsentItem, error)
	GetConversionFunnel(ctx context.Context, tenantID string, campaignID *string) (*models.ConversionFunnel, error)
}

// CampaignManager is the campaign surface used by handlers
type CampaignManager interface {
	Create(ctx context.Context, actor models.Actor, req *models.CreateCampaignRequest) (*models.Campaign, error)
	Update(ctx context.Context, actor models.Actor, campaignID string, req *models.UpdateCampaignRequest) (*models.Campaign, error)
	UpdateStatus(ctx context.Context, actor models.Actor, campaignID, status string) (*models.Campaign, error)
	Archive(ctx context.Context, actor models.Actor, campaignID string) (*models.Campaign, error)
	Delete(ctx context.Context, actor models.Actor, campaignID string) error
	UpdateEngagementMetrics(ctx context.Context, actor models.Actor, campaignID string, metrics map[string]interface{}) (*models.Campaign, error)

	GetByID(ctx context.Context, tenantID, campaignID string) (*models.Campaign, error)
	GetBySlug(ctx context.Context, tenantID, slug string) (*models.Campaign, error)
	List(ctx context.Context, tenantID string, filter models.CampaignFilter) (*models.ListResponse[models.Campaign], error)
	GetActive(ctx context.Context, tenantID string, limit int) ([]models.Campaign, error)
	GetDetails(ctx context.Context, tenantID, campaignID string) (*models.CampaignDetails, error)
	GetProgress(ctx context.Context, tenantID, campaignID string) (*models.CampaignProgress, error)
	GetStatistics(ctx context.Context, tenantID, campaignID string) (*models.CampaignStatistics, error)
}

var (
	_ WorkflowManager = (*WorkflowService)(nil)
	_ CampaignManager = (*CampaignService)(nil)
)
