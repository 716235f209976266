package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// MockWorkflowManager is a mock implementation of service.WorkflowManager
type MockWorkflowManager struct {
	mock.Mock
}

func (m *MockWorkflowManager) workflow(args mock.Arguments) (*models.CampaignWorkflow, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CampaignWorkflow), args.Error(1)
}

func (m *MockWorkflowManager) TrackInvitation(ctx context.Context, actor models.Actor, req *models.TrackInvitationRequest) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, req))
}

func (m *MockWorkflowManager) RecordConsent(ctx context.Context, actor models.Actor, workflowID string, req *models.RecordConsentRequest) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, req))
}

func (m *MockWorkflowManager) AdvanceStage(ctx context.Context, actor models.Actor, workflowID string, req *models.AdvanceStageRequest) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, req))
}

func (m *MockWorkflowManager) BulkAdvance(ctx context.Context, actor models.Actor, req *models.BulkAdvanceRequest) ([]models.BulkAdvanceResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BulkAdvanceResult), args.Error(1)
}

func (m *MockWorkflowManager) LinkStory(ctx context.Context, actor models.Actor, workflowID string, req *models.LinkStoryRequest) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, req))
}

func (m *MockWorkflowManager) RecordElderReview(ctx context.Context, actor models.Actor, workflowID string, req *models.ElderReviewRequest) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, req))
}

func (m *MockWorkflowManager) WithdrawConsent(ctx context.Context, actor models.Actor, workflowID, reason string) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, reason))
}

func (m *MockWorkflowManager) SetFollowUp(ctx context.Context, actor models.Actor, workflowID string, req *models.FollowUpRequest) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, req))
}

func (m *MockWorkflowManager) ClearFollowUp(ctx context.Context, actor models.Actor, workflowID string) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID))
}

func (m *MockWorkflowManager) UpdateMetadata(ctx context.Context, actor models.Actor, workflowID string, metadata map[string]interface{}) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, metadata))
}

func (m *MockWorkflowManager) GetWorkflow(ctx context.Context, tenantID, workflowID string) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, tenantID, workflowID))
}

func (m *MockWorkflowManager) ListByCampaign(ctx context.Context, tenantID, campaignID string, stage *models.Stage, elderReviewRequired *bool) ([]models.CampaignWorkflow, error) {
	args := m.Called(ctx, tenantID, campaignID, stage, elderReviewRequired)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CampaignWorkflow), args.Error(1)
}

func (m *MockWorkflowManager) GetByStoryteller(ctx context.Context, tenantID, storytellerID string, campaignID *string) (*models.CampaignWorkflow, error) {
	return m.workflow(m.Called(ctx, tenantID, storytellerID, campaignID))
}

func (m *MockWorkflowManager) GetHistory(ctx context.Context, tenantID, workflowID string) ([]models.StageTransition, error) {
	args := m.Called(ctx, tenantID, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StageTransition), args.Error(1)
}

func (m *MockWorkflowManager) GetWorkflowSummary(ctx context.Context, tenantID string, campaignID *string) (*models.WorkflowSummary, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowSummary), args.Error(1)
}

func (m *MockWorkflowManager) GetPendingQueue(ctx context.Context, tenantID string, campaignID *string, limit int) ([]models.PendingConsentItem, error) {
	args := m.Called(ctx, tenantID, campaignID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PendingConsentItem), args.Error(1)
}

func (m *MockWorkflowManager) GetConversionFunnel(ctx context.Context, tenantID string, campaignID *string) (*models.ConversionFunnel, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConversionFunnel), args.Error(1)
}
