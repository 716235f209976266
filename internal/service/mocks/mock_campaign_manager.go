package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// MockCampaignManager is a mock implementation of service.CampaignManager
type MockCampaignManager struct {
	mock.Mock
}

func (m *MockCampaignManager) campaign(args mock.Arguments) (*models.Campaign, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

func (m *MockCampaignManager) Create(ctx context.Context, actor models.Actor, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	return m.campaign(m.Called(ctx, actor, req))
}

func (m *MockCampaignManager) Update(ctx context.Context, actor models.Actor, campaignID string, req *models.UpdateCampaignRequest) (*models.Campaign, error) {
	return m.campaign(m.Called(ctx, actor, campaignID, req))
}

func (m *MockCampaignManager) UpdateStatus(ctx context.Context, actor models.Actor, campaignID, status string) (*models.Campaign, error) {
	return m.campaign(m.Called(ctx, actor, campaignID, status))
}

func (m *MockCampaignManager) Archive(ctx context.Context, actor models.Actor, campaignID string) (*models.Campaign, error) {
	return m.campaign(m.Called(ctx, actor, campaignID))
}

func (m *MockCampaignManager) Delete(ctx context.Context, actor models.Actor, campaignID string) error {
	args := m.Called(ctx, actor, campaignID)
	return args.Error(0)
}

func (m *MockCampaignManager) UpdateEngagementMetrics(ctx context.Context, actor models.Actor, campaignID string, metrics map[string]interface{}) (*models.Campaign, error) {
	return m.campaign(m.Called(ctx, actor, campaignID, metrics))
}

func (m *MockCampaignManager) GetByID(ctx context.Context, tenantID, campaignID string) (*models.Campaign, error) {
	return m.campaign(m.Called(ctx, tenantID, campaignID))
}

func (m *MockCampaignManager) GetBySlug(ctx context.Context, tenantID, slug string) (*models.Campaign, error) {
	return m.campaign(m.Called(ctx, tenantID, slug))
}

func (m *MockCampaignManager) List(ctx context.Context, tenantID string, filter models.CampaignFilter) (*models.ListResponse[models.Campaign], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListResponse[models.Campaign]), args.Error(1)
}

func (m *MockCampaignManager) GetActive(ctx context.Context, tenantID string, limit int) ([]models.Campaign, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Campaign), args.Error(1)
}

func (m *MockCampaignManager) GetDetails(ctx context.Context, tenantID, campaignID string) (*models.CampaignDetails, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CampaignDetails), args.Error(1)
}

func (m *MockCampaignManager) GetProgress(ctx context.Context, tenantID, campaignID string) (*models.CampaignProgress, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CampaignProgress), args.Error(1)
}

func (m *MockCampaignManager) GetStatistics(ctx context.Context, tenantID, campaignID string) (*models.CampaignStatistics, error) {
	args := m.Called(ctx, tenantID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CampaignStatistics), args.Error(1)
}
