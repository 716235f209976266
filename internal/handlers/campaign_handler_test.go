package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
	"github.com/empathy-ledger/campaign-workflow-api/internal/service/mocks"
)

func TestCreateCampaign(t *testing.T) {
	svc := &mocks.MockCampaignManager{}
	r := newTestEngine()
	r.POST("/campaigns", NewCampaignHandler(svc).CreateCampaign)

	svc.On("Create", mock.Anything, testActor, mock.MatchedBy(func(req *models.CreateCampaignRequest) bool {
		return req.Name == "Harbour Voices" && req.StoryTarget != nil && *req.StoryTarget == 12
	})).Return(&models.Campaign{ID: "c-1", Name: "Harbour Voices", Slug: "harbour-voices"}, nil)

	w := doRequest(r, http.MethodPost, "/campaigns", map[string]interface{}{"name": "Harbour Voices", "storyTarget": 12})

	assert.Equal(t, http.StatusCreated, w.Code)
	var got models.Campaign
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "harbour-voices", got.Slug)
	svc.AssertExpectations(t)

	missingName := doRequest(r, http.MethodPost, "/campaigns", map[string]interface{}{"tagline": "x"})
	assert.Equal(t, http.StatusBadRequest, missingName.Code)
}

func TestListCampaigns_ParsesFilter(t *testing.T) {
	svc := &mocks.MockCampaignManager{}
	r := newTestEngine()
	r.GET("/campaigns", NewCampaignHandler(svc).ListCampaigns)

	featured := true
	exhibition := models.CampaignTypeExhibition
	expected := models.CampaignFilter{
		Statuses: []models.CampaignStatus{models.CampaignStatusActive, models.CampaignStatusPaused},
		Type:     &exhibition,
		Featured: &featured,
		Limit:    5,
		Offset:   10,
	}
	svc.On("List", mock.Anything, "tenant-1", expected).Return(&models.ListResponse[models.Campaign]{
		Data:     []models.Campaign{{ID: "c-1"}},
		Metadata: &models.PaginationMetadata{Total: 11, Limit: 5, Offset: 10},
	}, nil)

	w := doRequest(r, http.MethodGet, "/campaigns?status=active,paused&type=exhibition&featured=true&limit=5&offset=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":11`)
	svc.AssertExpectations(t)

	bad := doRequest(r, http.MethodGet, "/campaigns?offset=abc", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestCampaignRoutesResolveStaticSegments(t *testing.T) {
	svc := &mocks.MockCampaignManager{}
	r := newTestEngine()
	h := NewCampaignHandler(svc)
	r.GET("/campaigns/active", h.GetActiveCampaigns)
	r.GET("/campaigns/slug/:slug", h.GetCampaignBySlug)
	r.GET("/campaigns/:campaignId", h.GetCampaign)

	svc.On("GetActive", mock.Anything, "tenant-1", 0).Return([]models.Campaign{{ID: "c-1"}}, nil)
	svc.On("GetBySlug", mock.Anything, "tenant-1", "harbour-voices").Return(&models.Campaign{ID: "c-2"}, nil)
	svc.On("GetByID", mock.Anything, "tenant-1", "c-3").Return(&models.Campaign{ID: "c-3"}, nil)

	assert.Contains(t, doRequest(r, http.MethodGet, "/campaigns/active", nil).Body.String(), `"c-1"`)
	assert.Contains(t, doRequest(r, http.MethodGet, "/campaigns/slug/harbour-voices", nil).Body.String(), `"c-2"`)
	assert.Contains(t, doRequest(r, http.MethodGet, "/campaigns/c-3", nil).Body.String(), `"c-3"`)
	svc.AssertExpectations(t)
}

func TestDeleteCampaign(t *testing.T) {
	svc := &mocks.MockCampaignManager{}
	r := newTestEngine()
	r.DELETE("/campaigns/:campaignId", NewCampaignHandler(svc).DeleteCampaign)

	svc.On("Delete", mock.Anything, testActor, "c-1").Return(nil)
	svc.On("Delete", mock.Anything, testActor, "c-2").Return(serviceerror.Forbidden("deleting a campaign requires the admin role"))

	ok := doRequest(r, http.MethodDelete, "/campaigns/c-1", nil)
	assert.Equal(t, http.StatusNoContent, ok.Code)

	forbidden := doRequest(r, http.MethodDelete, "/campaigns/c-2", nil)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
	assert.Equal(t, "CWE-4003", decodeError(t, forbidden).Code)
}

func TestUpdateCampaignStatusAndArchive(t *testing.T) {
	svc := &mocks.MockCampaignManager{}
	r := newTestEngine()
	h := NewCampaignHandler(svc)
	r.PUT("/campaigns/:campaignId/status", h.UpdateCampaignStatus)
	r.POST("/campaigns/:campaignId/archive", h.ArchiveCampaign)

	svc.On("UpdateStatus", mock.Anything, testActor, "c-1", "active").
		Return(&models.Campaign{ID: "c-1", Status: models.CampaignStatusActive}, nil)
	svc.On("Archive", mock.Anything, testActor, "c-1").
		Return(&models.Campaign{ID: "c-1", Status: models.CampaignStatusArchived}, nil)

	status := doRequest(r, http.MethodPut, "/campaigns/c-1/status", map[string]string{"status": "active"})
	assert.Equal(t, http.StatusOK, status.Code)
	assert.Contains(t, status.Body.String(), `"status":"active"`)

	archived := doRequest(r, http.MethodPost, "/campaigns/c-1/archive", nil)
	assert.Equal(t, http.StatusOK, archived.Code)
	assert.Contains(t, archived.Body.String(), `"status":"archived"`)

	svc.AssertExpectations(t)
}

func TestCampaignReports(t *testing.T) {
	svc := &mocks.MockCampaignManager{}
	r := newTestEngine()
	h := NewCampaignHandler(svc)
	r.GET("/campaigns/:campaignId/progress", h.GetCampaignProgress)
	r.GET("/campaigns/:campaignId/statistics", h.GetCampaignStatistics)
	r.GET("/campaigns/:campaignId/details", h.GetCampaignDetails)
	r.PUT("/campaigns/:campaignId/engagement-metrics", h.UpdateEngagementMetrics)

	storyProgress := 50
	svc.On("GetProgress", mock.Anything, "tenant-1", "c-1").
		Return(&models.CampaignProgress{CampaignID: "c-1", StoryProgress: &storyProgress, CompletionPercentage: 50}, nil)
	svc.On("GetStatistics", mock.Anything, "tenant-1", "c-1").
		Return(&models.CampaignStatistics{CampaignID: "c-1", TotalWorkflows: 2}, nil)
	svc.On("GetDetails", mock.Anything, "tenant-1", "missing").
		Return(nil, serviceerror.NotFound("campaign", "missing"))
	svc.On("UpdateEngagementMetrics", mock.Anything, testActor, "c-1", map[string]interface{}{"views": float64(3)}).
		Return(&models.Campaign{ID: "c-1"}, nil)

	progress := doRequest(r, http.MethodGet, "/campaigns/c-1/progress", nil)
	assert.Equal(t, http.StatusOK, progress.Code)
	assert.Contains(t, progress.Body.String(), `"storyProgress":50`)
	assert.Contains(t, progress.Body.String(), `"storytellerProgress":null`)

	stats := doRequest(r, http.MethodGet, "/campaigns/c-1/statistics", nil)
	assert.Contains(t, stats.Body.String(), `"totalWorkflows":2`)

	details := doRequest(r, http.MethodGet, "/campaigns/missing/details", nil)
	assert.Equal(t, http.StatusNotFound, details.Code)

	metricsResp := doRequest(r, http.MethodPut, "/campaigns/c-1/engagement-metrics", map[string]interface{}{"metrics": map[string]int{"views": 3}})
	assert.Equal(t, http.StatusOK, metricsResp.Code)

	svc.AssertExpectations(t)
}
