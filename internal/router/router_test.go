package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/empathy-ledger/campaign-workflow-api/internal/metrics"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/service/mocks"
)

type healthFunc func(ctx context.Context) error

func (f healthFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	healthy := SetupRouter(Options{Health: healthFunc(func(context.Context) error { return nil })})
	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	down := SetupRouter(Options{Health: healthFunc(func(context.Context) error { return errors.New("ping failed") })})
	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := SetupRouter(Options{Registry: metrics.NewRegistry()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `campaign_workflow_http_request_duration_seconds_count{method="GET",route="/health",status="200"}`)
}

func TestAPIRequiresTenant(t *testing.T) {
	workflows := &mocks.MockWorkflowManager{}
	r := SetupRouter(Options{Workflows: workflows, Campaigns: &mocks.MockCampaignManager{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/workflows/summary", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	workflows.On("GetWorkflowSummary", mock.Anything, "tenant-1", (*string)(nil)).Return(&models.WorkflowSummary{Total: 1}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows/summary", nil)
	req.Header.Set("X-Tenant-ID", "tenant-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	workflows.AssertExpectations(t)
}

func TestRouteTable(t *testing.T) {
	r := SetupRouter(Options{Workflows: &mocks.MockWorkflowManager{}, Campaigns: &mocks.MockCampaignManager{}})

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"POST /api/v1/campaigns",
		"GET /api/v1/campaigns/active",
		"GET /api/v1/campaigns/slug/:slug",
		"DELETE /api/v1/campaigns/:campaignId",
		"PUT /api/v1/campaigns/:campaignId/engagement-metrics",
		"POST /api/v1/workflows/bulk-advance",
		"GET /api/v1/workflows/storytellers/:storytellerId",
		"POST /api/v1/workflows/:workflowId/elder-review",
		"DELETE /api/v1/workflows/:workflowId/follow-up",
		"PUT /api/v1/workflows/:workflowId/metadata",
	} {
		assert.True(t, registered[want], want)
	}
}
