package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/empathy-ledger/campaign-workflow-api/internal/config"
	"github.com/empathy-ledger/campaign-workflow-api/internal/handlers"
	"github.com/empathy-ledger/campaign-workflow-api/internal/metrics"
	"github.com/empathy-ledger/campaign-workflow-api/internal/middleware"
	"github.com/empathy-ledger/campaign-workflow-api/internal/service"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Options carries the dependencies of the HTTP surface
type Options struct {
	CORS      config.CORSConfig
	Logger    *logrus.Logger
	Registry  *prometheus.Registry
	Health    HealthChecker
	Workflows service.WorkflowManager
	Campaigns service.CampaignManager
}

// SetupRouter configures all API routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	if opts.Logger != nil {
		router.Use(middleware.RequestLogger(opts.Logger))
	}
	router.Use(middleware.Metrics())
	if opts.CORS.Enabled {
		router.Use(middleware.CORS(opts.CORS))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Health.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if opts.Registry != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(opts.Registry)))
	}

	workflowHandler := handlers.NewWorkflowHandler(opts.Workflows)
	campaignHandler := handlers.NewCampaignHandler(opts.Campaigns)

	// API v1 routes
	v1 := router.Group("/api/v1", middleware.Identity())
	{
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.ListCampaigns)
			campaigns.GET("/active", campaignHandler.GetActiveCampaigns)
			campaigns.GET("/slug/:slug", campaignHandler.GetCampaignBySlug)
			campaigns.GET("/:campaignId", campaignHandler.GetCampaign)
			campaigns.PUT("/:campaignId", campaignHandler.UpdateCampaign)
			campaigns.DELETE("/:campaignId", campaignHandler.DeleteCampaign)
			campaigns.GET("/:campaignId/details", campaignHandler.GetCampaignDetails)
			campaigns.PUT("/:campaignId/status", campaignHandler.UpdateCampaignStatus)
			campaigns.POST("/:campaignId/archive", campaignHandler.ArchiveCampaign)
			campaigns.PUT("/:campaignId/engagement-metrics", campaignHandler.UpdateEngagementMetrics)
			campaigns.GET("/:campaignId/progress", campaignHandler.GetCampaignProgress)
			campaigns.GET("/:campaignId/statistics", campaignHandler.GetCampaignStatistics)
		}

		workflows := v1.Group("/workflows")
		{
			workflows.POST("", workflowHandler.TrackInvitation)
			workflows.GET("", workflowHandler.ListWorkflows)
			workflows.GET("/summary", workflowHandler.GetSummary)
			workflows.GET("/pending", workflowHandler.GetPendingQueue)
			workflows.GET("/funnel", workflowHandler.GetFunnel)
			workflows.POST("/bulk-advance", workflowHandler.BulkAdvance)
			workflows.GET("/storytellers/:storytellerId", workflowHandler.GetByStoryteller)
			workflows.GET("/:workflowId", workflowHandler.GetWorkflow)
			workflows.GET("/:workflowId/history", workflowHandler.GetHistory)
			workflows.POST("/:workflowId/consent", workflowHandler.RecordConsent)
			workflows.POST("/:workflowId/advance", workflowHandler.AdvanceStage)
			workflows.PUT("/:workflowId/story", workflowHandler.LinkStory)
			workflows.POST("/:workflowId/elder-review", workflowHandler.RecordElderReview)
			workflows.POST("/:workflowId/withdraw", workflowHandler.WithdrawConsent)
			workflows.PUT("/:workflowId/follow-up", workflowHandler.SetFollowUp)
			workflows.DELETE("/:workflowId/follow-up", workflowHandler.ClearFollowUp)
			workflows.PUT("/:workflowId/metadata", workflowHandler.UpdateMetadata)
		}
	}

	return router
}
