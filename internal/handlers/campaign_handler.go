package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/service"
	"github.com/empathy-ledger/campaign-workflow-api/internal/utils"
)

// CampaignHandler handles campaign HTTP requests
type CampaignHandler struct {
	campaignService service.CampaignManager
}

// NewCampaignHandler creates a new campaign handler instance
func NewCampaignHandler(campaignService service.CampaignManager) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// CreateCampaign handles POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), utils.GetActor(c), &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreatedResponse(c, campaign)
}

// ListCampaigns handles GET /campaigns?status=&type=&featured=&public=&limit=&offset=
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	page, err := utils.ParsePagination(c)
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	filter := models.CampaignFilter{Limit: page.Limit, Offset: page.Offset}
	for _, status := range utils.QueryList(c, "status") {
		filter.Statuses = append(filter.Statuses, models.CampaignStatus(status))
	}
	if raw := utils.QueryString(c, "type"); raw != nil {
		t := models.CampaignType(*raw)
		filter.Type = &t
	}
	if filter.Featured, err = utils.QueryBool(c, "featured"); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	if filter.Public, err = utils.QueryBool(c, "public"); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	resp, err := h.campaignService.List(c.Request.Context(), utils.GetTenantID(c), filter)
	respond(c, resp, err)
}

// GetActiveCampaigns handles GET /campaigns/active?limit=
func (h *CampaignHandler) GetActiveCampaigns(c *gin.Context) {
	limit, err := utils.QueryInt(c, "limit")
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	campaigns, err := h.campaignService.GetActive(c.Request.Context(), utils.GetTenantID(c), limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendOKResponse(c, models.ListResponse[models.Campaign]{Data: campaigns})
}

// GetCampaignBySlug handles GET /campaigns/slug/:slug
func (h *CampaignHandler) GetCampaignBySlug(c *gin.Context) {
	campaign, err := h.campaignService.GetBySlug(c.Request.Context(), utils.GetTenantID(c), c.Param("slug"))
	respond(c, campaign, err)
}

// GetCampaign handles GET /campaigns/:campaignId
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.campaignService.GetByID(c.Request.Context(), utils.GetTenantID(c), c.Param("campaignId"))
	respond(c, campaign, err)
}

// GetCampaignDetails handles GET /campaigns/:campaignId/details
func (h *CampaignHandler) GetCampaignDetails(c *gin.Context) {
	details, err := h.campaignService.GetDetails(c.Request.Context(), utils.GetTenantID(c), c.Param("campaignId"))
	respond(c, details, err)
}

// UpdateCampaign handles PUT /campaigns/:campaignId
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	var req models.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	campaign, err := h.campaignService.Update(c.Request.Context(), utils.GetActor(c), c.Param("campaignId"), &req)
	respond(c, campaign, err)
}

// UpdateCampaignStatus handles PUT /campaigns/:campaignId/status
func (h *CampaignHandler) UpdateCampaignStatus(c *gin.Context) {
	var req models.UpdateCampaignStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	campaign, err := h.campaignService.UpdateStatus(c.Request.Context(), utils.GetActor(c), c.Param("campaignId"), req.Status)
	respond(c, campaign, err)
}

// ArchiveCampaign handles POST /campaigns/:campaignId/archive
func (h *CampaignHandler) ArchiveCampaign(c *gin.Context) {
	campaign, err := h.campaignService.Archive(c.Request.Context(), utils.GetActor(c), c.Param("campaignId"))
	respond(c, campaign, err)
}

// DeleteCampaign handles DELETE /campaigns/:campaignId
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	if err := h.campaignService.Delete(c.Request.Context(), utils.GetActor(c), c.Param("campaignId")); err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendNoContentResponse(c)
}

// UpdateEngagementMetrics handles PUT /campaigns/:campaignId/engagement-metrics
func (h *CampaignHandler) UpdateEngagementMetrics(c *gin.Context) {
	var req models.EngagementMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	campaign, err := h.campaignService.UpdateEngagementMetrics(c.Request.Context(), utils.GetActor(c), c.Param("campaignId"), req.Metrics)
	respond(c, campaign, err)
}

// GetCampaignProgress handles GET /campaigns/:campaignId/progress
func (h *CampaignHandler) GetCampaignProgress(c *gin.Context) {
	progress, err := h.campaignService.GetProgress(c.Request.Context(), utils.GetTenantID(c), c.Param("campaignId"))
	respond(c, progress, err)
}

// GetCampaignStatistics handles GET /campaigns/:campaignId/statistics
func (h *CampaignHandler) GetCampaignStatistics(c *gin.Context) {
	stats, err := h.campaignService.GetStatistics(c.Request.Context(), utils.GetTenantID(c), c.Param("campaignId"))
	respond(c, stats, err)
}
