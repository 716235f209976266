package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/service"
	"github.com/empathy-ledger/campaign-workflow-api/internal/utils"
)

// WorkflowHandler handles consent workflow HTTP requests
type WorkflowHandler struct {
	workflowService service.WorkflowManager
}

// NewWorkflowHandler creates a new workflow handler instance
func NewWorkflowHandler(workflowService service.WorkflowManager) *WorkflowHandler {
	return &WorkflowHandler{workflowService: workflowService}
}

// respond writes a workflow result or the service error
func respond(c *gin.Context, data interface{}, err error) {
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendOKResponse(c, data)
}

// TrackInvitation handles POST /workflows
func (h *WorkflowHandler) TrackInvitation(c *gin.Context) {
	var req models.TrackInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	w, err := h.workflowService.TrackInvitation(c.Request.Context(), utils.GetActor(c), &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendCreatedResponse(c, w)
}

// ListWorkflows handles GET /workflows?campaignId=&stage=&elderReviewRequired=
func (h *WorkflowHandler) ListWorkflows(c *gin.Context) {
	campaignID := utils.QueryString(c, "campaignId")
	if campaignID == nil {
		utils.SendValidationError(c, "campaignId query parameter is required")
		return
	}
	elderReview, err := utils.QueryBool(c, "elderReviewRequired")
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	var stage *models.Stage
	if raw := utils.QueryString(c, "stage"); raw != nil {
		s := models.Stage(*raw)
		stage = &s
	}

	workflows, err := h.workflowService.ListByCampaign(c.Request.Context(), utils.GetTenantID(c), *campaignID, stage, elderReview)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendOKResponse(c, models.ListResponse[models.CampaignWorkflow]{Data: workflows})
}

// GetWorkflow handles GET /workflows/:workflowId
func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	w, err := h.workflowService.GetWorkflow(c.Request.Context(), utils.GetTenantID(c), c.Param("workflowId"))
	respond(c, w, err)
}

// GetHistory handles GET /workflows/:workflowId/history
func (h *WorkflowHandler) GetHistory(c *gin.Context) {
	history, err := h.workflowService.GetHistory(c.Request.Context(), utils.GetTenantID(c), c.Param("workflowId"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendOKResponse(c, models.ListResponse[models.StageTransition]{Data: history})
}

// GetByStoryteller handles GET /workflows/storytellers/:storytellerId
func (h *WorkflowHandler) GetByStoryteller(c *gin.Context) {
	w, err := h.workflowService.GetByStoryteller(c.Request.Context(), utils.GetTenantID(c),
		c.Param("storytellerId"), utils.QueryString(c, "campaignId"))
	respond(c, w, err)
}

// RecordConsent handles POST /workflows/:workflowId/consent
func (h *WorkflowHandler) RecordConsent(c *gin.Context) {
	var req models.RecordConsentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendBadRequestError(c, "Invalid request body", err.Error())
			return
		}
	}
	w, err := h.workflowService.RecordConsent(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"), &req)
	respond(c, w, err)
}

// AdvanceStage handles POST /workflows/:workflowId/advance
func (h *WorkflowHandler) AdvanceStage(c *gin.Context) {
	var req models.AdvanceStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	w, err := h.workflowService.AdvanceStage(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"), &req)
	respond(c, w, err)
}

// BulkAdvance handles POST /workflows/bulk-advance
func (h *WorkflowHandler) BulkAdvance(c *gin.Context) {
	var req models.BulkAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	results, err := h.workflowService.BulkAdvance(c.Request.Context(), utils.GetActor(c), &req)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendOKResponse(c, models.ListResponse[models.BulkAdvanceResult]{Data: results})
}

// LinkStory handles PUT /workflows/:workflowId/story
func (h *WorkflowHandler) LinkStory(c *gin.Context) {
	var req models.LinkStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	w, err := h.workflowService.LinkStory(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"), &req)
	respond(c, w, err)
}

// RecordElderReview handles POST /workflows/:workflowId/elder-review
func (h *WorkflowHandler) RecordElderReview(c *gin.Context) {
	var req models.ElderReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	w, err := h.workflowService.RecordElderReview(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"), &req)
	respond(c, w, err)
}

// WithdrawConsent handles POST /workflows/:workflowId/withdraw
func (h *WorkflowHandler) WithdrawConsent(c *gin.Context) {
	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	w, err := h.workflowService.WithdrawConsent(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"), req.Reason)
	respond(c, w, err)
}

// SetFollowUp handles PUT /workflows/:workflowId/follow-up
func (h *WorkflowHandler) SetFollowUp(c *gin.Context) {
	var req models.FollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	w, err := h.workflowService.SetFollowUp(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"), &req)
	respond(c, w, err)
}

// ClearFollowUp handles DELETE /workflows/:workflowId/follow-up
func (h *WorkflowHandler) ClearFollowUp(c *gin.Context) {
	w, err := h.workflowService.ClearFollowUp(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"))
	respond(c, w, err)
}

// UpdateMetadata handles PUT /workflows/:workflowId/metadata
func (h *WorkflowHandler) UpdateMetadata(c *gin.Context) {
	var req models.MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	w, err := h.workflowService.UpdateMetadata(c.Request.Context(), utils.GetActor(c), c.Param("workflowId"), req.Metadata)
	respond(c, w, err)
}

// GetSummary handles GET /workflows/summary?campaignId=
func (h *WorkflowHandler) GetSummary(c *gin.Context) {
	summary, err := h.workflowService.GetWorkflowSummary(c.Request.Context(), utils.GetTenantID(c), utils.QueryString(c, "campaignId"))
	respond(c, summary, err)
}

// GetPendingQueue handles GET /workflows/pending?campaignId=&limit=
func (h *WorkflowHandler) GetPendingQueue(c *gin.Context) {
	limit, err := utils.QueryInt(c, "limit")
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	queue, err := h.workflowService.GetPendingQueue(c.Request.Context(), utils.GetTenantID(c), utils.QueryString(c, "campaignId"), limit)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	utils.SendOKResponse(c, models.ListResponse[models.PendingConsentItem]{Data: queue})
}

// GetFunnel handles GET /workflows/funnel?campaignId=
func (h *WorkflowHandler) GetFunnel(c *gin.Context) {
	funnel, err := h.workflowService.GetConversionFunnel(c.Request.Context(), utils.GetTenantID(c), utils.QueryString(c, "campaignId"))
	respond(c, funnel, err)
}
