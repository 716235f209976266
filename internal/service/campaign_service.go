package service

import (
	"context"
	"strings"

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

const (
	maxNameLength      = 255
	defaultListLimit   = 20
	maxListLimit       = 100
	defaultActiveLimit = 10
)

// CampaignService handles business logic for campaigns
type CampaignService struct {
	campaignDAO *dao.CampaignDAO
	workflowDAO *dao.WorkflowDAO
	db          *database.DB
	cfg         config.CampaignConfig
	now         Clock
	logger      *logrus.Logger
}

// NewCampaignService creates a new campaign service instance
func NewCampaignService(
	campaignDAO *dao.CampaignDAO,
	workflowDAO *dao.WorkflowDAO,
	db *database.DB,
	cfg config.CampaignConfig,
	logger *logrus.Logger,
) *CampaignService {
	return &CampaignService{
		campaignDAO: campaignDAO,
		workflowDAO: workflowDAO,
		db:          db,
		cfg:         cfg,
		now:         utils.GetCurrentTimeMillis,
		logger:      logger,
	}
}

// WithClock replaces the time source
func (s *CampaignService) WithClock(now Clock) *CampaignService {
	s.now = now
	return s
}

// Create creates a campaign with a unique slug derived from its name
func (s *CampaignService) Create(ctx context.Context, actor models.Actor, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	const op = "create_campaign"
	fields := logrus.Fields{"tenant_id": actor.TenantID}
	if err := validateTenant(actor.TenantID); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}
	if req == nil {
		return nil, fail(s.logger, op, serviceerror.Validation("request body is required"), fields)
	}

	now := s.now()
	c := newCampaign(actor, now)
	applyCampaignFields(&c, campaignFields{
		Name: &req.Name, OrganizationID: req.OrganizationID, Description: req.Description,
		Tagline: req.Tagline, Type: req.Type, Status: req.Status,
		StartDate: req.StartDate, EndDate: req.EndDate, LocationText: req.LocationText,
		City: req.City, StateProvince: req.StateProvince, Country: req.Country,
		Latitude: req.Latitude, Longitude: req.Longitude,
		StorytellerTarget: req.StorytellerTarget, StoryTarget: req.StoryTarget, EngagementTarget: req.EngagementTarget,
		RequiresConsentWorkflow: req.RequiresConsentWorkflow, RequiresElderReview: req.RequiresElderReview,
		CulturalProtocols: req.CulturalProtocols, TraditionalTerritory: req.TraditionalTerritory,
		IsPublic: req.IsPublic, IsFeatured: req.IsFeatured, AllowSelfRegistration: req.AllowSelfRegistration,
		Metadata: req.Metadata,
	})
	if err := validateCampaign(&c); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}

	base := campaign.Slugify(c.Name)
	attempts := s.cfg.SlugMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var taken []string
		taken, err = s.campaignDAO.ListSlugsWithPrefix(ctx, actor.TenantID, base)
		if err != nil {
			break
		}
		c.Slug = campaign.Disambiguate(base, taken)
		err = s.campaignDAO.Create(ctx, &c)
		if err == nil || !database.IsUniqueViolation(err) {
			break
		}
		s.logger.WithFields(fields).WithFields(logrus.Fields{
			"slug":    c.Slug,
			"attempt": attempt,
		}).Warn("Campaign slug taken concurrently, retrying")
		err = serviceerror.Conflict("campaign slug", c.Slug)
	}
	if err != nil {
		return nil, fail(s.logger, op, storeError(op, err), fields)
	}

	metrics.RecordCampaignCreated(string(c.Type))
	s.logger.WithFields(logrus.Fields{
		"campaign_id": c.ID,
		"tenant_id":   c.TenantID,
		"slug":        c.Slug,
	}).Info("Campaign created")
	return &c, nil
}

func newCampaign(actor models.Actor, now int64) models.Campaign {
	return models.Campaign{
		ID:                      utils.GenerateID(),
		TenantID:                actor.TenantID,
		Type:                    models.CampaignTypeOther,
		Status:                  models.CampaignStatusDraft,
		EngagementMetrics:       models.JSONMap{},
		RequiresConsentWorkflow: true,
		RequiresElderReview:     false,
		IsPublic:                true,
		Metadata:                models.JSONMap{},
		CreatedBy:               actor.UserRef(),
		CreatedTime:             now,
		UpdatedTime:             now,
	}
}

// campaignFields is the set of caller editable campaign fields. Nil means unchanged.
type campaignFields struct {
	Name                    *string
	OrganizationID          *string
	Description             *string
	Tagline                 *string
	Type                    *models.CampaignType
	Status                  *models.CampaignStatus
	StartDate               *int64
	EndDate                 *int64
	LocationText            *string
	City                    *string
	StateProvince           *string
	Country                 *string
	Latitude                *float64
	Longitude               *float64
	StorytellerTarget       *int
	StoryTarget             *int
	EngagementTarget        *int
	RequiresConsentWorkflow *bool
	RequiresElderReview     *bool
	CulturalProtocols       *string
	TraditionalTerritory    *string
	IsPublic                *bool
	IsFeatured              *bool
	AllowSelfRegistration   *bool
	Metadata                map[string]interface{}
}

func applyCampaignFields(c *models.Campaign, f campaignFields) {
	if f.Name != nil {
		c.Name = utils.SanitizeString(*f.Name)
	}
	setString(&c.OrganizationID, f.OrganizationID)
	setString(&c.Description, f.Description)
	setString(&c.Tagline, f.Tagline)
	if f.Type != nil {
		c.Type = *f.Type
	}
	if f.Status != nil {
		c.Status = *f.Status
	}
	if f.StartDate != nil {
		c.StartDate = f.StartDate
	}
	if f.EndDate != nil {
		c.EndDate = f.EndDate
	}
	setString(&c.LocationText, f.LocationText)
	setString(&c.City, f.City)
	setString(&c.StateProvince, f.StateProvince)
	setString(&c.Country, f.Country)
	if f.Latitude != nil {
		c.Latitude = f.Latitude
	}
	if f.Longitude != nil {
		c.Longitude = f.Longitude
	}
	if f.StorytellerTarget != nil {
		c.StorytellerTarget = f.StorytellerTarget
	}
	if f.StoryTarget != nil {
		c.StoryTarget = f.StoryTarget
	}
	if f.EngagementTarget != nil {
		c.EngagementTarget = f.EngagementTarget
	}
	if f.RequiresConsentWorkflow != nil {
		c.RequiresConsentWorkflow = *f.RequiresConsentWorkflow
	}
	if f.RequiresElderReview != nil {
		c.RequiresElderReview = *f.RequiresElderReview
	}
	setString(&c.CulturalProtocols, f.CulturalProtocols)
	setString(&c.TraditionalTerritory, f.TraditionalTerritory)
	if f.IsPublic != nil {
		c.IsPublic = *f.IsPublic
	}
	if f.IsFeatured != nil {
		c.IsFeatured = *f.IsFeatured
	}
	if f.AllowSelfRegistration != nil {
		c.AllowSelfRegistration = *f.AllowSelfRegistration
	}
	if f.Metadata != nil {
		c.Metadata = models.JSONMap{}.Merge(f.Metadata)
	}
}

// setString stores a trimmed copy of v, clearing the field when v is blank
func setString(dst **string, v *string) {
	if v == nil {
		return
	}
	trimmed := utils.SanitizeString(*v)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}

func validateCampaign(c *models.Campaign) error {
	if err := utils.ValidateRequired("name", c.Name); err != nil {
		return serviceerror.Validation("%s", err.Error())
	}
	if err := utils.ValidateMaxLength("name", c.Name, maxNameLength); err != nil {
		return serviceerror.Validation("%s", err.Error())
	}
	if !c.Type.IsValid() {
		return serviceerror.Validation("invalid campaign type %q", c.Type)
	}
	if !c.Status.IsValid() {
		return serviceerror.Validation("invalid campaign status %q", c.Status)
	}
	if c.StartDate != nil && c.EndDate != nil && *c.EndDate < *c.StartDate {
		return serviceerror.Validation("end date must not be before start date")
	}
	if c.Latitude != nil && (*c.Latitude < -90 || *c.Latitude > 90) {
		return serviceerror.Validation("latitude must be between -90 and 90")
	}
	if c.Longitude != nil && (*c.Longitude < -180 || *c.Longitude > 180) {
		return serviceerror.Validation("longitude must be between -180 and 180")
	}
	targets := map[string]*int{
		"storyteller target": c.StorytellerTarget,
		"story target":       c.StoryTarget,
		"engagement target":  c.EngagementTarget,
	}
	for name, target := range targets {
		if err := utils.ValidateNonNegative(name, target); err != nil {
			return serviceerror.Validation("%s", err.Error())
		}
	}
	return nil
}

// edit applies fn to the locked campaign row and writes it back
func (s *CampaignService) edit(ctx context.Context, op string, actor models.Actor, campaignID string, fn func(c *models.Campaign) error) (*models.Campaign, error) {
	fields := logrus.Fields{"campaign_id": campaignID, "tenant_id": actor.TenantID}
	if err := validateTenant(actor.TenantID); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}
	if err := validateID("campaign ID", campaignID); err != nil {
		return nil, fail(s.logger, op, err, fields)
	}

	var updated models.Campaign
	err := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		c, err := s.campaignDAO.GetForUpdateWithTx(ctx, tx, campaignID, actor.TenantID)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedTime = s.now()
		if err := s.campaignDAO.UpdateWithTx(ctx, tx, c); err != nil {
			return err
		}
		updated = *c
		return nil
	})
	if err != nil {
		return nil, fail(s.logger, op, storeError(op, err), fields)
	}
	return &updated, nil
}

// Update applies a partial update. Slug and counts are left untouched.
func (s *CampaignService) Update(ctx context.Context, actor models.Actor, campaignID string, req *models.UpdateCampaignRequest) (*models.Campaign, error) {
	if req == nil {
		return nil, serviceerror.Validation("request body is required")
	}
	return s.edit(ctx, "update_campaign", actor, campaignID, func(c *models.Campaign) error {
		applyCampaignFields(c, campaignFields{
			Name: req.Name, OrganizationID: req.OrganizationID, Description: req.Description,
			Tagline: req.Tagline, Type: req.Type, Status: req.Status,
			StartDate: req.StartDate, EndDate: req.EndDate, LocationText: req.LocationText,
			City: req.City, StateProvince: req.StateProvince, Country: req.Country,
			Latitude: req.Latitude, Longitude: req.Longitude,
			StorytellerTarget: req.StorytellerTarget, StoryTarget: req.StoryTarget, EngagementTarget: req.EngagementTarget,
			RequiresConsentWorkflow: req.RequiresConsentWorkflow, RequiresElderReview: req.RequiresElderReview,
			CulturalProtocols: req.CulturalProtocols, TraditionalTerritory: req.TraditionalTerritory,
			IsPublic: req.IsPublic, IsFeatured: req.IsFeatured, AllowSelfRegistration: req.AllowSelfRegistration,
			Metadata: req.Metadata,
		})
		return validateCampaign(c)
	})
}

// UpdateStatus sets a campaign's status
func (s *CampaignService) UpdateStatus(ctx context.Context, actor models.Actor, campaignID, status string) (*models.Campaign, error) {
	next := models.CampaignStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.IsValid() {
		return nil, fail(s.logger, "update_campaign_status", serviceerror.Validation("invalid campaign status %q", status),
			logrus.Fields{"campaign_id": campaignID})
	}
	c, err := s.edit(ctx, "update_campaign_status", actor, campaignID, func(c *models.Campaign) error {
		c.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"campaign_id": c.ID,
		"status":      c.Status,
	}).Info("Campaign status updated")
	return c, nil
}

// Archive sets a campaign's status to archived
func (s *CampaignService) Archive(ctx context.Context, actor models.Actor, campaignID string) (*models.Campaign, error) {
	return s.UpdateStatus(ctx, actor, campaignID, string(models.CampaignStatusArchived))
}

// Delete hard deletes a campaign. Its workflows are kept and detached from it.
func (s *CampaignService) Delete(ctx context.Context, actor models.Actor, campaignID string) error {
	const op = "delete_campaign"
	fields := logrus.Fields{"campaign_id": campaignID, "tenant_id": actor.TenantID}
	if err := validateTenant(actor.TenantID); err != nil {
		return fail(s.logger, op, err, fields)
	}
	if !actor.IsAdmin() {
		return fail(s.logger, op, serviceerror.Forbidden("deleting a campaign requires the admin role"), fields)
	}
	if err := validateID("campaign ID", campaignID); err != nil {
		return fail(s.logger, op, err, fields)
	}

	var detached int64
	err := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if _, err := s.campaignDAO.GetByIDWithTx(ctx, tx, campaignID, actor.TenantID); err != nil {
			return err
		}
		n, err := s.workflowDAO.DetachCampaignWithTx(ctx, tx, actor.TenantID, campaignID, s.now())
		if err != nil {
			return err
		}
		detached = n
		return s.campaignDAO.DeleteWithTx(ctx, tx, campaignID, actor.TenantID)
	})
	if err != nil {
		return fail(s.logger, op, storeError(op, err), fields)
	}

	s.logger.WithFields(fields).WithField("detached_workflows", detached).Info("Campaign deleted")
	return nil
}

// UpdateEngagementMetrics merges metrics into a campaign's engagement metrics
func (s *CampaignService) UpdateEngagementMetrics(ctx context.Context, actor models.Actor, campaignID string, metricsUpdate map[string]interface{}) (*models.Campaign, error) {
	if len(metricsUpdate) == 0 {
		return nil, serviceerror.Validation("at least one metric is required")
	}
	return s.edit(ctx, "update_engagement_metrics", actor, campaignID, func(c *models.Campaign) error {
		c.EngagementMetrics = c.EngagementMetrics.Merge(metricsUpdate)
		return nil
	})
}

// GetByID retrieves a campaign by ID
func (s *CampaignService) GetByID(ctx context.Context, tenantID, campaignID string) (*models.Campaign, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if err := validateID("campaign ID", campaignID); err != nil {
		return nil, err
	}
	c, err := s.campaignDAO.GetByID(ctx, campaignID, tenantID)
	if err != nil {
		return nil, storeError("get campaign", err)
	}
	return c, nil
}

// GetBySlug retrieves a campaign by slug
func (s *CampaignService) GetBySlug(ctx context.Context, tenantID, slug string) (*models.Campaign, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := validateID("slug", slug); err != nil {
		return nil, err
	}
	c, err := s.campaignDAO.GetBySlug(ctx, slug, tenantID)
	if err != nil {
		return nil, storeError("get campaign by slug", err)
	}
	return c, nil
}

// List retrieves a page of campaigns, newest first
func (s *CampaignService) List(ctx context.Context, tenantID string, filter models.CampaignFilter) (*models.ListResponse[models.Campaign], error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	for _, status := range filter.Statuses {
		if !status.IsValid() {
			return nil, serviceerror.Validation("invalid campaign status %q", status)
		}
	}
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, serviceerror.Validation("invalid campaign type %q", *filter.Type)
	}
	filter.Limit = utils.ValidateLimit(filter.Limit, defaultListLimit, maxListLimit)
	filter.Offset = utils.ValidateOffset(filter.Offset)

	campaigns, total, err := s.campaignDAO.List(ctx, tenantID, filter)
	if err != nil {
		return nil, storeError("list campaigns", err)
	}
	return &models.ListResponse[models.Campaign]{
		Data: campaigns,
		Metadata: &models.PaginationMetadata{
			Total:   total,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+len(campaigns) < total,
		},
	}, nil
}

// GetActive retrieves active campaigns, featured first
func (s *CampaignService) GetActive(ctx context.Context, tenantID string, limit int) ([]models.Campaign, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	campaigns, err := s.campaignDAO.ListActive(ctx, tenantID, utils.ValidateLimit(limit, defaultActiveLimit, maxListLimit))
	if err != nil {
		return nil, storeError("list active campaigns", err)
	}
	return campaigns, nil
}

func (s *CampaignService) withWorkflows(ctx context.Context, tenantID, campaignID string) (*models.Campaign, []models.CampaignWorkflow, error) {
	c, err := s.GetByID(ctx, tenantID, campaignID)
	if err != nil {
		return nil, nil, err
	}
	workflows, err := s.workflowDAO.List(ctx, tenantID, models.WorkflowFilter{CampaignID: &campaignID})
	if err != nil {
		return nil, nil, storeError("list campaign workflows", err)
	}
	return c, workflows, nil
}

// GetDetails returns a campaign with the summary of its workflows
func (s *CampaignService) GetDetails(ctx context.Context, tenantID, campaignID string) (*models.CampaignDetails, error) {
	c, workflows, err := s.withWorkflows(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	summary := workflow.Summarize(workflows)
	return &models.CampaignDetails{Campaign: c, WorkflowSummary: &summary}, nil
}

// GetProgress reports a campaign's progress against its targets
func (s *CampaignService) GetProgress(ctx context.Context, tenantID, campaignID string) (*models.CampaignProgress, error) {
	c, err := s.GetByID(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	progress := campaign.Progress(*c, s.now())
	return &progress, nil
}

// GetStatistics aggregates the workflow statistics of a campaign
func (s *CampaignService) GetStatistics(ctx context.Context, tenantID, campaignID string) (*models.CampaignStatistics, error) {
	c, workflows, err := s.withWorkflows(ctx, tenantID, campaignID)
	if err != nil {
		return nil, err
	}
	stats := campaign.Statistics(*c, workflows)
	return &stats, nil
}
