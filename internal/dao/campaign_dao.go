package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
)

const campaignColumns = `ID, TENANT_ID, ORGANIZATION_ID, NAME, SLUG, DESCRIPTION, TAGLINE,
		CAMPAIGN_TYPE, STATUS, START_DATE, END_DATE, LOCATION_TEXT, CITY, STATE_PROVINCE,
		COUNTRY, LATITUDE, LONGITUDE, STORYTELLER_TARGET, STORY_TARGET, ENGAGEMENT_TARGET,
		PARTICIPANT_COUNT, STORY_COUNT, WORKFLOW_COUNT, ENGAGEMENT_METRICS,
		REQUIRES_CONSENT_WORKFLOW, REQUIRES_ELDER_REVIEW, CULTURAL_PROTOCOLS,
		TRADITIONAL_TERRITORY, IS_PUBLIC, IS_FEATURED, ALLOW_SELF_REGISTRATION, METADATA,
		CREATED_BY, CREATED_TIME, UPDATED_TIME`

var (
	queryInsertCampaign = database.DBQuery{
		ID: "CW-CMP-01",
		Query: `INSERT INTO CAMPAIGN (` + campaignColumns + `) VALUES (
		:ID, :TENANT_ID, :ORGANIZATION_ID, :NAME, :SLUG, :DESCRIPTION, :TAGLINE,
		:CAMPAIGN_TYPE, :STATUS, :START_DATE, :END_DATE, :LOCATION_TEXT, :CITY, :STATE_PROVINCE,
		:COUNTRY, :LATITUDE, :LONGITUDE, :STORYTELLER_TARGET, :STORY_TARGET, :ENGAGEMENT_TARGET,
		:PARTICIPANT_COUNT, :STORY_COUNT, :WORKFLOW_COUNT, :ENGAGEMENT_METRICS,
		:REQUIRES_CONSENT_WORKFLOW, :REQUIRES_ELDER_REVIEW, :CULTURAL_PROTOCOLS,
		:TRADITIONAL_TERRITORY, :IS_PUBLIC, :IS_FEATURED, :ALLOW_SELF_REGISTRATION, :METADATA,
		:CREATED_BY, :CREATED_TIME, :UPDATED_TIME)`,
	}
	querySelectCampaigns = database.DBQuery{
		ID:    "CW-CMP-02",
		Query: `SELECT ` + campaignColumns + ` FROM CAMPAIGN`,
	}
	queryGetCampaign = database.DBQuery{
		ID:    "CW-CMP-03",
		Query: `SELECT ` + campaignColumns + ` FROM CAMPAIGN WHERE ID = ? AND TENANT_ID = ?`,
	}
	queryGetCampaignForUpdate = database.DBQuery{
		ID:          "CW-CMP-04",
		Query:       `SELECT ` + campaignColumns + ` FROM CAMPAIGN WHERE ID = ? AND TENANT_ID = ? FOR UPDATE`,
		SQLiteQuery: `SELECT ` + campaignColumns + ` FROM CAMPAIGN WHERE ID = ? AND TENANT_ID = ?`,
	}
	queryGetCampaignBySlug = database.DBQuery{
		ID:    "CW-CMP-05",
		Query: `SELECT ` + campaignColumns + ` FROM CAMPAIGN WHERE SLUG = ? AND TENANT_ID = ?`,
	}
	// slug and counts are owned by creation and roll up
	queryUpdateCampaign = database.DBQuery{
		ID: "CW-CMP-06",
		Query: `UPDATE CAMPAIGN SET
		ORGANIZATION_ID = :ORGANIZATION_ID, NAME = :NAME, DESCRIPTION = :DESCRIPTION,
		TAGLINE = :TAGLINE, CAMPAIGN_TYPE = :CAMPAIGN_TYPE, STATUS = :STATUS,
		START_DATE = :START_DATE, END_DATE = :END_DATE, LOCATION_TEXT = :LOCATION_TEXT,
		CITY = :CITY, STATE_PROVINCE = :STATE_PROVINCE, COUNTRY = :COUNTRY,
		LATITUDE = :LATITUDE, LONGITUDE = :LONGITUDE, STORYTELLER_TARGET = :STORYTELLER_TARGET,
		STORY_TARGET = :STORY_TARGET, ENGAGEMENT_TARGET = :ENGAGEMENT_TARGET,
		ENGAGEMENT_METRICS = :ENGAGEMENT_METRICS, REQUIRES_CONSENT_WORKFLOW = :REQUIRES_CONSENT_WORKFLOW,
		REQUIRES_ELDER_REVIEW = :REQUIRES_ELDER_REVIEW, CULTURAL_PROTOCOLS = :CULTURAL_PROTOCOLS,
		TRADITIONAL_TERRITORY = :TRADITIONAL_TERRITORY, IS_PUBLIC = :IS_PUBLIC,
		IS_FEATURED = :IS_FEATURED, ALLOW_SELF_REGISTRATION = :ALLOW_SELF_REGISTRATION,
		METADATA = :METADATA, UPDATED_TIME = :UPDATED_TIME
		WHERE ID = :ID AND TENANT_ID = :TENANT_ID`,
	}
	queryUpdateCampaignCounts = database.DBQuery{
		ID: "CW-CMP-07",
		Query: `UPDATE CAMPAIGN SET PARTICIPANT_COUNT = ?, STORY_COUNT = ?, WORKFLOW_COUNT = ?, UPDATED_TIME = ?
		WHERE ID = ? AND TENANT_ID = ?`,
	}
	queryCampaignSlugs = database.DBQuery{
		ID:    "CW-CMP-08",
		Query: `SELECT SLUG FROM CAMPAIGN WHERE TENANT_ID = ? AND (SLUG = ? OR SLUG LIKE ?)`,
	}
	queryDeleteCampaign = database.DBQuery{
		ID:    "CW-CMP-09",
		Query: `DELETE FROM CAMPAIGN WHERE ID = ? AND TENANT_ID = ?`,
	}
)

// CampaignDAO handles database operations for campaigns
type CampaignDAO struct {
	db *database.DB
}

// NewCampaignDAO creates a new CampaignDAO instance
func NewCampaignDAO(db *database.DB) *CampaignDAO {
	return &CampaignDAO{db: db}
}

// Create inserts a new campaign
func (dao *CampaignDAO) Create(ctx context.Context, c *models.Campaign) error {
	if _, err := sqlx.NamedExecContext(ctx, dao.db, queryInsertCampaign.GetQuery(dao.db.Type()), c); err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetByID retrieves a campaign by ID
func (dao *CampaignDAO) GetByID(ctx context.Context, id, tenantID string) (*models.Campaign, error) {
	return getCampaign(ctx, dao.db, queryGetCampaign.GetQuery(dao.db.Type()), id, tenantID, id)
}

// GetByIDWithTx retrieves a campaign by ID using a transaction
func (dao *CampaignDAO) GetByIDWithTx(ctx context.Context, tx *database.Transaction, id, tenantID string) (*models.Campaign, error) {
	return getCampaign(ctx, tx, queryGetCampaign.GetQuery(tx.Type()), id, tenantID, id)
}

// GetForUpdateWithTx retrieves a campaign and locks its row until the transaction ends
func (dao *CampaignDAO) GetForUpdateWithTx(ctx context.Context, tx *database.Transaction, id, tenantID string) (*models.Campaign, error) {
	return getCampaign(ctx, tx, queryGetCampaignForUpdate.GetQuery(tx.Type()), id, tenantID, id)
}

// GetBySlug retrieves a campaign by slug
func (dao *CampaignDAO) GetBySlug(ctx context.Context, slug, tenantID string) (*models.Campaign, error) {
	return getCampaign(ctx, dao.db, queryGetCampaignBySlug.GetQuery(dao.db.Type()), slug, tenantID, slug)
}

func getCampaign(ctx context.Context, exec database.Executor, query, key, tenantID, label string) (*models.Campaign, error) {
	var c models.Campaign
	if err := exec.GetContext(ctx, &c, query, key, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serviceerror.NotFound("campaign", label)
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

// Update writes the mutable fields of c
func (dao *CampaignDAO) Update(ctx context.Context, c *models.Campaign) error {
	return updateCampaign(ctx, dao.db, dao.db.Type(), c)
}

// UpdateWithTx writes the mutable fields of c using a transaction
func (dao *CampaignDAO) UpdateWithTx(ctx context.Context, tx *database.Transaction, c *models.Campaign) error {
	return updateCampaign(ctx, tx, tx.Type(), c)
}

func updateCampaign(ctx context.Context, exec sqlx.ExtContext, dbType string, c *models.Campaign) error {
	result, err := sqlx.NamedExecContext(ctx, exec, queryUpdateCampaign.GetQuery(dbType), c)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read updated rows: %w", err)
	}
	if n == 0 {
		return serviceerror.NotFound("campaign", c.ID)
	}
	return nil
}

// UpdateCountsWithTx stores rolled up counts on a campaign
func (dao *CampaignDAO) UpdateCountsWithTx(ctx context.Context, tx *database.Transaction, tenantID, id string, counts models.CampaignCounts, updatedTime int64) error {
	_, err := tx.ExecContext(
		ctx,
		queryUpdateCampaignCounts.GetQuery(tx.Type()),
		counts.ParticipantCount,
		counts.StoryCount,
		counts.WorkflowCount,
		updatedTime,
		id,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign counts: %w", err)
	}
	return nil
}

// List retrieves campaigns matching filter, newest first, with the total match count
func (dao *CampaignDAO) List(ctx context.Context, tenantID string, filter models.CampaignFilter) ([]models.Campaign, int, error) {
	return dao.list(ctx, tenantID, filter, "CREATED_TIME DESC, ID ASC")
}

// ListActive retrieves active campaigns, featured first
func (dao *CampaignDAO) ListActive(ctx context.Context, tenantID string, limit int) ([]models.Campaign, error) {
	filter := models.CampaignFilter{
		Statuses: []models.CampaignStatus{models.CampaignStatusActive},
		Limit:    limit,
	}
	campaigns, _, err := dao.list(ctx, tenantID, filter, "IS_FEATURED DESC, CREATED_TIME DESC, ID ASC")
	return campaigns, err
}

func (dao *CampaignDAO) list(ctx context.Context, tenantID string, filter models.CampaignFilter, orderBy string) ([]models.Campaign, int, error) {
	qb := NewQueryBuilder(querySelectCampaigns.Query).AddCondition("TENANT_ID = ?", tenantID)
	statuses := make([]string, len(filter.Statuses))
	for i, s := range filter.Statuses {
		statuses[i] = string(s)
	}
	qb.AddIn("STATUS", statuses)
	if filter.Type != nil {
		qb.AddCondition("CAMPAIGN_TYPE = ?", string(*filter.Type))
	}
	if filter.Featured != nil {
		qb.AddCondition("IS_FEATURED = ?", *filter.Featured)
	}
	if filter.Public != nil {
		qb.AddCondition("IS_PUBLIC = ?", *filter.Public)
	}

	where, whereArgs := qb.Where()
	var total int
	if err := dao.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM CAMPAIGN"+where, whereArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	query, args := qb.OrderBy(orderBy).Page(filter.Limit, filter.Offset).Build()
	campaigns := []models.Campaign{}
	if err := dao.db.SelectContext(ctx, &campaigns, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, total, nil
}

// ListSlugsWithPrefix returns base and every base-N slug already taken in a tenant
func (dao *CampaignDAO) ListSlugsWithPrefix(ctx context.Context, tenantID, base string) ([]string, error) {
	slugs := []string{}
	err := dao.db.SelectContext(ctx, &slugs, queryCampaignSlugs.GetQuery(dao.db.Type()), tenantID, base, base+"-%")
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign slugs: %w", err)
	}
	return slugs, nil
}

// DeleteWithTx removes a campaign using a transaction
func (dao *CampaignDAO) DeleteWithTx(ctx context.Context, tx *database.Transaction, id, tenantID string) error {
	result, err := tx.ExecContext(ctx, queryDeleteCampaign.GetQuery(tx.Type()), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deleted rows: %w", err)
	}
	if n == 0 {
		return serviceerror.NotFound("campaign", id)
	}
	return nil
}
