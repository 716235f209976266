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

const workflowColumns = `ID, TENANT_ID, CAMPAIGN_ID, STORYTELLER_ID, STORY_ID, STAGE, STAGE_CHANGED_AT,
		PREVIOUS_STAGE, INVITATION_SENT_AT, INVITATION_METHOD, FIRST_RESPONSE_AT,
		CONSENT_GRANTED_AT, CONSENT_FORM_URL, CONSENT_VERIFIED_BY, STORY_RECORDED_AT,
		RECORDING_LOCATION, RECORDING_METHOD, REVIEWED_AT, REVIEWED_BY,
		ELDER_REVIEW_REQUIRED, ELDER_REVIEWED_AT, ELDER_REVIEWED_BY, ELDER_APPROVED,
		PUBLISHED_AT, WITHDRAWN_AT, WITHDRAWAL_REASON, WITHDRAWAL_HANDLED_BY, NOTES,
		METADATA, FOLLOW_UP_REQUIRED, FOLLOW_UP_DATE, FOLLOW_UP_NOTES, CREATED_BY,
		CREATED_TIME, UPDATED_TIME`

var (
	queryInsertWorkflow = database.DBQuery{
		ID: "CW-WF-01",
		Query: `INSERT INTO CAMPAIGN_WORKFLOW (` + workflowColumns + `) VALUES (
		:ID, :TENANT_ID, :CAMPAIGN_ID, :STORYTELLER_ID, :STORY_ID, :STAGE, :STAGE_CHANGED_AT,
		:PREVIOUS_STAGE, :INVITATION_SENT_AT, :INVITATION_METHOD, :FIRST_RESPONSE_AT,
		:CONSENT_GRANTED_AT, :CONSENT_FORM_URL, :CONSENT_VERIFIED_BY, :STORY_RECORDED_AT,
		:RECORDING_LOCATION, :RECORDING_METHOD, :REVIEWED_AT, :REVIEWED_BY,
		:ELDER_REVIEW_REQUIRED, :ELDER_REVIEWED_AT, :ELDER_REVIEWED_BY, :ELDER_APPROVED,
		:PUBLISHED_AT, :WITHDRAWN_AT, :WITHDRAWAL_REASON, :WITHDRAWAL_HANDLED_BY, :NOTES,
		:METADATA, :FOLLOW_UP_REQUIRED, :FOLLOW_UP_DATE, :FOLLOW_UP_NOTES, :CREATED_BY,
		:CREATED_TIME, :UPDATED_TIME)`,
	}
	queryGetWorkflow = database.DBQuery{
		ID:    "CW-WF-02",
		Query: `SELECT ` + workflowColumns + ` FROM CAMPAIGN_WORKFLOW WHERE ID = ? AND TENANT_ID = ?`,
	}
	queryGetWorkflowForUpdate = database.DBQuery{
		ID:          "CW-WF-03",
		Query:       `SELECT ` + workflowColumns + ` FROM CAMPAIGN_WORKFLOW WHERE ID = ? AND TENANT_ID = ? FOR UPDATE`,
		SQLiteQuery: `SELECT ` + workflowColumns + ` FROM CAMPAIGN_WORKFLOW WHERE ID = ? AND TENANT_ID = ?`,
	}
	// the row is written only if nobody moved it since it was read
	queryUpdateWorkflow = database.DBQuery{
		ID: "CW-WF-04",
		Query: `UPDATE CAMPAIGN_WORKFLOW SET
		CAMPAIGN_ID = :CAMPAIGN_ID, STORY_ID = :STORY_ID, STAGE = :STAGE,
		STAGE_CHANGED_AT = :STAGE_CHANGED_AT, PREVIOUS_STAGE = :PREVIOUS_STAGE,
		INVITATION_SENT_AT = :INVITATION_SENT_AT, INVITATION_METHOD = :INVITATION_METHOD,
		FIRST_RESPONSE_AT = :FIRST_RESPONSE_AT, CONSENT_GRANTED_AT = :CONSENT_GRANTED_AT,
		CONSENT_FORM_URL = :CONSENT_FORM_URL, CONSENT_VERIFIED_BY = :CONSENT_VERIFIED_BY,
		STORY_RECORDED_AT = :STORY_RECORDED_AT, RECORDING_LOCATION = :RECORDING_LOCATION,
		RECORDING_METHOD = :RECORDING_METHOD, REVIEWED_AT = :REVIEWED_AT, REVIEWED_BY = :REVIEWED_BY,
		ELDER_REVIEW_REQUIRED = :ELDER_REVIEW_REQUIRED, ELDER_REVIEWED_AT = :ELDER_REVIEWED_AT,
		ELDER_REVIEWED_BY = :ELDER_REVIEWED_BY, ELDER_APPROVED = :ELDER_APPROVED,
		PUBLISHED_AT = :PUBLISHED_AT, WITHDRAWN_AT = :WITHDRAWN_AT,
		WITHDRAWAL_REASON = :WITHDRAWAL_REASON, WITHDRAWAL_HANDLED_BY = :WITHDRAWAL_HANDLED_BY,
		NOTES = :NOTES, METADATA = :METADATA, FOLLOW_UP_REQUIRED = :FOLLOW_UP_REQUIRED,
		FOLLOW_UP_DATE = :FOLLOW_UP_DATE, FOLLOW_UP_NOTES = :FOLLOW_UP_NOTES,
		UPDATED_TIME = :UPDATED_TIME
		WHERE ID = :ID AND TENANT_ID = :TENANT_ID
		AND STAGE = :EXPECTED_STAGE AND STAGE_CHANGED_AT = :EXPECTED_STAGE_CHANGED_AT`,
	}
	querySelectWorkflows = database.DBQuery{
		ID:    "CW-WF-05",
		Query: `SELECT ` + workflowColumns + ` FROM CAMPAIGN_WORKFLOW`,
	}
	queryDetachCampaign = database.DBQuery{
		ID:    "CW-WF-06",
		Query: `UPDATE CAMPAIGN_WORKFLOW SET CAMPAIGN_ID = NULL, UPDATED_TIME = ? WHERE CAMPAIGN_ID = ? AND TENANT_ID = ?`,
	}
)

// casWorkflow carries the values the stored row must still hold for an update to apply
type casWorkflow struct {
	models.CampaignWorkflow
	ExpectedStage          models.Stage `db:"EXPECTED_STAGE"`
	ExpectedStageChangedAt int64        `db:"EXPECTED_STAGE_CHANGED_AT"`
}

// WorkflowDAO handles database operations for campaign workflows
type WorkflowDAO struct {
	db *database.DB
}

// NewWorkflowDAO creates a new WorkflowDAO instance
func NewWorkflowDAO(db *database.DB) *WorkflowDAO {
	return &WorkflowDAO{db: db}
}

// CreateWithTx inserts a new workflow using a transaction
func (dao *WorkflowDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, w *models.CampaignWorkflow) error {
	if _, err := sqlx.NamedExecContext(ctx, tx, queryInsertWorkflow.GetQuery(tx.Type()), w); err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}
	return nil
}

// GetByID retrieves a workflow by ID
func (dao *WorkflowDAO) GetByID(ctx context.Context, id, tenantID string) (*models.CampaignWorkflow, error) {
	return getWorkflow(ctx, dao.db, queryGetWorkflow.GetQuery(dao.db.Type()), id, tenantID)
}

// GetByIDWithTx retrieves a workflow by ID using a transaction
func (dao *WorkflowDAO) GetByIDWithTx(ctx context.Context, tx *database.Transaction, id, tenantID string) (*models.CampaignWorkflow, error) {
	return getWorkflow(ctx, tx, queryGetWorkflow.GetQuery(tx.Type()), id, tenantID)
}

// GetForUpdateWithTx retrieves a workflow and locks its row until the transaction ends
func (dao *WorkflowDAO) GetForUpdateWithTx(ctx context.Context, tx *database.Transaction, id, tenantID string) (*models.CampaignWorkflow, error) {
	return getWorkflow(ctx, tx, queryGetWorkflowForUpdate.GetQuery(tx.Type()), id, tenantID)
}

func getWorkflow(ctx context.Context, exec database.Executor, query, id, tenantID string) (*models.CampaignWorkflow, error) {
	var w models.CampaignWorkflow
	if err := exec.GetContext(ctx, &w, query, id, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serviceerror.NotFound("workflow", id)
		}
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return &w, nil
}

// UpdateWithTx writes w if the stored row still has expectedStage and expectedChangedAt.
// It returns the number of rows written; zero means the row changed underneath the caller.
func (dao *WorkflowDAO) UpdateWithTx(ctx context.Context, tx *database.Transaction, w *models.CampaignWorkflow, expectedStage models.Stage, expectedChangedAt int64) (int64, error) {
	row := casWorkflow{
		CampaignWorkflow:       *w,
		ExpectedStage:          expectedStage,
		ExpectedStageChangedAt: expectedChangedAt,
	}
	result, err := sqlx.NamedExecContext(ctx, tx, queryUpdateWorkflow.GetQuery(tx.Type()), row)
	if err != nil {
		return 0, fmt.Errorf("failed to update workflow: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read updated rows: %w", err)
	}
	return n, nil
}

// List retrieves workflows matching filter, newest first
func (dao *WorkflowDAO) List(ctx context.Context, tenantID string, filter models.WorkflowFilter) ([]models.CampaignWorkflow, error) {
	return listWorkflows(ctx, dao.db, tenantID, filter)
}

// ListWithTx retrieves workflows matching filter using a transaction
func (dao *WorkflowDAO) ListWithTx(ctx context.Context, tx *database.Transaction, tenantID string, filter models.WorkflowFilter) ([]models.CampaignWorkflow, error) {
	return listWorkflows(ctx, tx, tenantID, filter)
}

func workflowQuery(tenantID string, filter models.WorkflowFilter) *QueryBuilder {
	qb := NewQueryBuilder(querySelectWorkflows.Query).AddCondition("TENANT_ID = ?", tenantID)
	if filter.CampaignID != nil {
		qb.AddCondition("CAMPAIGN_ID = ?", *filter.CampaignID)
	}
	if filter.StorytellerID != nil {
		qb.AddCondition("STORYTELLER_ID = ?", *filter.StorytellerID)
	}
	if filter.Stage != nil {
		qb.AddCondition("STAGE = ?", string(*filter.Stage))
	}
	if filter.ElderReviewRequired != nil {
		qb.AddCondition("ELDER_REVIEW_REQUIRED = ?", *filter.ElderReviewRequired)
	}
	return qb.OrderBy("CREATED_TIME DESC, ID ASC")
}

func listWorkflows(ctx context.Context, exec database.Executor, tenantID string, filter models.WorkflowFilter) ([]models.CampaignWorkflow, error) {
	query, args := workflowQuery(tenantID, filter).Build()
	workflows := []models.CampaignWorkflow{}
	if err := exec.SelectContext(ctx, &workflows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	return workflows, nil
}

// GetLatestByStoryteller retrieves the most recently created workflow of a storyteller,
// optionally within one campaign
func (dao *WorkflowDAO) GetLatestByStoryteller(ctx context.Context, tenantID, storytellerID string, campaignID *string) (*models.CampaignWorkflow, error) {
	query, args := workflowQuery(tenantID, models.WorkflowFilter{
		StorytellerID: &storytellerID,
		CampaignID:    campaignID,
	}).Page(1, 0).Build()

	var w models.CampaignWorkflow
	if err := dao.db.GetContext(ctx, &w, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serviceerror.NotFound("workflow for storyteller", storytellerID)
		}
		return nil, fmt.Errorf("failed to get workflow by storyteller: %w", err)
	}
	return &w, nil
}

// DetachCampaignWithTx clears the campaign reference of every workflow of a campaign
func (dao *WorkflowDAO) DetachCampaignWithTx(ctx context.Context, tx *database.Transaction, tenantID, campaignID string, updatedTime int64) (int64, error) {
	result, err := tx.ExecContext(ctx, queryDetachCampaign.GetQuery(tx.Type()), updatedTime, campaignID, tenantID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach workflows: %w", err)
	}
	return result.RowsAffected()
}
