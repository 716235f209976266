package dao

import (
	"context"
	"fmt"

	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

var (
	queryInsertStageAudit = database.DBQuery{
		ID: "CW-AUD-01",
		Query: `INSERT INTO WORKFLOW_STAGE_AUDIT (
			STAGE_AUDIT_ID, WORKFLOW_ID, TENANT_ID, FROM_STAGE, TO_STAGE,
			ACTION_TIME, ACTION_BY, REASON
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	}
	queryStageAuditByWorkflow = database.DBQuery{
		ID: "CW-AUD-02",
		Query: `SELECT STAGE_AUDIT_ID, WORKFLOW_ID, TENANT_ID, FROM_STAGE, TO_STAGE,
			ACTION_TIME, ACTION_BY, REASON
		FROM WORKFLOW_STAGE_AUDIT
		WHERE WORKFLOW_ID = ? AND TENANT_ID = ?
		ORDER BY ACTION_TIME ASC, STAGE_AUDIT_ID ASC`,
	}
)

// StageAuditDAO handles database operations for workflow stage history
type StageAuditDAO struct {
	db *database.DB
}

// NewStageAuditDAO creates a new StageAuditDAO instance
func NewStageAuditDAO(db *database.DB) *StageAuditDAO {
	return &StageAuditDAO{db: db}
}

// CreateWithTx inserts a stage transition record using a transaction
func (dao *StageAuditDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.StageTransition) error {
	_, err := tx.ExecContext(
		ctx,
		queryInsertStageAudit.GetQuery(tx.Type()),
		audit.ID,
		audit.WorkflowID,
		audit.TenantID,
		audit.FromStage,
		audit.ToStage,
		audit.ActionTime,
		audit.ActionBy,
		audit.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to create stage audit with transaction: %w", err)
	}
	return nil
}

// GetByWorkflowID retrieves the stage history of a workflow, oldest first
func (dao *StageAuditDAO) GetByWorkflowID(ctx context.Context, workflowID, tenantID string) ([]models.StageTransition, error) {
	audits := []models.StageTransition{}
	err := dao.db.SelectContext(ctx, &audits, queryStageAuditByWorkflow.GetQuery(dao.db.Type()), workflowID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage audits by workflow ID: %w", err)
	}
	return audits, nil
}
