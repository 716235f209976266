package service

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/empathy-ledger/campaign-workflow-api/internal/config"
	"github.com/empathy-ledger/campaign-workflow-api/internal/dao"
	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

const (
	tenant = "tenant-1"
	// 2025-03-01T00:00:00Z
	startMillis = int64(1740787200000)
)

var (
	coordinator = models.Actor{TenantID: tenant, UserID: "coordinator-1", Role: "coordinator"}
	admin       = models.Actor{TenantID: tenant, UserID: "admin-1", Role: models.RoleAdmin}
)

// fakeClock is a settable Clock safe for concurrent readers
type fakeClock struct {
	now atomic.Int64
}

func newFakeClock() *fakeClock {
	c := &fakeClock{}
	c.now.Store(startMillis)
	return c
}

func (c *fakeClock) Now() int64 {
	return c.now.Load()
}

func (c *fakeClock) Advance(days int) {
	c.now.Add(int64(days) * utils.MillisPerDay)
}

// testEnv wires both services over a private in-memory database
type testEnv struct {
	DB        *database.DB
	Clock     *fakeClock
	Workflows *WorkflowService
	Campaigns *CampaignService
}

func testWorkflowConfig() config.WorkflowConfig {
	return config.WorkflowConfig{
		PendingQueue: config.PendingQueueConfig{DefaultLimit: 50, MaxLimit: 200},
		Bulk:         config.BulkConfig{MaxItems: 10, Concurrency: 4},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.OpenInMemory(context.Background(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	workflowDAO := dao.NewWorkflowDAO(db)
	campaignDAO := dao.NewCampaignDAO(db)
	clock := newFakeClock()

	return &testEnv{
		DB:    db,
		Clock: clock,
		Workflows: NewWorkflowService(workflowDAO, dao.NewStageAuditDAO(db), campaignDAO, db, testWorkflowConfig(), logger).
			WithClock(clock.Now),
		Campaigns: NewCampaignService(campaignDAO, workflowDAO, db, config.CampaignConfig{SlugMaxAttempts: 3}, logger).
			WithClock(clock.Now),
	}
}

func (e *testEnv) createCampaign(t *testing.T, name string, elderReview bool) *models.Campaign {
	t.Helper()
	c, err := e.Campaigns.Create(context.Background(), coordinator, &models.CreateCampaignRequest{
		Name:                name,
		RequiresElderReview: boolPtr(elderReview),
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) invite(t *testing.T, storyteller string, campaignID *string) *models.CampaignWorkflow {
	t.Helper()
	w, err := e.Workflows.TrackInvitation(context.Background(), coordinator, &models.TrackInvitationRequest{
		StorytellerID:    storyteller,
		CampaignID:       campaignID,
		InvitationMethod: "email",
	})
	require.NoError(t, err)
	return w
}

func (e *testEnv) advance(t *testing.T, workflowID string, stages ...models.Stage) *models.CampaignWorkflow {
	t.Helper()
	var w *models.CampaignWorkflow
	for _, stage := range stages {
		var err error
		w, err = e.Workflows.AdvanceStage(context.Background(), coordinator, workflowID, &models.AdvanceStageRequest{Stage: string(stage)})
		require.NoError(t, err, "advance to %s", stage)
	}
	return w
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(v int) *int {
	return &v
}
