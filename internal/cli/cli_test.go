package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empathy-ledger/campaign-workflow-api/internal/config"
	"github.com/empathy-ledger/campaign-workflow-api/internal/database"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

const tenant = "tenant-1"

var operator = models.Actor{TenantID: tenant, UserID: "operator-1", Role: "coordinator"}

func init() {
	color.NoColor = true
}

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.OpenInMemory(context.Background(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Workflow: config.WorkflowConfig{
			PendingQueue: config.PendingQueueConfig{DefaultLimit: 50, MaxLimit: 200},
			Bulk:         config.BulkConfig{MaxItems: 10, Concurrency: 2},
		},
		Campaign: config.CampaignConfig{SlugMaxAttempts: 3},
	}
	return NewEnv(cfg, db, logger)
}

func execute(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(func(ctx context.Context, configPath string) (*Env, error) {
		return env, nil
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seed(t *testing.T, env *Env) (*models.Campaign, *models.CampaignWorkflow) {
	t.Helper()
	ctx := context.Background()
	target := 2
	c, err := env.Campaigns.Create(ctx, operator, &models.CreateCampaignRequest{Name: "Harbour Voices", StorytellerTarget: &target})
	require.NoError(t, err)
	w, err := env.Workflows.TrackInvitation(ctx, operator, &models.TrackInvitationRequest{
		StorytellerID:    "storyteller-1",
		CampaignID:       &c.ID,
		InvitationMethod: "phone",
	})
	require.NoError(t, err)
	return c, w
}

func TestMigrate_UpToDate(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute(t, env, "migrate")

	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date")
}

func TestCommandsRequireTenant(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{
		{"summary"},
		{"queue"},
		{"funnel"},
		{"progress", "c-1"},
		{"advance", "w-1", "consented"},
	} {
		_, err := execute(t, env, args...)
		assert.EqualError(t, err, "--tenant is required", args[0])
	}
}

func TestAdvance(t *testing.T) {
	env := newTestEnv(t)
	_, w := seed(t, env)

	out, err := execute(t, env, "advance", w.ID, "consented", "--tenant", tenant, "--notes", "signed at the hall")
	require.NoError(t, err)
	assert.Contains(t, out, "ADVANCED "+w.ID+": invited -> consented")

	stored, err := env.Workflows.GetWorkflow(context.Background(), tenant, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageConsented, stored.Stage)
	require.NotNil(t, stored.ConsentGrantedAt)

	_, err = execute(t, env, "advance", w.ID, "withdrawn", "--tenant", tenant)
	assert.Error(t, err, "withdrawal without a reason is rejected")

	_, err = execute(t, env, "advance", w.ID, "consented", "--tenant", "tenant-2")
	assert.ErrorContains(t, err, "not found")
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)
	c, w := seed(t, env)

	summary, err := execute(t, env, "summary", "--tenant", tenant)
	require.NoError(t, err)
	assert.Regexp(t, `invited\s+1`, summary)
	assert.Regexp(t, `total\s+1`, summary)
	assert.Contains(t, summary, "Conversion rate:      0%")

	queue, err := execute(t, env, "queue", "--tenant", tenant, "--campaign", c.ID)
	require.NoError(t, err)
	assert.Contains(t, queue, "SCORE")
	assert.Contains(t, queue, w.ID)
	assert.Contains(t, queue, "storyteller-1")

	empty, err := execute(t, env, "queue", "--tenant", "tenant-2")
	require.NoError(t, err)
	assert.Contains(t, empty, "No pending consents")

	funnel, err := execute(t, env, "funnel", "--tenant", tenant)
	require.NoError(t, err)
	assert.Regexp(t, `invited\s+1`, funnel)
	assert.Contains(t, funnel, "Overall conversion: 0%")

	progress, err := execute(t, env, "progress", c.ID, "--tenant", tenant)
	require.NoError(t, err)
	assert.Regexp(t, `storytellers\s+0%`, progress)
	assert.Regexp(t, `stories\s+-`, progress)

	_, err = execute(t, env, "progress", "missing", "--tenant", tenant)
	assert.ErrorContains(t, err, "not found")
}
