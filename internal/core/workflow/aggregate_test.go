package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

func workflowAt(id string, stage models.Stage, changedAt int64) models.CampaignWorkflow {
	w := newWorkflow(stage)
	w.ID = id
	w.StageChangedAt = changedAt
	return w
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(3, 3))
	assert.Equal(t, 100, Percent(7, 3))
	assert.Equal(t, 0, Percent(-1, 3))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, models.WorkflowSummary{}, s)
}

func TestSummarize_CountsSumToTotal(t *testing.T) {
	reviewedAt := t0
	var ws []models.CampaignWorkflow
	for i, stage := range AllStages() {
		for n := 0; n <= i; n++ {
			ws = append(ws, workflowAt("wf", stage, t0))
		}
	}
	ws[0].ElderReviewRequired = true
	ws[1].ElderReviewRequired = true
	ws[1].ElderReviewedAt = &reviewedAt
	ws[2].FollowUpRequired = true

	s := Summarize(ws)

	sum := s.Invited + s.Interested + s.Consented + s.Recorded + s.Reviewed + s.Published + s.Withdrawn
	assert.Equal(t, s.Total, sum)
	assert.Equal(t, len(ws), s.Total)
	assert.Equal(t, 6, s.Published)
	assert.Equal(t, 7, s.Withdrawn)
	assert.Equal(t, Percent(6, len(ws)), s.ConversionRate)
	assert.Equal(t, 1, s.PendingElderReview)
	assert.Equal(t, 1, s.FollowUpsNeeded)
}

func TestFurthestRank(t *testing.T) {
	consentedAt := t0
	withdrawn := workflowAt("wf-w", models.StageWithdrawn, t0)
	assert.Equal(t, Rank(models.StageInvited), FurthestRank(withdrawn))

	prev := models.StageRecorded
	withdrawn.PreviousStage = &prev
	assert.Equal(t, Rank(models.StageRecorded), FurthestRank(withdrawn))

	skipped := workflowAt("wf-s", models.StageInvited, t0)
	skipped.ConsentGrantedAt = &consentedAt
	assert.Equal(t, Rank(models.StageConsented), FurthestRank(skipped))
}

func TestFunnel_ZeroDenominators(t *testing.T) {
	f := Funnel(nil)
	assert.Equal(t, models.ConversionFunnel{}, f)

	f = Funnel([]models.CampaignWorkflow{workflowAt("wf-1", models.StageInvited, t0)})
	assert.Equal(t, 1, f.Invited)
	assert.Equal(t, 0, f.InvitedToInterested)
	assert.Equal(t, 0, f.InterestedToConsented)
	assert.Equal(t, 0, f.ConsentedToRecorded)
	assert.Equal(t, 0, f.RecordedToPublished)
	assert.Equal(t, 0, f.OverallConversion)
}

func TestFunnel_ReachCounts(t *testing.T) {
	prevConsented := models.StageConsented
	withdrawn := workflowAt("wf-5", models.StageWithdrawn, t0)
	withdrawn.PreviousStage = &prevConsented

	ws := []models.CampaignWorkflow{
		workflowAt("wf-1", models.StageInvited, t0),
		workflowAt("wf-2", models.StageInterested, t0),
		workflowAt("wf-3", models.StageConsented, t0),
		workflowAt("wf-4", models.StagePublished, t0),
		withdrawn,
	}

	f := Funnel(ws)
	assert.Equal(t, 5, f.Invited)
	assert.Equal(t, 4, f.Interested)
	assert.Equal(t, 3, f.Consented)
	assert.Equal(t, 1, f.Recorded)
	assert.Equal(t, 1, f.Reviewed)
	assert.Equal(t, 1, f.Published)
	assert.Equal(t, 1, f.Withdrawn)

	assert.Equal(t, 80, f.InvitedToInterested)
	assert.Equal(t, 75, f.InterestedToConsented)
	assert.Equal(t, 33, f.ConsentedToRecorded)
	assert.Equal(t, 100, f.RecordedToPublished)
	assert.Equal(t, 20, f.OverallConversion)

	for _, p := range []int{f.InvitedToInterested, f.InterestedToConsented, f.ConsentedToRecorded, f.RecordedToPublished, f.OverallConversion} {
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
	}
}

func TestPendingQueue_ExcludesTerminalAndOrders(t *testing.T) {
	now := t0 + 30*utils.MillisPerDay

	ws := []models.CampaignWorkflow{
		workflowAt("wf-invited-old", models.StageInvited, t0),                         // 30 days
		workflowAt("wf-recorded-new", models.StageRecorded, now-utils.MillisPerDay/2), // 0 days
		workflowAt("wf-published", models.StagePublished, t0),                         // excluded
		workflowAt("wf-withdrawn", models.StageWithdrawn, t0),                         // excluded
		workflowAt("wf-consented", models.StageConsented, now-5*utils.MillisPerDay-1), // 5 days
	}

	items := PendingQueue(ws, now, 0, DefaultWeightedScorer())
	require.Len(t, items, 3)

	ids := []string{items[0].WorkflowID, items[1].WorkflowID, items[2].WorkflowID}
	// invited: 10 + 30 = 40, recorded: 50 + 0 = 50, consented: 40 + 5 = 45
	assert.Equal(t, []string{"wf-recorded-new", "wf-consented", "wf-invited-old"}, ids)
	assert.Equal(t, 0, items[0].DaysInStage)
	assert.Equal(t, 5, items[1].DaysInStage)
	assert.Equal(t, 30, items[2].DaysInStage)
	assert.Equal(t, 50.0, items[0].PriorityScore)
}

func TestPendingQueue_TieBreaksAndLimit(t *testing.T) {
	flat := ScorerFunc(func(models.CampaignWorkflow, int, int64) float64 { return 1 })
	now := t0 + 10*utils.MillisPerDay

	ws := []models.CampaignWorkflow{
		workflowAt("wf-b", models.StageInvited, t0+5*utils.MillisPerDay),
		workflowAt("wf-a", models.StageInvited, t0+5*utils.MillisPerDay),
		workflowAt("wf-c", models.StageInvited, t0),
	}

	items := PendingQueue(ws, now, 2, flat)
	require.Len(t, items, 2)
	assert.Equal(t, "wf-c", items[0].WorkflowID, "longest in stage first")
	assert.Equal(t, "wf-a", items[1].WorkflowID, "then by id")
}

func TestPendingQueue_NilScorerUsesDefault(t *testing.T) {
	items := PendingQueue([]models.CampaignWorkflow{workflowAt("wf-1", models.StageInvited, t0)}, t0, 10, nil)
	require.Len(t, items, 1)
	assert.Equal(t, 10.0, items[0].PriorityScore)
}

func TestWeightedScorer(t *testing.T) {
	due := t0 - 1
	later := t0 + utils.MillisPerDay
	scorer := DefaultWeightedScorer()

	w := workflowAt("wf-1", models.StageInterested, t0)
	assert.Equal(t, 30.0, scorer.Score(w, 0, t0))
	assert.Equal(t, 120.0, scorer.Score(w, 400, t0), "days are capped")

	w.ElderReviewRequired = true
	assert.Equal(t, 45.0, scorer.Score(w, 0, t0))

	w.FollowUpRequired = true
	w.FollowUpDate = &later
	assert.Equal(t, 45.0, scorer.Score(w, 0, t0), "follow up not yet due")

	w.FollowUpDate = &due
	assert.Equal(t, 70.0, scorer.Score(w, 0, t0))
}

func TestDaysInStage_NeverNegative(t *testing.T) {
	w := workflowAt("wf-1", models.StageInvited, t0+utils.MillisPerDay)
	assert.Equal(t, 0, DaysInStage(w, t0))
}
