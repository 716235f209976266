package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
)

const t0 = int64(1_760_000_000_000)

var coordinator = models.Actor{TenantID: "tenant-1", UserID: "user-7"}

func newWorkflow(stage models.Stage) models.CampaignWorkflow {
	return models.CampaignWorkflow{
		ID:             "wf-1",
		TenantID:       "tenant-1",
		StorytellerID:  "S1",
		Stage:          stage,
		StageChangedAt: t0,
		CreatedTime:    t0,
		UpdatedTime:    t0,
		Metadata:       models.JSONMap{},
	}
}

func strPtr(s string) *string {
	return &s
}

func TestNextStageTime(t *testing.T) {
	assert.Equal(t, t0+5000, NextStageTime(t0, t0+5000))
	assert.Equal(t, t0+1, NextStageTime(t0, t0))
	assert.Equal(t, t0+1, NextStageTime(t0, t0-3000))
}

func TestAppendNote(t *testing.T) {
	assert.Nil(t, AppendNote(nil, nil))
	assert.Equal(t, "first", *AppendNote(nil, strPtr("first")))
	assert.Equal(t, "first\nsecond", *AppendNote(strPtr("first"), strPtr("second")))

	existing := strPtr("kept")
	assert.Same(t, existing, AppendNote(existing, strPtr("  ")))
}

func TestApply_RecordsPreviousStageAndTime(t *testing.T) {
	w := newWorkflow(models.StageInvited)

	next, err := Apply(w, TransitionInput{To: models.StageInterested, Actor: coordinator, Now: t0 + 60_000, Notes: strPtr("called back")})
	require.NoError(t, err)

	assert.Equal(t, models.StageInterested, next.Stage)
	require.NotNil(t, next.PreviousStage)
	assert.Equal(t, models.StageInvited, *next.PreviousStage)
	assert.Equal(t, t0+60_000, next.StageChangedAt)
	assert.Equal(t, "called back", *next.Notes)
	require.NotNil(t, next.FirstResponseAt)
	assert.Equal(t, t0+60_000, *next.FirstResponseAt)

	// input is untouched
	assert.Equal(t, models.StageInvited, w.Stage)
	assert.Nil(t, w.PreviousStage)
}

func TestApply_StageChangedAtStrictlyIncreases(t *testing.T) {
	w := newWorkflow(models.StageInvited)

	next, err := Apply(w, TransitionInput{To: models.StageConsented, Actor: coordinator, Now: t0})
	require.NoError(t, err)
	assert.Greater(t, next.StageChangedAt, w.StageChangedAt)

	again, err := Apply(next, TransitionInput{To: models.StageRecorded, Actor: coordinator, Now: t0 - 10})
	require.NoError(t, err)
	assert.Greater(t, again.StageChangedAt, next.StageChangedAt)
}

func TestApply_ConsentedStampsConsent(t *testing.T) {
	w := newWorkflow(models.StageInterested)
	firstResponse := t0 - 1000
	w.FirstResponseAt = &firstResponse

	next, err := Apply(w, TransitionInput{
		To:             models.StageConsented,
		Actor:          coordinator,
		Now:            t0 + 1000,
		ConsentFormURL: strPtr("https://forms.example.org/c/1.pdf"),
	})
	require.NoError(t, err)

	require.NotNil(t, next.ConsentGrantedAt)
	assert.Equal(t, t0+1000, *next.ConsentGrantedAt)
	assert.Equal(t, "https://forms.example.org/c/1.pdf", *next.ConsentFormURL)
	assert.Equal(t, "user-7", *next.ConsentVerifiedBy)
	assert.Equal(t, firstResponse, *next.FirstResponseAt, "first response is kept")
}

func TestApply_MilestoneStamps(t *testing.T) {
	w := newWorkflow(models.StageConsented)

	recorded, err := Apply(w, TransitionInput{To: models.StageRecorded, Actor: coordinator, Now: t0 + 10})
	require.NoError(t, err)
	require.NotNil(t, recorded.StoryRecordedAt)

	reviewed, err := Apply(recorded, TransitionInput{To: models.StageReviewed, Actor: coordinator, Now: t0 + 20})
	require.NoError(t, err)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, "user-7", *reviewed.ReviewedBy)

	published, err := Apply(reviewed, TransitionInput{To: models.StagePublished, Actor: coordinator, Now: t0 + 30})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, t0+30, *published.PublishedAt)
}

func TestApply_WithdrawnIsTerminal(t *testing.T) {
	w := newWorkflow(models.StageInterested)

	withdrawn, err := ApplyWithdrawal(w, "no longer interested", coordinator, t0+100)
	require.NoError(t, err)
	assert.Equal(t, models.StageWithdrawn, withdrawn.Stage)
	assert.Equal(t, "no longer interested", *withdrawn.WithdrawalReason)
	assert.Equal(t, "user-7", *withdrawn.WithdrawalHandledBy)
	require.NotNil(t, withdrawn.WithdrawnAt)

	for _, to := range AllStages() {
		after, err := Apply(withdrawn, TransitionInput{To: to, Actor: coordinator, Now: t0 + 200, Reason: strPtr("again")})
		require.Error(t, err, "transition to %s", to)
		assert.True(t, serviceerror.IsKind(err, serviceerror.InvalidTransitionError))
		assert.Equal(t, withdrawn, after, "record is unchanged")
	}
}

func TestApply_PublishRequiresElderApproval(t *testing.T) {
	w := newWorkflow(models.StageRecorded)
	w.ElderReviewRequired = true

	_, err := Apply(w, TransitionInput{To: models.StagePublished, Actor: coordinator, Now: t0 + 10})
	require.Error(t, err)
	assert.True(t, serviceerror.IsKind(err, serviceerror.InvalidTransitionError))

	reviewed, advanced, err := ApplyElderReview(w, ElderReviewInput{Approved: true, Actor: coordinator, Now: t0 + 20})
	require.NoError(t, err)
	assert.True(t, advanced)

	published, err := Apply(reviewed, TransitionInput{To: models.StagePublished, Actor: coordinator, Now: t0 + 30})
	require.NoError(t, err)
	assert.Equal(t, models.StagePublished, published.Stage)
}

func TestApplyElderReview_Approved(t *testing.T) {
	w := newWorkflow(models.StageRecorded)
	w.ElderReviewRequired = true
	w.Notes = strPtr("recorded at the hall")

	next, advanced, err := ApplyElderReview(w, ElderReviewInput{Approved: true, Actor: coordinator, Now: t0 + 500, Notes: strPtr("culturally appropriate")})
	require.NoError(t, err)

	assert.True(t, advanced)
	assert.Equal(t, models.StageReviewed, next.Stage)
	assert.Equal(t, models.StageRecorded, *next.PreviousStage)
	require.NotNil(t, next.ElderReviewedAt)
	assert.Equal(t, t0+500, *next.ElderReviewedAt)
	assert.Equal(t, "user-7", *next.ElderReviewedBy)
	assert.True(t, *next.ElderApproved)
	assert.Equal(t, "recorded at the hall\nElder Review: Approved\nculturally appropriate\nElder review approved", *next.Notes)
}

func TestApplyElderReview_RequiresChanges(t *testing.T) {
	w := newWorkflow(models.StageRecorded)
	w.ElderReviewRequired = true

	next, advanced, err := ApplyElderReview(w, ElderReviewInput{Approved: false, Actor: coordinator, Now: t0 + 500})
	require.NoError(t, err)

	assert.False(t, advanced)
	assert.Equal(t, models.StageRecorded, next.Stage)
	assert.Equal(t, t0, next.StageChangedAt)
	require.NotNil(t, next.ElderReviewedAt)
	assert.False(t, *next.ElderApproved)
	assert.Equal(t, "Elder Review: Requires Changes", *next.Notes)
}

func TestApplyElderReview_AlreadyReviewedDoesNotMove(t *testing.T) {
	w := newWorkflow(models.StageReviewed)
	w.ElderReviewRequired = true

	next, advanced, err := ApplyElderReview(w, ElderReviewInput{Approved: true, Actor: coordinator, Now: t0 + 500})
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, models.StageReviewed, next.Stage)
	assert.True(t, *next.ElderApproved)
}

func TestApplyElderReview_Refusals(t *testing.T) {
	notRequired := newWorkflow(models.StageRecorded)
	_, _, err := ApplyElderReview(notRequired, ElderReviewInput{Approved: true, Actor: coordinator, Now: t0})
	assert.True(t, serviceerror.IsKind(err, serviceerror.ValidationError))

	withdrawn := newWorkflow(models.StageWithdrawn)
	withdrawn.ElderReviewRequired = true
	after, _, err := ApplyElderReview(withdrawn, ElderReviewInput{Approved: true, Actor: coordinator, Now: t0})
	assert.True(t, serviceerror.IsKind(err, serviceerror.InvalidTransitionError))
	assert.Equal(t, withdrawn, after)
}

func TestElderReviewNote(t *testing.T) {
	assert.Equal(t, "Elder Review: Approved", ElderReviewNote(true, nil))
	assert.Equal(t, "Elder Review: Requires Changes\nplease blur faces", ElderReviewNote(false, strPtr("please blur faces")))
}
