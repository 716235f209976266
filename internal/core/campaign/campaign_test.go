package campaign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

const now = int64(1_760_000_000_000)

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Winter Stories 2026", want: "winter-stories-2026"},
		{name: "  --Elders' Voices!!  ", want: "elders-voices"},
		{name: "Café Montréal Tour", want: "cafe-montreal-tour"},
		{name: "A & B / C", want: "a-b-c"},
		{name: "!!!", want: FallbackSlug},
		{name: "", want: FallbackSlug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.name))
		})
	}
}

func TestSlugify_Length(t *testing.T) {
	slug := Slugify(strings.Repeat("story ", 40))
	assert.LessOrEqual(t, len(slug), MaxSlugLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestDisambiguate(t *testing.T) {
	assert.Equal(t, "tour", Disambiguate("tour", nil))
	assert.Equal(t, "tour-2", Disambiguate("tour", []string{"tour"}))
	assert.Equal(t, "tour-4", Disambiguate("tour", []string{"tour", "tour-2", "tour-3", "tour-10"}))
}

func TestRollUp(t *testing.T) {
	ws := []models.CampaignWorkflow{
		{StorytellerID: "S1", Stage: models.StageInvited},
		{StorytellerID: "S2", Stage: models.StageConsented},
		{StorytellerID: "S2", Stage: models.StageRecorded, StoryID: strPtr("story-1")},
		{StorytellerID: "S3", Stage: models.StagePublished, StoryID: strPtr("story-2")},
		{StorytellerID: "S4", Stage: models.StageWithdrawn, StoryID: strPtr("story-3")},
	}

	counts := RollUp(ws)
	assert.Equal(t, 5, counts.WorkflowCount)
	assert.Equal(t, 2, counts.ParticipantCount)
	assert.Equal(t, 2, counts.StoryCount)

	assert.Equal(t, models.CampaignCounts{}, RollUp(nil))
}

func TestProgress_StorytellerTarget(t *testing.T) {
	c := models.Campaign{ID: "c-1", StorytellerTarget: intPtr(10), ParticipantCount: 4, WorkflowCount: 7}

	p := Progress(c, now)
	require.NotNil(t, p.StorytellerProgress)
	assert.Equal(t, 40, *p.StorytellerProgress)
	require.NotNil(t, p.WorkflowProgress)
	assert.Equal(t, 70, *p.WorkflowProgress)
	assert.Nil(t, p.StoryProgress)
	assert.Equal(t, 40, p.CompletionPercentage)
}

func TestProgress_NoTargets(t *testing.T) {
	p := Progress(models.Campaign{ID: "c-1", ParticipantCount: 4}, now)
	assert.Nil(t, p.StorytellerProgress)
	assert.Nil(t, p.StoryProgress)
	assert.Nil(t, p.WorkflowProgress)
	assert.Nil(t, p.DaysElapsed)
	assert.Nil(t, p.DaysRemaining)
	assert.Equal(t, 0, p.CompletionPercentage)
}

func TestProgress_CompletionAveragesTargets(t *testing.T) {
	c := models.Campaign{
		StorytellerTarget: intPtr(10), ParticipantCount: 5,
		StoryTarget: intPtr(3), StoryCount: 2,
	}
	p := Progress(c, now)
	assert.Equal(t, 50, *p.StorytellerProgress)
	assert.Equal(t, 67, *p.StoryProgress)
	assert.Equal(t, 59, p.CompletionPercentage)
}

func TestProgress_Dates(t *testing.T) {
	start := now - 12*utils.MillisPerDay - 1000
	end := now + 3*utils.MillisPerDay + 1000
	p := Progress(models.Campaign{StartDate: &start, EndDate: &end}, now)

	require.NotNil(t, p.DaysElapsed)
	assert.Equal(t, 12, *p.DaysElapsed)
	require.NotNil(t, p.DaysRemaining)
	assert.Equal(t, 3, *p.DaysRemaining)

	past := now - utils.MillisPerDay/2
	p = Progress(models.Campaign{EndDate: &past}, now)
	assert.Equal(t, -1, *p.DaysRemaining)
	assert.Nil(t, p.DaysElapsed)
}

func TestStatistics(t *testing.T) {
	published1 := now + 10*utils.MillisPerDay + 5
	published2 := now + 3*utils.MillisPerDay
	c := models.Campaign{ID: "c-1", StoryCount: 2, ParticipantCount: 3}
	ws := []models.CampaignWorkflow{
		{Stage: models.StagePublished, CreatedTime: now, PublishedAt: &published1},
		{Stage: models.StagePublished, CreatedTime: now, PublishedAt: &published2},
		{Stage: models.StageRecorded, CreatedTime: now},
		{Stage: models.StageReviewed, CreatedTime: now},
		{Stage: models.StageInvited, CreatedTime: now},
	}

	s := Statistics(c, ws)
	assert.Equal(t, 5, s.TotalWorkflows)
	assert.Equal(t, 2, s.TotalStories)
	assert.Equal(t, 3, s.TotalParticipants)
	assert.Equal(t, 2, s.PublishedStories)
	assert.Equal(t, 2, s.PendingReview)
	assert.Equal(t, 40, s.ConversionRate)
	require.NotNil(t, s.AvgDaysToPublish)
	assert.Equal(t, 7, *s.AvgDaysToPublish)
}

func TestStatistics_Empty(t *testing.T) {
	s := Statistics(models.Campaign{ID: "c-1"}, nil)
	assert.Equal(t, 0, s.ConversionRate)
	assert.Nil(t, s.AvgDaysToPublish)
}
