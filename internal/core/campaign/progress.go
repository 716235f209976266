package campaign

import (
	"math"

	"github.com/empathy-ledger/campaign-workflow-api/internal/core/workflow"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

// progressAgainst returns round(count/target*100), or nil when no target is set.
// Progress may exceed 100 once a target is passed.
func progressAgainst(count int, target *int) *int {
	if target == nil || *target <= 0 {
		return nil
	}
	p := int(math.Round(float64(count) / float64(*target) * 100))
	return &p
}

// Progress reports a campaign's progress against its targets at now
func Progress(c models.Campaign, now int64) models.CampaignProgress {
	p := models.CampaignProgress{
		CampaignID:          c.ID,
		StorytellerProgress: progressAgainst(c.ParticipantCount, c.StorytellerTarget),
		StoryProgress:       progressAgainst(c.StoryCount, c.StoryTarget),
		WorkflowProgress:    progressAgainst(c.WorkflowCount, c.StorytellerTarget),
	}

	if c.StartDate != nil {
		elapsed := utils.WholeDaysBetween(*c.StartDate, now)
		p.DaysElapsed = &elapsed
	}
	if c.EndDate != nil {
		remaining := utils.WholeDaysBetween(now, *c.EndDate)
		p.DaysRemaining = &remaining
	}

	var sum, n int
	for _, score := range []*int{p.StorytellerProgress, p.StoryProgress} {
		if score != nil {
			sum += *score
			n++
		}
	}
	if n > 0 {
		p.CompletionPercentage = int(math.Round(float64(sum) / float64(n)))
	}
	return p
}

// Statistics aggregates workflow statistics for a campaign
func Statistics(c models.Campaign, workflows []models.CampaignWorkflow) models.CampaignStatistics {
	s := models.CampaignStatistics{
		CampaignID:        c.ID,
		TotalWorkflows:    len(workflows),
		TotalStories:      c.StoryCount,
		TotalParticipants: c.ParticipantCount,
	}

	var publishedDays, publishedN int
	for _, w := range workflows {
		switch w.Stage {
		case models.StagePublished:
			s.PublishedStories++
		case models.StageRecorded, models.StageReviewed:
			s.PendingReview++
		}
		if w.PublishedAt != nil {
			publishedDays += utils.WholeDaysBetween(w.CreatedTime, *w.PublishedAt)
			publishedN++
		}
	}

	s.ConversionRate = workflow.Percent(s.PublishedStories, s.TotalWorkflows)
	if publishedN > 0 {
		avg := int(math.Round(float64(publishedDays) / float64(publishedN)))
		s.AvgDaysToPublish = &avg
	}
	return s
}
