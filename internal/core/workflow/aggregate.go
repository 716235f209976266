package workflow

import (
	"math"
	"sort"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/pkg/utils"
)

// Percent returns round(numerator/denominator*100) clamped to [0, 100].
// A zero or negative denominator yields 0.
func Percent(numerator, denominator int) int {
	if denominator <= 0 || numerator <= 0 {
		return 0
	}
	p := int(math.Round(float64(numerator) / float64(denominator) * 100))
	if p > 100 {
		return 100
	}
	return p
}

// Summarize counts workflows per stage
func Summarize(workflows []models.CampaignWorkflow) models.WorkflowSummary {
	var s models.WorkflowSummary
	for _, w := range workflows {
		s.Total++
		switch w.Stage {
		case models.StageInvited:
			s.Invited++
		case models.StageInterested:
			s.Interested++
		case models.StageConsented:
			s.Consented++
		case models.StageRecorded:
			s.Recorded++
		case models.StageReviewed:
			s.Reviewed++
		case models.StagePublished:
			s.Published++
		case models.StageWithdrawn:
			s.Withdrawn++
		}
		if w.ElderReviewRequired && w.ElderReviewedAt == nil {
			s.PendingElderReview++
		}
		if w.FollowUpRequired {
			s.FollowUpsNeeded++
		}
	}
	s.ConversionRate = Percent(s.Published, s.Total)
	return s
}

// FurthestRank returns the furthest pipeline position a workflow has reached.
// Withdrawn workflows keep credit for the stages they passed, derived from the
// previous stage and the milestone timestamps.
func FurthestRank(w models.CampaignWorkflow) int {
	furthest := 0
	if r := Rank(w.Stage); r > furthest {
		furthest = r
	}
	if w.PreviousStage != nil {
		if r := Rank(*w.PreviousStage); r > furthest {
			furthest = r
		}
	}
	milestones := []struct {
		at    *int64
		stage models.Stage
	}{
		{w.FirstResponseAt, models.StageInterested},
		{w.ConsentGrantedAt, models.StageConsented},
		{w.StoryRecordedAt, models.StageRecorded},
		{w.ReviewedAt, models.StageReviewed},
		{w.PublishedAt, models.StagePublished},
	}
	for _, m := range milestones {
		if m.at != nil {
			if r := Rank(m.stage); r > furthest {
				furthest = r
			}
		}
	}
	return furthest
}

// Funnel computes how many workflows reached at least each stage and the
// conversion between consecutive stages.
func Funnel(workflows []models.CampaignWorkflow) models.ConversionFunnel {
	reached := make([]int, len(pipeline))
	var f models.ConversionFunnel
	for _, w := range workflows {
		furthest := FurthestRank(w)
		for i := 0; i <= furthest; i++ {
			reached[i]++
		}
		if w.Stage == models.StageWithdrawn {
			f.Withdrawn++
		}
	}

	f.Invited = reached[Rank(models.StageInvited)]
	f.Interested = reached[Rank(models.StageInterested)]
	f.Consented = reached[Rank(models.StageConsented)]
	f.Recorded = reached[Rank(models.StageRecorded)]
	f.Reviewed = reached[Rank(models.StageReviewed)]
	f.Published = reached[Rank(models.StagePublished)]

	f.InvitedToInterested = Percent(f.Interested, f.Invited)
	f.InterestedToConsented = Percent(f.Consented, f.Interested)
	f.ConsentedToRecorded = Percent(f.Recorded, f.Consented)
	f.RecordedToPublished = Percent(f.Published, f.Recorded)
	f.OverallConversion = Percent(f.Published, f.Invited)
	return f
}

// DaysInStage returns whole days since the last stage change, never negative
func DaysInStage(w models.CampaignWorkflow, now int64) int {
	days := utils.WholeDaysBetween(w.StageChangedAt, now)
	if days < 0 {
		return 0
	}
	return days
}

// PendingQueue returns the workflows still moving through the pipeline, highest
// priority first. Ties are broken by days in stage, then by id. A limit of zero
// or less returns every item.
func PendingQueue(workflows []models.CampaignWorkflow, now int64, limit int, scorer Scorer) []models.PendingConsentItem {
	if scorer == nil {
		scorer = DefaultWeightedScorer()
	}

	items := make([]models.PendingConsentItem, 0, len(workflows))
	for _, w := range workflows {
		if IsTerminal(w.Stage) {
			continue
		}
		days := DaysInStage(w, now)
		items = append(items, models.PendingConsentItem{
			WorkflowID:          w.ID,
			CampaignID:          w.CampaignID,
			StorytellerID:       w.StorytellerID,
			Stage:               w.Stage,
			StageChangedAt:      w.StageChangedAt,
			DaysInStage:         days,
			ElderReviewRequired: w.ElderReviewRequired,
			FollowUpRequired:    w.FollowUpRequired,
			FollowUpDate:        w.FollowUpDate,
			PriorityScore:       scorer.Score(w, days, now),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PriorityScore != items[j].PriorityScore {
			return items[i].PriorityScore > items[j].PriorityScore
		}
		if items[i].DaysInStage != items[j].DaysInStage {
			return items[i].DaysInStage > items[j].DaysInStage
		}
		return items[i].WorkflowID < items[j].WorkflowID
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
