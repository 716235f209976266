package campaign

import (
	"github.com/empathy-ledger/campaign-workflow-api/internal/core/workflow"
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// RollUp derives a campaign's live counts from its workflow rows.
// Participants are distinct storytellers currently between consented and published.
// Stories are linked stories on workflows that are not withdrawn.
func RollUp(workflows []models.CampaignWorkflow) models.CampaignCounts {
	participants := make(map[string]struct{})
	counts := models.CampaignCounts{WorkflowCount: len(workflows)}

	for _, w := range workflows {
		rank := workflow.Rank(w.Stage)
		if rank >= workflow.Rank(models.StageConsented) {
			participants[w.StorytellerID] = struct{}{}
		}
		if w.StoryID != nil && *w.StoryID != "" && w.Stage != models.StageWithdrawn {
			counts.StoryCount++
		}
	}

	counts.ParticipantCount = len(participants)
	return counts
}
