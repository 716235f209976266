package workflow

import (
	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// Scorer assigns a priority to a pending workflow. Higher scores are surfaced first.
type Scorer interface {
	Score(w models.CampaignWorkflow, daysInStage int, now int64) float64
}

// ScorerFunc adapts a function to the Scorer interface
type ScorerFunc func(w models.CampaignWorkflow, daysInStage int, now int64) float64

// Score calls f
func (f ScorerFunc) Score(w models.CampaignWorkflow, daysInStage int, now int64) float64 {
	return f(w, daysInStage, now)
}

// WeightedScorer adds a per-stage weight, a weight per day spent in the stage,
// and bonuses for outstanding Elder reviews and follow ups that are due.
type WeightedScorer struct {
	StageWeights       map[models.Stage]float64
	PerDayWeight       float64
	MaxDays            int
	ElderPendingWeight float64
	FollowUpDueWeight  float64
}

// DefaultStageWeights favours workflows closer to consent completion
func DefaultStageWeights() map[models.Stage]float64 {
	return map[models.Stage]float64{
		models.StageInvited:    10,
		models.StageInterested: 30,
		models.StageConsented:  40,
		models.StageRecorded:   50,
		models.StageReviewed:   60,
	}
}

// DefaultWeightedScorer returns the scorer used when none is configured
func DefaultWeightedScorer() WeightedScorer {
	return WeightedScorer{
		StageWeights:       DefaultStageWeights(),
		PerDayWeight:       1,
		MaxDays:            90,
		ElderPendingWeight: 15,
		FollowUpDueWeight:  25,
	}
}

// Score implements Scorer
func (s WeightedScorer) Score(w models.CampaignWorkflow, daysInStage int, now int64) float64 {
	score := s.StageWeights[w.Stage]

	days := daysInStage
	if s.MaxDays > 0 && days > s.MaxDays {
		days = s.MaxDays
	}
	score += s.PerDayWeight * float64(days)

	if w.ElderReviewRequired && w.ElderReviewedAt == nil {
		score += s.ElderPendingWeight
	}
	if w.FollowUpRequired && w.FollowUpDate != nil && *w.FollowUpDate <= now {
		score += s.FollowUpDueWeight
	}
	return score
}
