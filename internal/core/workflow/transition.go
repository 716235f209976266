package workflow

import (
	"strings"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// ElderApprovedNote is the note recorded with the automatic move to reviewed
const ElderApprovedNote = "Elder review approved"

// TransitionInput describes a requested stage change
type TransitionInput struct {
	To             models.Stage
	Actor          models.Actor
	Now            int64
	Notes          *string
	Reason         *string
	ConsentFormURL *string
}

// NextStageTime returns the stage change timestamp for a transition at now.
// The result is always strictly after prev.
func NextStageTime(prev, now int64) int64 {
	if now <= prev {
		return prev + 1
	}
	return now
}

// AppendNote appends note to existing on a new line without overwriting it
func AppendNote(existing *string, note *string) *string {
	if note == nil || strings.TrimSpace(*note) == "" {
		return existing
	}
	if existing == nil || *existing == "" {
		out := *note
		return &out
	}
	out := *existing + "\n" + *note
	return &out
}

// Apply validates and applies a transition, returning the new record.
// The input record is not modified; on error it is returned as is.
func Apply(w models.CampaignWorkflow, in TransitionInput) (models.CampaignWorkflow, error) {
	guard := CanAdvance(TransitionContext{
		WorkflowID:          w.ID,
		From:                w.Stage,
		To:                  in.To,
		ElderReviewRequired: w.ElderReviewRequired,
		ElderReviewedAt:     w.ElderReviewedAt,
		ElderApproved:       w.ElderApproved,
		Reason:              in.Reason,
	})
	if !guard.Allowed {
		return w, guard.Error()
	}

	next := w
	from := w.Stage
	next.PreviousStage = &from
	next.Stage = in.To
	next.StageChangedAt = NextStageTime(w.StageChangedAt, in.Now)
	next.UpdatedTime = next.StageChangedAt
	next.Notes = AppendNote(w.Notes, in.Notes)

	at := next.StageChangedAt
	switch in.To {
	case models.StageInterested:
		if next.FirstResponseAt == nil {
			next.FirstResponseAt = int64Ptr(at)
		}
	case models.StageConsented:
		if next.FirstResponseAt == nil {
			next.FirstResponseAt = int64Ptr(at)
		}
		next.ConsentGrantedAt = int64Ptr(at)
		if in.ConsentFormURL != nil {
			url := *in.ConsentFormURL
			next.ConsentFormURL = &url
		}
		next.ConsentVerifiedBy = in.Actor.UserRef()
	case models.StageRecorded:
		next.StoryRecordedAt = int64Ptr(at)
	case models.StageReviewed:
		next.ReviewedAt = int64Ptr(at)
		next.ReviewedBy = in.Actor.UserRef()
	case models.StagePublished:
		next.PublishedAt = int64Ptr(at)
	case models.StageWithdrawn:
		reason := strings.TrimSpace(*in.Reason)
		next.WithdrawnAt = int64Ptr(at)
		next.WithdrawalReason = &reason
		next.WithdrawalHandledBy = in.Actor.UserRef()
	}

	return next, nil
}

// ElderReviewInput describes an Elder review decision
type ElderReviewInput struct {
	Approved bool
	Actor    models.Actor
	Now      int64
	Notes    *string
}

// ElderReviewNote formats the note appended for an Elder review decision
func ElderReviewNote(approved bool, notes *string) string {
	verdict := "Requires Changes"
	if approved {
		verdict = "Approved"
	}
	note := "Elder Review: " + verdict
	if notes != nil && strings.TrimSpace(*notes) != "" {
		note += "\n" + *notes
	}
	return note
}

// ApplyElderReview stamps an Elder review and, when approved and the workflow is
// still before reviewed, moves it to reviewed. The returned bool reports whether
// the stage changed.
func ApplyElderReview(w models.CampaignWorkflow, in ElderReviewInput) (models.CampaignWorkflow, bool, error) {
	guard := CanRecordElderReview(ElderReviewContext{
		WorkflowID:          w.ID,
		Stage:               w.Stage,
		ElderReviewRequired: w.ElderReviewRequired,
	})
	if !guard.Allowed {
		return w, false, guard.Error()
	}

	next := w
	approved := in.Approved
	next.ElderReviewedAt = int64Ptr(in.Now)
	next.ElderReviewedBy = in.Actor.UserRef()
	next.ElderApproved = &approved
	note := ElderReviewNote(in.Approved, in.Notes)
	next.Notes = AppendNote(w.Notes, &note)
	next.UpdatedTime = in.Now

	if !in.Approved || Rank(w.Stage) >= Rank(models.StageReviewed) {
		return next, false, nil
	}

	autoNote := ElderApprovedNote
	advanced, err := Apply(next, TransitionInput{
		To:    models.StageReviewed,
		Actor: in.Actor,
		Now:   in.Now,
		Notes: &autoNote,
	})
	if err != nil {
		return w, false, err
	}
	return advanced, true, nil
}

// ApplyWithdrawal forces a workflow to withdrawn
func ApplyWithdrawal(w models.CampaignWorkflow, reason string, actor models.Actor, now int64) (models.CampaignWorkflow, error) {
	return Apply(w, TransitionInput{
		To:     models.StageWithdrawn,
		Actor:  actor,
		Now:    now,
		Reason: &reason,
	})
}

func int64Ptr(v int64) *int64 {
	return &v
}
