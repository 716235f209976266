package workflow

import (
	"testing"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
)

func TestCanAdvance(t *testing.T) {
	reviewedAt := int64(1000)
	approved := true
	rejected := false
	reason := "moved away"
	blank := "   "

	tests := []struct {
		name        string
		ctx         TransitionContext
		wantAllowed bool
		wantKind    GuardKind
		wantReason  string
	}{
		{
			name:        "can record from consented",
			ctx:         TransitionContext{WorkflowID: "WF-1", From: models.StageConsented, To: models.StageRecorded},
			wantAllowed: true,
		},
		{
			name:       "cannot advance withdrawn workflow",
			ctx:        TransitionContext{WorkflowID: "WF-1", From: models.StageWithdrawn, To: models.StageConsented},
			wantKind:   GuardInvalidTransition,
			wantReason: "workflow WF-1 is withdrawn and cannot change stage",
		},
		{
			name:       "cannot move to the current stage",
			ctx:        TransitionContext{WorkflowID: "WF-1", From: models.StageRecorded, To: models.StageRecorded},
			wantKind:   GuardInvalidTransition,
			wantReason: "workflow WF-1 is already recorded",
		},
		{
			name:       "cannot leave published except to withdraw",
			ctx:        TransitionContext{WorkflowID: "WF-1", From: models.StagePublished, To: models.StageRecorded},
			wantKind:   GuardInvalidTransition,
			wantReason: "workflow WF-1 cannot move from published to recorded",
		},
		{
			name:       "unknown target stage",
			ctx:        TransitionContext{WorkflowID: "WF-1", From: models.StageInvited, To: "archived"},
			wantKind:   GuardValidation,
			wantReason: `unknown stage "archived"`,
		},
		{
			name: "cannot publish without Elder review",
			ctx: TransitionContext{
				WorkflowID: "WF-2", From: models.StageRecorded, To: models.StagePublished,
				ElderReviewRequired: true,
			},
			wantKind:   GuardInvalidTransition,
			wantReason: "workflow WF-2 requires Elder review before publishing",
		},
		{
			name: "cannot publish after Elder review requested changes",
			ctx: TransitionContext{
				WorkflowID: "WF-2", From: models.StageRecorded, To: models.StagePublished,
				ElderReviewRequired: true, ElderReviewedAt: &reviewedAt, ElderApproved: &rejected,
			},
			wantKind:   GuardInvalidTransition,
			wantReason: "workflow WF-2 has not been approved by Elder review",
		},
		{
			name: "can publish after Elder approval",
			ctx: TransitionContext{
				WorkflowID: "WF-2", From: models.StageReviewed, To: models.StagePublished,
				ElderReviewRequired: true, ElderReviewedAt: &reviewedAt, ElderApproved: &approved,
			},
			wantAllowed: true,
		},
		{
			name:        "can publish when Elder review not required",
			ctx:         TransitionContext{WorkflowID: "WF-3", From: models.StageRecorded, To: models.StagePublished},
			wantAllowed: true,
		},
		{
			name:       "withdrawal needs a reason",
			ctx:        TransitionContext{WorkflowID: "WF-4", From: models.StageInterested, To: models.StageWithdrawn},
			wantKind:   GuardValidation,
			wantReason: "a withdrawal reason is required",
		},
		{
			name:       "withdrawal rejects a blank reason",
			ctx:        TransitionContext{WorkflowID: "WF-4", From: models.StageInterested, To: models.StageWithdrawn, Reason: &blank},
			wantKind:   GuardValidation,
			wantReason: "a withdrawal reason is required",
		},
		{
			name:        "withdrawal with reason",
			ctx:         TransitionContext{WorkflowID: "WF-4", From: models.StageInterested, To: models.StageWithdrawn, Reason: &reason},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanAdvance(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Fatalf("Allowed = %v, want %v (reason %q)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if tt.wantAllowed {
				if result.Error() != nil {
					t.Errorf("Error() = %v, want nil", result.Error())
				}
				return
			}
			if result.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", result.Kind, tt.wantKind)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestGuardResult_ErrorKinds(t *testing.T) {
	invalid := GuardResult{Kind: GuardInvalidTransition, Reason: "nope"}
	if !serviceerror.IsKind(invalid.Error(), serviceerror.InvalidTransitionError) {
		t.Errorf("expected InvalidTransitionError, got %v", invalid.Error())
	}

	validation := GuardResult{Kind: GuardValidation, Reason: "missing"}
	if !serviceerror.IsKind(validation.Error(), serviceerror.ValidationError) {
		t.Errorf("expected ValidationError, got %v", validation.Error())
	}
}

func TestCanRecordElderReview(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ElderReviewContext
		wantAllowed bool
		wantKind    GuardKind
	}{
		{
			name:        "review required",
			ctx:         ElderReviewContext{WorkflowID: "WF-1", Stage: models.StageRecorded, ElderReviewRequired: true},
			wantAllowed: true,
		},
		{
			name:     "review not required",
			ctx:      ElderReviewContext{WorkflowID: "WF-1", Stage: models.StageRecorded},
			wantKind: GuardValidation,
		},
		{
			name:     "withdrawn wins over not required",
			ctx:      ElderReviewContext{WorkflowID: "WF-1", Stage: models.StageWithdrawn},
			wantKind: GuardInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanRecordElderReview(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Fatalf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", result.Kind, tt.wantKind)
			}
		})
	}
}
