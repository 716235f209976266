package workflow

import (
	"fmt"
	"strings"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
)

// GuardKind classifies why a guard refused
type GuardKind int

const (
	GuardOK GuardKind = iota
	GuardInvalidTransition
	GuardValidation
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    GuardKind
	Reason  string
}

// Error converts the guard result to a service error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Kind == GuardValidation {
		return serviceerror.Validation("%s", r.Reason)
	}
	return serviceerror.InvalidTransition("%s", r.Reason)
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func refuse(kind GuardKind, format string, args ...interface{}) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// TransitionContext provides context for stage transition guards.
type TransitionContext struct {
	WorkflowID          string
	From                models.Stage
	To                  models.Stage
	ElderReviewRequired bool
	ElderReviewedAt     *int64
	ElderApproved       *bool
	Reason              *string
}

// CanAdvance evaluates whether a workflow may move to ctx.To.
// Rules:
// - the pair must be allowed by CanTransition
// - entering published with elder review required needs an approving Elder review
// - entering withdrawn needs a reason
func CanAdvance(ctx TransitionContext) GuardResult {
	if !IsValid(ctx.To) {
		return refuse(GuardValidation, "unknown stage %q", ctx.To)
	}
	if !CanTransition(ctx.From, ctx.To) {
		switch {
		case ctx.From == models.StageWithdrawn:
			return refuse(GuardInvalidTransition, "workflow %s is withdrawn and cannot change stage", ctx.WorkflowID)
		case ctx.From == ctx.To:
			return refuse(GuardInvalidTransition, "workflow %s is already %s", ctx.WorkflowID, ctx.To)
		default:
			return refuse(GuardInvalidTransition, "workflow %s cannot move from %s to %s", ctx.WorkflowID, ctx.From, ctx.To)
		}
	}

	if ctx.To == models.StagePublished && ctx.ElderReviewRequired {
		if ctx.ElderReviewedAt == nil {
			return refuse(GuardInvalidTransition, "workflow %s requires Elder review before publishing", ctx.WorkflowID)
		}
		if ctx.ElderApproved == nil || !*ctx.ElderApproved {
			return refuse(GuardInvalidTransition, "workflow %s has not been approved by Elder review", ctx.WorkflowID)
		}
	}

	if ctx.To == models.StageWithdrawn && (ctx.Reason == nil || strings.TrimSpace(*ctx.Reason) == "") {
		return refuse(GuardValidation, "a withdrawal reason is required")
	}

	return allow()
}

// ElderReviewContext provides context for Elder review guards.
type ElderReviewContext struct {
	WorkflowID          string
	Stage               models.Stage
	ElderReviewRequired bool
}

// CanRecordElderReview evaluates whether an Elder review may be recorded.
// Rules:
// - the workflow must require Elder review
// - the workflow must not be withdrawn
func CanRecordElderReview(ctx ElderReviewContext) GuardResult {
	if ctx.Stage == models.StageWithdrawn {
		return refuse(GuardInvalidTransition, "workflow %s is withdrawn and cannot be reviewed", ctx.WorkflowID)
	}
	if !ctx.ElderReviewRequired {
		return refuse(GuardValidation, "workflow %s does not require Elder review", ctx.WorkflowID)
	}
	return allow()
}
