// Package workflow contains the pure stage logic of campaign consent workflows.
// Nothing in this package performs I/O.
package workflow

import (
	"fmt"
	"strings"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// pipeline is the forward order of the consent pipeline. Withdrawn sits outside it.
var pipeline = []models.Stage{
	models.StageInvited,
	models.StageInterested,
	models.StageConsented,
	models.StageRecorded,
	models.StageReviewed,
	models.StagePublished,
}

// Pipeline returns the forward stages in order
func Pipeline() []models.Stage {
	out := make([]models.Stage, len(pipeline))
	copy(out, pipeline)
	return out
}

// AllStages returns every stage, pipeline first and withdrawn last
func AllStages() []models.Stage {
	return append(Pipeline(), models.StageWithdrawn)
}

// IsValid reports whether s is a known stage
func IsValid(s models.Stage) bool {
	return s == models.StageWithdrawn || Rank(s) >= 0
}

// ParseStage converts user input into a Stage
func ParseStage(raw string) (models.Stage, error) {
	s := models.Stage(strings.ToLower(strings.TrimSpace(raw)))
	if !IsValid(s) {
		return "", fmt.Errorf("unknown stage %q", raw)
	}
	return s, nil
}

// Rank returns the pipeline position of s, or -1 for withdrawn and unknown stages
func Rank(s models.Stage) int {
	for i, p := range pipeline {
		if p == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether s ends the pipeline. Published workflows can still be withdrawn.
func IsTerminal(s models.Stage) bool {
	return s == models.StagePublished || s == models.StageWithdrawn
}

// CanTransition is the single transition table consulted by every mutating operation.
// Rules:
// - nothing leaves withdrawn
// - moving to the current stage is rejected
// - published may only move to withdrawn
// - any other pair of known stages is allowed, including skips and moves backwards
func CanTransition(from, to models.Stage) bool {
	if !IsValid(from) || !IsValid(to) {
		return false
	}
	if from == to {
		return false
	}
	switch from {
	case models.StageWithdrawn:
		return false
	case models.StagePublished:
		return to == models.StageWithdrawn
	}
	return true
}
