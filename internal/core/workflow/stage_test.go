package workflow

import (
	"testing"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.Stage
		wantErr bool
	}{
		{raw: "invited", want: models.StageInvited},
		{raw: " Consented ", want: models.StageConsented},
		{raw: "WITHDRAWN", want: models.StageWithdrawn},
		{raw: "archived", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseStage(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStage(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStage(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	for i, s := range Pipeline() {
		if Rank(s) != i {
			t.Errorf("Rank(%s) = %d, want %d", s, Rank(s), i)
		}
	}
	if Rank(models.StageWithdrawn) != -1 {
		t.Errorf("Rank(withdrawn) = %d, want -1", Rank(models.StageWithdrawn))
	}
	if Rank("unknown") != -1 {
		t.Errorf("Rank(unknown) = %d, want -1", Rank("unknown"))
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.Stage
		to   models.Stage
		want bool
	}{
		{name: "forward one step", from: models.StageInvited, to: models.StageInterested, want: true},
		{name: "forward skip", from: models.StageInvited, to: models.StageRecorded, want: true},
		{name: "backwards", from: models.StageRecorded, to: models.StageConsented, want: true},
		{name: "withdraw from invited", from: models.StageInvited, to: models.StageWithdrawn, want: true},
		{name: "withdraw from published", from: models.StagePublished, to: models.StageWithdrawn, want: true},
		{name: "same stage", from: models.StageConsented, to: models.StageConsented, want: false},
		{name: "leave published", from: models.StagePublished, to: models.StageReviewed, want: false},
		{name: "leave withdrawn", from: models.StageWithdrawn, to: models.StageInvited, want: false},
		{name: "withdrawn to withdrawn", from: models.StageWithdrawn, to: models.StageWithdrawn, want: false},
		{name: "unknown target", from: models.StageInvited, to: "archived", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanTransition_NothingLeavesWithdrawn(t *testing.T) {
	for _, to := range AllStages() {
		if CanTransition(models.StageWithdrawn, to) {
			t.Errorf("CanTransition(withdrawn, %s) = true", to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range AllStages() {
		want := s == models.StagePublished || s == models.StageWithdrawn
		if IsTerminal(s) != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, IsTerminal(s), want)
		}
	}
}
