package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

// stageColor picks the display color of a stage
func stageColor(stage models.Stage) *color.Color {
	switch stage {
	case models.StagePublished:
		return color.New(color.FgGreen)
	case models.StageWithdrawn:
		return color.New(color.FgRed)
	case models.StageReviewed, models.StageRecorded:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgYellow)
	}
}

func summaryCmd(open Opener, opts *rootOptions) *cobra.Command {
	var campaignID string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show workflow counts per stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := opts.requireTenant()
			if err != nil {
				return err
			}
			return run(cmd, open, opts, func(ctx context.Context, env *Env) error {
				summary, err := env.Workflows.GetWorkflowSummary(ctx, tenantID, optional(campaignID))
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Restrict to one campaign")
	return cmd
}

func printSummary(out io.Writer, s *models.WorkflowSummary) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := []struct {
		stage models.Stage
		count int
	}{
		{models.StageInvited, s.Invited},
		{models.StageInterested, s.Interested},
		{models.StageConsented, s.Consented},
		{models.StageRecorded, s.Recorded},
		{models.StageReviewed, s.Reviewed},
		{models.StagePublished, s.Published},
		{models.StageWithdrawn, s.Withdrawn},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", stageColor(row.stage).Sprint(row.stage), row.count)
	}
	fmt.Fprintf(tw, "total\t%d\n", s.Total)
	_ = tw.Flush()

	fmt.Fprintf(out, "\nConversion rate:      %d%%\n", s.ConversionRate)
	fmt.Fprintf(out, "Pending Elder review: %d\n", s.PendingElderReview)
	fmt.Fprintf(out, "Follow-ups needed:    %d\n", s.FollowUpsNeeded)
}

func queueCmd(open Opener, opts *rootOptions) *cobra.Command {
	var (
		campaignID string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List pending consents by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := opts.requireTenant()
			if err != nil {
				return err
			}
			return run(cmd, open, opts, func(ctx context.Context, env *Env) error {
				items, err := env.Workflows.GetPendingQueue(ctx, tenantID, optional(campaignID), limit)
				if err != nil {
					return err
				}
				printQueue(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Restrict to one campaign")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of entries (default from config)")
	return cmd
}

func printQueue(out io.Writer, items []models.PendingConsentItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No pending consents")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tWORKFLOW\tSTORYTELLER\tSTAGE\tDAYS\tFLAGS")
	for _, item := range items {
		var flags string
		if item.ElderReviewRequired {
			flags += "elder "
		}
		if item.FollowUpRequired {
			flags += "follow-up"
			if item.FollowUpDate != nil {
				flags += " " + time.UnixMilli(*item.FollowUpDate).UTC().Format("2006-01-02")
			}
		}
		fmt.Fprintf(tw, "%.1f\t%s\t%s\t%s\t%d\t%s\n",
			item.PriorityScore, item.WorkflowID, item.StorytellerID,
			stageColor(item.Stage).Sprint(item.Stage), item.DaysInStage, flags)
	}
	_ = tw.Flush()
}

func funnelCmd(open Opener, opts *rootOptions) *cobra.Command {
	var campaignID string
	cmd := &cobra.Command{
		Use:   "funnel",
		Short: "Show the consent conversion funnel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := opts.requireTenant()
			if err != nil {
				return err
			}
			return run(cmd, open, opts, func(ctx context.Context, env *Env) error {
				funnel, err := env.Workflows.GetConversionFunnel(ctx, tenantID, optional(campaignID))
				if err != nil {
					return err
				}
				printFunnel(cmd.OutOrStdout(), funnel)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Restrict to one campaign")
	return cmd
}

func printFunnel(out io.Writer, f *models.ConversionFunnel) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "invited\t%d\t\n", f.Invited)
	fmt.Fprintf(tw, "interested\t%d\t%d%%\n", f.Interested, f.InvitedToInterested)
	fmt.Fprintf(tw, "consented\t%d\t%d%%\n", f.Consented, f.InterestedToConsented)
	fmt.Fprintf(tw, "recorded\t%d\t%d%%\n", f.Recorded, f.ConsentedToRecorded)
	fmt.Fprintf(tw, "reviewed\t%d\t\n", f.Reviewed)
	fmt.Fprintf(tw, "published\t%d\t%d%%\n", f.Published, f.RecordedToPublished)
	fmt.Fprintf(tw, "withdrawn\t%d\t\n", f.Withdrawn)
	_ = tw.Flush()
	fmt.Fprintf(out, "\nOverall conversion: %s\n", color.New(color.Bold).Sprintf("%d%%", f.OverallConversion))
}

func progressCmd(open Opener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <campaign-id>",
		Short: "Show campaign progress against its targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := opts.requireTenant()
			if err != nil {
				return err
			}
			return run(cmd, open, opts, func(ctx context.Context, env *Env) error {
				progress, err := env.Campaigns.GetProgress(ctx, tenantID, args[0])
				if err != nil {
					return err
				}
				printProgress(cmd.OutOrStdout(), progress)
				return nil
			})
		},
	}
}

func printProgress(out io.Writer, p *models.CampaignProgress) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "storytellers\t%s\n", percent(p.StorytellerProgress))
	fmt.Fprintf(tw, "stories\t%s\n", percent(p.StoryProgress))
	fmt.Fprintf(tw, "workflows\t%s\n", percent(p.WorkflowProgress))
	fmt.Fprintf(tw, "days elapsed\t%s\n", optionalInt(p.DaysElapsed))
	fmt.Fprintf(tw, "days remaining\t%s\n", optionalInt(p.DaysRemaining))
	fmt.Fprintf(tw, "completion\t%d%%\n", p.CompletionPercentage)
	_ = tw.Flush()
}

func percent(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *v)
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
