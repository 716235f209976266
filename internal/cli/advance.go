package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

func advanceCmd(open Opener, opts *rootOptions) *cobra.Command {
	var notes, reason string
	cmd := &cobra.Command{
		Use:   "advance <workflow-id> <stage>",
		Short: "Move a workflow to another stage",
		Long: `Move a workflow to another stage through the same transition
rules the API applies. Withdrawal requires --reason.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			return run(cmd, open, opts, func(ctx context.Context, env *Env) error {
				before, err := env.Workflows.GetWorkflow(ctx, actor.TenantID, args[0])
				if err != nil {
					return err
				}
				w, err := env.Workflows.AdvanceStage(ctx, actor, args[0], &models.AdvanceStageRequest{
					Stage:  args[1],
					Notes:  optional(notes),
					Reason: optional(reason),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s -> %s\n",
					color.New(color.FgGreen).Sprint("ADVANCED"), w.ID,
					stageColor(before.Stage).Sprint(before.Stage), stageColor(w.Stage).Sprint(w.Stage))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Note appended to the workflow")
	cmd.Flags().StringVar(&reason, "reason", "", "Withdrawal reason")
	return cmd
}
