package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func migrateCmd(open Opener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, open, opts, func(ctx context.Context, env *Env) error {
				applied, err := env.DB.Migrate(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(applied) == 0 {
					fmt.Fprintln(out, "Schema is up to date")
					return nil
				}
				for _, name := range applied {
					fmt.Fprintf(out, "  %s %s\n", color.New(color.FgGreen).Sprint("APPLIED"), name)
				}
				fmt.Fprintf(out, "%d migration(s) applied\n", len(applied))
				return nil
			})
		},
	}
}
