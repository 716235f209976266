package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
)

type rootOptions struct {
	configPath string
	tenantID   string
	userID     string
	role       string
}

// NewRootCmd returns the campaignctl command tree. Commands reach the store through open.
func NewRootCmd(open Opener) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "campaignctl",
		Short:         "Operate the campaign consent workflow store",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `campaignctl applies schema migrations and inspects or advances
consent workflows directly against the configured database.

Examples:
  campaignctl migrate
  campaignctl summary --tenant t-1 --campaign c-1
  campaignctl queue --tenant t-1 --limit 20
  campaignctl advance w-1 published --tenant t-1 --notes "approved at hui"`,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to the config file (default: configs/config.yaml)")
	root.PersistentFlags().StringVarP(&opts.tenantID, "tenant", "t", "", "Tenant the command is scoped to")
	root.PersistentFlags().StringVar(&opts.userID, "user", "campaignctl", "User recorded as the actor of mutations")
	root.PersistentFlags().StringVar(&opts.role, "role", "coordinator", "Role of the actor")

	root.AddCommand(migrateCmd(open, opts))
	root.AddCommand(summaryCmd(open, opts))
	root.AddCommand(queueCmd(open, opts))
	root.AddCommand(funnelCmd(open, opts))
	root.AddCommand(progressCmd(open, opts))
	root.AddCommand(advanceCmd(open, opts))

	return root
}

// run opens the store, runs fn and closes the store again
func run(cmd *cobra.Command, open Opener, opts *rootOptions, fn func(ctx context.Context, env *Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := open(ctx, opts.configPath)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(ctx, env)
}

func (o *rootOptions) requireTenant() (string, error) {
	if o.tenantID == "" {
		return "", errors.New("--tenant is required")
	}
	return o.tenantID, nil
}

func (o *rootOptions) actor() (models.Actor, error) {
	tenantID, err := o.requireTenant()
	if err != nil {
		return models.Actor{}, err
	}
	return models.Actor{TenantID: tenantID, UserID: o.userID, Role: o.role}, nil
}

// optional returns nil for an unset flag value
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
