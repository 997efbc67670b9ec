package cmd

import (
	"github.com/spf13/cobra"

	"cutover/internal/api"
)

// newSODCmd creates the command that runs a Start-of-Day operation.
func newSODCmd() *cobra.Command {
	var (
		environment string
		services    []string
		dryRun      bool
		force       bool
		comments    string
	)

	cmd := &cobra.Command{
		Use:   "sod",
		Short: "Run a Start-of-Day cutover",
		Long: `Runs the Start-of-Day operation for an environment: pre-checks,
dependency-ordered service startup, business initialization and
post-validation. Use --dry-run to preview the full step timeline
without touching any service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			defer application.Close()

			return runOperation(cmd, application, api.OperationRequest{
				Environment:    environment,
				Kind:           api.KindSOD,
				ServicesFilter: services,
				DryRun:         dryRun,
				ForceExecution: force,
				Comments:       comments,
			})
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Target environment (required)")
	cmd.Flags().StringSliceVar(&services, "services", nil, "Restrict to a subset of services (default: all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Produce the step timeline without real side effects")
	cmd.Flags().BoolVar(&force, "force", false, "Cancel an already-active SOD operation for this environment")
	cmd.Flags().StringVar(&comments, "comments", "", "Operator context recorded on the audit trail")
	cmd.MarkFlagRequired("environment")

	return cmd
}
