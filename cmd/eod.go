package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cutover/internal/api"
)

// newEODCmd creates the command that runs an End-of-Day operation.
func newEODCmd() *cobra.Command {
	var (
		environment string
		services    []string
		dryRun      bool
		force       bool
		comments    string
		cutoffRaw   string
	)

	cmd := &cobra.Command{
		Use:   "eod",
		Short: "Run an End-of-Day cutover",
		Long: `Runs the End-of-Day operation for an environment: transaction intake
halt at the cutoff time, in-flight drain, daily batch processing,
reconciliation and, if the environment requests it, reverse-order
service shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cutoff, err := parseCutoff(cutoffRaw)
			if err != nil {
				return err
			}

			application, err := newApplication()
			if err != nil {
				return err
			}
			defer application.Close()

			return runOperation(cmd, application, api.OperationRequest{
				Environment:    environment,
				Kind:           api.KindEOD,
				ServicesFilter: services,
				DryRun:         dryRun,
				ForceExecution: force,
				CutoffTime:     &cutoff,
				Comments:       comments,
			})
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Target environment (required)")
	cmd.Flags().StringVar(&cutoffRaw, "cutoff", "now", "Transaction intake cutoff: RFC3339 timestamp or 'now'")
	cmd.Flags().StringSliceVar(&services, "services", nil, "Restrict to a subset of services (default: all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Produce the step timeline without real side effects")
	cmd.Flags().BoolVar(&force, "force", false, "Cancel an already-active EOD operation for this environment")
	cmd.Flags().StringVar(&comments, "comments", "", "Operator context recorded on the audit trail")
	cmd.MarkFlagRequired("environment")

	return cmd
}

// parseCutoff accepts "now" or an RFC3339 timestamp.
func parseCutoff(raw string) (time.Time, error) {
	if raw == "" || raw == "now" {
		return time.Now(), nil
	}
	cutoff, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --cutoff %q: expected RFC3339 timestamp or 'now'", raw)
	}
	return cutoff, nil
}
