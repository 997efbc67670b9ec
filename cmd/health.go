package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cutover/internal/api"
	"cutover/internal/formatting"
	"cutover/internal/services"
)

// newHealthCmd creates the command that health-checks every service of an
// environment and prints a summary table. Read-only.
func newHealthCmd() *cobra.Command {
	var environment string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Health-check every service of an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			defer application.Close()

			env, ok := application.Config.Environments[environment]
			if !ok {
				return api.NewEnvironmentNotFoundError(environment)
			}

			registry := services.NewRegistry()
			registry.Load(env.Services)
			all := registry.All()

			var g errgroup.Group
			if limit := application.Config.Defaults.MaxConcurrentTransitions; limit > 0 {
				g.SetLimit(limit)
			}

			results := make([]services.ActionResult, len(all))
			for i, svc := range all {
				i, svc := i, svc
				g.Go(func() error {
					results[i] = application.Controller.Execute(context.Background(), svc, api.ActionHealthCheck, services.ExecOptions{
						Timeout:      application.Config.ActionTimeoutFor(svc),
						PollInterval: application.Config.PollIntervalFor(svc),
					})
					return nil
				})
			}
			g.Wait()

			fmt.Fprintln(cmd.OutOrStdout(), formatting.HealthTable(results))

			for _, result := range results {
				if !result.Success {
					return fmt.Errorf("health check failed for service %s", result.Service)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Target environment (required)")
	cmd.MarkFlagRequired("environment")

	return cmd
}
