package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cutover/internal/api"
	"cutover/internal/services"
)

// newServiceCmd creates the command that runs a single lifecycle action
// against one service.
func newServiceCmd() *cobra.Command {
	var (
		environment string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:       "service <start|stop|restart|healthcheck> <service-name>",
		Short:     "Run a single lifecycle action against one service",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"start", "stop", "restart", "healthcheck"},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.ServiceActionRequest{
				ServiceName: args[1],
				Action:      api.ActionKind(args[0]),
				DryRun:      dryRun,
			}
			if err := req.Validate(); err != nil {
				return err
			}

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
			svc, ok := registry.Get(req.ServiceName)
			if !ok {
				return api.NewServiceNotFoundError(req.ServiceName)
			}

			result := application.Controller.Execute(context.Background(), svc, req.Action, services.ExecOptions{
				Timeout:      application.Config.ActionTimeoutFor(svc),
				PollInterval: application.Config.PollIntervalFor(svc),
				DryRun:       req.DryRun,
			})

			out := cmd.OutOrStdout()
			if result.Health != "" {
				fmt.Fprintf(out, "%s %s: success=%t state=%s health=%s (%s) in %s\n",
					req.Action, result.Service, result.Success, result.State, result.Health,
					result.Message, result.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(out, "%s %s: success=%t state=%s (%s) in %s\n",
					req.Action, result.Service, result.Success, result.State,
					result.Message, result.Duration.Round(time.Millisecond))
			}

			if !result.Success {
				return result.Err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Target environment (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the intended action without executing it")
	cmd.MarkFlagRequired("environment")

	return cmd
}
