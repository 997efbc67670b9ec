package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"cutover/internal/api"
	"cutover/internal/config"
	"cutover/internal/dependency"
	"cutover/internal/formatting"
	"cutover/pkg/logging"
)

// newValidateCmd creates the command that validates the configuration and
// prints the computed startup/shutdown phase plan without executing anything.
// With --watch it keeps running and re-validates whenever config.yaml
// changes, which is handy while editing service descriptors.
func newValidateCmd() *cobra.Command {
	var (
		environment string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the phase plan",
		Long: `Loads the configuration, checks every environment for unknown or
cyclic service dependencies and prints the dependency-ordered startup
and shutdown plan. No service is touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			defer application.Close()

			if err := printPlans(cmd, application.Config, environment); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			configDir := flagConfigPath
			if configDir == "" {
				configDir = config.GetDefaultConfigPathOrPanic()
			}

			watcher := config.NewWatcher(config.WatcherConfig{
				ConfigDir: configDir,
				OnChange: func() {
					reloaded, err := config.LoadConfig(configDir)
					if err != nil {
						logging.Error("CLI", err, "configuration reload failed")
						return
					}
					if err := printPlans(cmd, &reloaded, environment); err != nil {
						logging.Error("CLI", err, "plan computation failed")
					}
				},
			})
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Watching for configuration changes, press Ctrl+C to stop.")
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)
			<-sig
			return nil
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Validate a single environment (default: all)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and re-validate on configuration changes")

	return cmd
}

func printPlans(cmd *cobra.Command, cfg *config.CutoverConfig, environment string) error {
	names := cfg.EnvironmentNames()
	sort.Strings(names)

	if environment != "" {
		if _, ok := cfg.Environments[environment]; !ok {
			return api.NewEnvironmentNotFoundError(environment)
		}
		names = []string{environment}
	}

	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No environments configured.")
		return nil
	}

	for _, name := range names {
		if err := printPlan(cmd, name, cfg.Environments[name]); err != nil {
			return err
		}
	}
	return nil
}

func printPlan(cmd *cobra.Command, name string, env config.Environment) error {
	nodes := make([]dependency.Node, 0, len(env.Services))
	for _, svc := range env.Services {
		nodes = append(nodes, dependency.Node{Name: svc.Name, DependsOn: svc.DependsOn})
	}

	graph := dependency.New(nodes)
	startup, err := graph.Phases()
	if err != nil {
		return err
	}
	shutdown, err := graph.ReversePhases()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatting.PlanTable(name, startup, shutdown))
	return nil
}
