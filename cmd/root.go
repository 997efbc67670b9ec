package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"cutover/internal/app"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
)

var (
	flagConfigPath string
	flagDebug      bool
	flagJSONLog    bool
	flagSilent     bool
)

// rootCmd is the base command of the cutover application.
var rootCmd = &cobra.Command{
	Use:   "cutover",
	Short: "Orchestrate Start-of-Day and End-of-Day banking cutovers",
	Long: `cutover coordinates SOD and EOD operational cutovers for interdependent
banking backend services across hosts: dependency-ordered service
transitions, bounded lifecycle actions, dry-run simulation and a
persistent step-by-step audit record.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command, injected at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "cutover version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

// newApplication bootstraps the application from the persistent flags.
func newApplication() (*app.Application, error) {
	return app.NewApplication(app.NewConfig(flagDebug, flagJSONLog, flagSilent, flagConfigPath))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config directory (default is $HOME/.config/cutover)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLog, "json-log", false, "Emit logs as JSON lines")
	rootCmd.PersistentFlags().BoolVar(&flagSilent, "silent", false, "Suppress log output")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newSODCmd())
	rootCmd.AddCommand(newEODCmd())
	rootCmd.AddCommand(newServiceCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newOperationsCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newHealthCmd())
}
