package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cutover/internal/formatting"
)

// newStatusCmd creates the command that shows one operation's status and step
// timeline, consulting the audit store for past operations.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <operation-id>",
		Short: "Show the status and step timeline of an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			defer application.Close()

			snapshot, err := application.Monitor.GetStatus(context.Background(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatting.OperationSummary(snapshot))
			fmt.Fprintln(out, formatting.StepsTable(snapshot))
			return nil
		},
	}
}
