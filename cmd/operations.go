package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cutover/internal/formatting"
)

// newOperationsCmd creates the command that lists the operation audit log.
func newOperationsCmd() *cobra.Command {
	var (
		environment string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List recorded operations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApplication()
			if err != nil {
				return err
			}
			defer application.Close()

			history, err := application.Monitor.History(context.Background(), environment, limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatting.OperationsTable(history))
			return nil
		},
	}

	cmd.Flags().StringVarP(&environment, "environment", "e", "", "Filter by environment (default: all)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of operations to list")

	return cmd
}
