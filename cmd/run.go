package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cutover/internal/api"
	"cutover/internal/app"
	"cutover/internal/formatting"
	"cutover/pkg/logging"
)

// runOperation submits the request, executes it to a terminal state and
// prints the step timeline. SIGINT and SIGTERM request cooperative
// cancellation: the current phase finishes, remaining phases are skipped.
func runOperation(cmd *cobra.Command, application *app.Application, req api.OperationRequest) error {
	op, err := application.Monitor.Submit(req)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		if _, ok := <-sig; ok {
			logging.Warn("CLI", "interrupt received, requesting cancellation of operation %s", op.ID())
			if err := application.Monitor.RequestCancel(op.ID()); err != nil {
				logging.Error("CLI", err, "cancellation request failed")
			}
		}
	}()

	snapshot := application.Orchestrator.Run(context.Background(), op)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatting.OperationSummary(snapshot))
	fmt.Fprintln(out, formatting.StepsTable(snapshot))

	if snapshot.Status != api.OperationCompleted {
		return fmt.Errorf("operation %s finished with status %s", snapshot.OperationID, snapshot.Status)
	}
	return nil
}
