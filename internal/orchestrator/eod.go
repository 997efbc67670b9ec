package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cutover/internal/api"
	"cutover/internal/config"
	"cutover/internal/operation"
)

// EOD phase and step names.
const (
	phasePreEOD          = "PreEOD"
	phaseTransactionHalt = "TransactionHalt"
	phaseDailyProcessing = "DailyProcessing"
	phaseReconciliation  = "Reconciliation"
	phaseShutdown        = "ServiceShutdown"

	stepPreEODChecks  = "pre-eod checks"
	stepTxnHalt       = "transaction halt"
	stepInterest      = "interest computation"
	stepStandingInstr = "standing instructions"
	stepScheduledJobs = "scheduled jobs"
	stepReconcile     = "reconciliation"
)

// eodPhases builds the End-of-Day phase sequence:
// PreEOD, TransactionHalt, DailyProcessing, Reconciliation, plus an optional
// reverse-order service shutdown when the environment requests it.
//
// Daily processing jobs are sequential by business rule, never dependency
// ordered. Reconciliation failures fail the operation at the end but never
// invalidate completed daily processing output, and a requested shutdown
// still runs.
func (o *Orchestrator) eodPhases(op *operation.Operation, pl *plan, env config.Environment) []phaseSpec {
	environment := op.Environment()

	phases := []phaseSpec{
		{
			name:  phasePreEOD,
			steps: []string{stepPreEODChecks},
			run:   o.preCheckFn(op, pl, stepPreEODChecks),
		},
		{
			name:  phaseTransactionHalt,
			steps: []string{stepTxnHalt},
			run: func(ctx context.Context) error {
				return o.transactionHalt(ctx, op, environment)
			},
		},
		{
			name:  phaseDailyProcessing,
			steps: []string{stepInterest, stepStandingInstr, stepScheduledJobs},
			run: func(ctx context.Context) error {
				return o.runSequence(op, []namedStep{
					{stepInterest, func() error { return o.batch.ComputeInterest(ctx, environment) }},
					{stepStandingInstr, func() error { return o.batch.ProcessStandingInstructions(ctx, environment) }},
					{stepScheduledJobs, func() error { return o.batch.RunScheduledJobs(ctx, environment) }},
				})
			},
		},
		{
			name:     phaseReconciliation,
			steps:    []string{stepReconcile},
			nonFatal: true,
			run: func(ctx context.Context) error {
				return o.runStep(op, stepReconcile, func() error {
					return o.reporter.GenerateReconciliationArtifacts(ctx, op.ID())
				})
			},
		},
	}

	if env.ShutdownServicesOnEOD {
		phases = append(phases, phaseSpec{
			name:  phaseShutdown,
			steps: pl.stepNames(string(api.ActionStop), pl.reverse),
			run: func(ctx context.Context) error {
				return o.runTransition(ctx, op, pl, api.ActionStop, pl.reverse, pl.dependents, "dependent")
			},
		})
	}

	return phases
}

// transactionHalt signals intake to cease at the cutoff, then waits for
// in-flight work below the cutoff to drain within the configured budget.
func (o *Orchestrator) transactionHalt(ctx context.Context, op *operation.Operation, environment string) error {
	index := op.BeginStep(stepTxnHalt)
	cutoff := *op.CutoffTime()

	if op.DryRun() {
		op.CompleteStep(index, fmt.Sprintf("dry-run: would halt intake at %s", cutoff.Format(time.RFC3339)))
		return nil
	}

	if err := o.gateway.HaltIntake(ctx, environment, cutoff); err != nil {
		op.FailStep(index, "intake halt failed", err)
		return err
	}

	budget := o.cfg.Defaults.DrainTimeout.Std()
	drainCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	started := time.Now()
	err := o.gateway.AwaitDrain(drainCtx, environment, cutoff)
	elapsed := time.Since(started)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = &api.TimeoutError{
				Subject: "transaction drain",
				Elapsed: elapsed,
				Budget:  budget,
				Detail:  "in-flight work below cutoff did not drain",
			}
		}
		op.FailStep(index, "drain wait failed", err)
		return err
	}

	op.CompleteStep(index, fmt.Sprintf("intake halted at %s, drained in %s",
		cutoff.Format(time.RFC3339), elapsed.Round(time.Millisecond)))
	return nil
}
