package orchestrator

import (
	"context"

	"cutover/internal/api"
	"cutover/internal/operation"
)

// SOD phase and step names.
const (
	phasePreCheck       = "PreCheck"
	phaseServiceStartup = "ServiceStartup"
	phaseBusinessInit   = "BusinessInit"
	phasePostValidation = "PostValidation"

	stepPreChecks    = "pre-checks"
	stepBusinessInit = "business initialization"
	stepTxnCheck     = "transaction processing check"
	stepPerfCheck    = "performance check"
	stepAuditCheck   = "audit trail check"
)

// sodPhases builds the Start-of-Day phase sequence:
// PreCheck, ServiceStartup, BusinessInit, PostValidation.
//
// A startup failure fails the operation without rolling back services that
// already started. PostValidation is read-only: all checks run and failures
// fail the operation at the end, but never undo prior phases.
func (o *Orchestrator) sodPhases(op *operation.Operation, pl *plan) []phaseSpec {
	environment := op.Environment()

	return []phaseSpec{
		{
			name:  phasePreCheck,
			steps: []string{stepPreChecks},
			run:   o.preCheckFn(op, pl, stepPreChecks),
		},
		{
			name:  phaseServiceStartup,
			steps: pl.stepNames(string(api.ActionStart), pl.levels),
			run: func(ctx context.Context) error {
				return o.runTransition(ctx, op, pl, api.ActionStart, pl.levels, pl.dependsOn, "dependency")
			},
		},
		{
			name:  phaseBusinessInit,
			steps: []string{stepBusinessInit},
			run: func(ctx context.Context) error {
				return o.runStep(op, stepBusinessInit, func() error {
					if err := o.calendar.RollBusinessDate(ctx, environment); err != nil {
						return err
					}
					return o.calendar.ActivateSchedules(ctx, environment)
				})
			},
		},
		{
			name:     phasePostValidation,
			steps:    []string{stepTxnCheck, stepPerfCheck, stepAuditCheck},
			nonFatal: true,
			run: func(ctx context.Context) error {
				return o.runChecks(op, []namedStep{
					{stepTxnCheck, func() error { return o.verifier.VerifyTransactionProcessing(ctx, environment) }},
					{stepPerfCheck, func() error { return o.verifier.VerifyPerformance(ctx, environment) }},
					{stepAuditCheck, func() error { return o.verifier.VerifyAuditTrail(ctx, environment) }},
				})
			},
		},
	}
}
