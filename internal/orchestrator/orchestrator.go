package orchestrator

import (
	"context"
	"fmt"
	"time"

	"cutover/internal/api"
	"cutover/internal/config"
	"cutover/internal/events"
	"cutover/internal/operation"
	"cutover/internal/services"
	"cutover/pkg/logging"
)

// Deps carries the orchestrator's constructor dependencies. Nil collaborators
// are replaced with no-op implementations, so callers only wire what they
// actually integrate with.
type Deps struct {
	Config     *config.CutoverConfig
	Controller *services.Controller
	Monitor    *operation.Monitor
	Events     *events.Generator

	Notifier Notifier
	Gateway  TransactionGateway
	Calendar BusinessCalendar
	Batch    BatchProcessor
	Reporter ReconciliationReporter
	Verifier EnvironmentVerifier
}

// Orchestrator drives admitted operations through their fixed phase sequence.
// Phases execute strictly sequentially; service transitions inside one
// dependency level may run concurrently.
type Orchestrator struct {
	cfg        *config.CutoverConfig
	controller *services.Controller
	monitor    *operation.Monitor
	events     *events.Generator

	notifier Notifier
	gateway  TransactionGateway
	calendar BusinessCalendar
	batch    BatchProcessor
	reporter ReconciliationReporter
	verifier EnvironmentVerifier
}

// New creates an orchestrator, filling unset collaborators with no-ops.
func New(deps Deps) *Orchestrator {
	o := &Orchestrator{
		cfg:        deps.Config,
		controller: deps.Controller,
		monitor:    deps.Monitor,
		events:     deps.Events,
		notifier:   deps.Notifier,
		gateway:    deps.Gateway,
		calendar:   deps.Calendar,
		batch:      deps.Batch,
		reporter:   deps.Reporter,
		verifier:   deps.Verifier,
	}
	if o.events == nil {
		o.events = events.NewGenerator()
	}
	if o.notifier == nil {
		o.notifier = NoopNotifier{}
	}
	if o.gateway == nil {
		o.gateway = NoopGateway{}
	}
	if o.calendar == nil {
		o.calendar = NoopCalendar{}
	}
	if o.batch == nil {
		o.batch = NoopBatchProcessor{}
	}
	if o.reporter == nil {
		o.reporter = NoopReporter{}
	}
	if o.verifier == nil {
		o.verifier = NoopVerifier{}
	}
	return o
}

// Run executes one admitted operation to a terminal state and returns the
// final snapshot. It owns the operation record for the duration of the run
// and releases the admission slot on exit.
func (o *Orchestrator) Run(ctx context.Context, op *operation.Operation) api.OperationSnapshot {
	defer o.monitor.Finalize(op)

	op.MarkRunning()
	logging.Info("Orchestrator", "running %s operation %s for environment %s (dry-run: %t)",
		op.Kind(), op.ID(), op.Environment(), op.DryRun())

	env, ok := o.cfg.Environments[op.Environment()]
	if !ok {
		op.Fail(api.NewEnvironmentNotFoundError(op.Environment()))
		o.emitTerminal(op)
		return op.Snapshot()
	}

	pl, err := buildPlan(env, op.ServicesFilter())
	if err != nil {
		// Plan errors abort before any service action is attempted.
		op.Fail(err)
		o.emitTerminal(op)
		return op.Snapshot()
	}

	var phases []phaseSpec
	switch op.Kind() {
	case api.KindSOD:
		phases = o.sodPhases(op, pl)
	case api.KindEOD:
		phases = o.eodPhases(op, pl, env)
	}

	total := 0
	for _, ph := range phases {
		total += len(ph.steps)
	}
	op.SetPlannedStepTotal(total)

	o.runPhases(ctx, op, phases)
	o.emitTerminal(op)
	return op.Snapshot()
}

// phaseSpec is one phase of an operation's state machine. steps lists the
// planned step names so skipped phases can still report a full timeline.
// A nonFatal phase records its failure and defers it to the end of the run
// instead of aborting the remaining phases.
type phaseSpec struct {
	name     string
	steps    []string
	nonFatal bool
	run      func(ctx context.Context) error
}

// runPhases executes phases strictly sequentially, honouring cooperative
// cancellation at phase boundaries only.
func (o *Orchestrator) runPhases(ctx context.Context, op *operation.Operation, phases []phaseSpec) {
	var deferred error

	for i, ph := range phases {
		if op.CancelRequested() {
			o.skipPhases(op, phases[i:], "operation cancelled")
			op.Cancel("cancellation requested by operator")
			return
		}
		if ctx.Err() != nil {
			o.skipPhases(op, phases[i:], "context cancelled")
			op.Cancel(ctx.Err().Error())
			return
		}

		o.events.Emit(events.EventTypeNormal, events.ReasonPhaseStarted, events.EventData{
			Operation:   op.ID(),
			Environment: op.Environment(),
			Phase:       ph.name,
		})

		started := time.Now()
		err := ph.run(ctx)
		elapsed := time.Since(started)

		if err != nil {
			o.events.Emit(events.EventTypeWarning, events.ReasonPhaseFailed, events.EventData{
				Operation:   op.ID(),
				Environment: op.Environment(),
				Phase:       ph.name,
				Error:       err.Error(),
			})
			if ph.nonFatal {
				if deferred == nil {
					deferred = fmt.Errorf("phase %s: %w", ph.name, err)
				}
				continue
			}
			o.skipPhases(op, phases[i+1:], fmt.Sprintf("phase %s failed", ph.name))
			op.Fail(fmt.Errorf("phase %s: %w", ph.name, err))
			return
		}

		o.events.Emit(events.EventTypeNormal, events.ReasonPhaseCompleted, events.EventData{
			Operation:   op.ID(),
			Environment: op.Environment(),
			Phase:       ph.name,
			Duration:    elapsed,
		})
	}

	if deferred != nil {
		op.Fail(deferred)
		return
	}
	op.Complete()
}

// skipPhases marks every planned step of the given phases as Skipped.
func (o *Orchestrator) skipPhases(op *operation.Operation, phases []phaseSpec, reason string) {
	for _, ph := range phases {
		for _, step := range ph.steps {
			op.SkipStep(step, reason)
		}
		o.events.Emit(events.EventTypeWarning, events.ReasonPhaseSkipped, events.EventData{
			Operation:   op.ID(),
			Environment: op.Environment(),
			Phase:       ph.name,
			Error:       reason,
		})
	}
}

// emitTerminal publishes the terminal event and, on failure, the operator
// alert.
func (o *Orchestrator) emitTerminal(op *operation.Operation) {
	snapshot := op.Snapshot()
	data := events.EventData{
		Operation:   snapshot.OperationID,
		Kind:        string(snapshot.Kind),
		Environment: snapshot.Environment,
		Error:       snapshot.ErrorMessage,
		StepCount:   len(snapshot.Steps),
	}
	if snapshot.EndTime != nil {
		data.Duration = snapshot.EndTime.Sub(snapshot.StartTime).Round(time.Millisecond)
	}

	switch snapshot.Status {
	case api.OperationCompleted:
		o.events.Emit(events.EventTypeNormal, events.ReasonOperationCompleted, data)
	case api.OperationCancelled:
		o.events.Emit(events.EventTypeWarning, events.ReasonOperationCancelled, data)
	case api.OperationFailed:
		o.events.Emit(events.EventTypeWarning, events.ReasonOperationFailed, data)
		o.notifier.Notify(api.SeverityCritical, api.DomainCoreBanking,
			fmt.Sprintf("%s operation %s failed in environment %s: %s",
				snapshot.Kind, snapshot.OperationID, snapshot.Environment, snapshot.ErrorMessage))
	}
}

// runStep executes a single named step, short-circuiting in dry-run mode.
func (o *Orchestrator) runStep(op *operation.Operation, name string, fn func() error) error {
	index := op.BeginStep(name)
	if op.DryRun() {
		op.CompleteStep(index, "dry-run: not executed")
		return nil
	}
	if err := fn(); err != nil {
		op.FailStep(index, "", err)
		return err
	}
	op.CompleteStep(index, "")
	return nil
}

type namedStep struct {
	name string
	fn   func() error
}

// runSequence executes steps strictly in order, skipping the remainder after
// the first failure.
func (o *Orchestrator) runSequence(op *operation.Operation, steps []namedStep) error {
	for i, step := range steps {
		if err := o.runStep(op, step.name, step.fn); err != nil {
			for _, remaining := range steps[i+1:] {
				op.SkipStep(remaining.name, fmt.Sprintf("step %s failed", step.name))
			}
			return err
		}
	}
	return nil
}

// runChecks executes every step even after failures and returns the first
// error. Used for read-only verification phases where all findings matter.
func (o *Orchestrator) runChecks(op *operation.Operation, steps []namedStep) error {
	var firstErr error
	for _, step := range steps {
		if err := o.runStep(op, step.name, step.fn); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
