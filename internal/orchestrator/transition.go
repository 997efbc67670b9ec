package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"cutover/internal/api"
	"cutover/internal/events"
	"cutover/internal/operation"
	"cutover/internal/services"
)

// runTransition drives one lifecycle action across phase levels. Services in
// the same level run concurrently, bounded by the configured limit; a service
// whose enabler failed or was skipped is marked Skipped rather than attempted.
// Step records are begun in deterministic order before the level executes, so
// the audit timeline is identical across runs with the same inputs.
func (o *Orchestrator) runTransition(ctx context.Context, op *operation.Operation, pl *plan, action api.ActionKind, levels [][]string, enablers map[string][]string, relation string) error {
	verb := string(action)

	blocked := make(map[string]bool)
	var firstErr error
	failures := 0

	for _, level := range levels {
		type job struct {
			name  string
			index int
		}
		var jobs []job

		for _, name := range level {
			if enabler, bad := blockedEnabler(name, enablers, blocked); bad {
				reason := fmt.Sprintf("%s %s failed or was skipped", relation, enabler)
				op.SkipStep(verb+" "+name, reason)
				blocked[name] = true
				o.events.Emit(events.EventTypeWarning, events.ReasonServiceSkipped, events.EventData{
					Operation:   op.ID(),
					Environment: op.Environment(),
					Service:     name,
					Error:       reason,
				})
				continue
			}
			jobs = append(jobs, job{name: name, index: op.BeginStep(verb + " " + name)})
		}

		var g errgroup.Group
		if limit := o.cfg.Defaults.MaxConcurrentTransitions; limit > 0 {
			g.SetLimit(limit)
		}

		results := make([]services.ActionResult, len(jobs))
		for i, j := range jobs {
			i, j := i, j
			g.Go(func() error {
				svc := pl.byName[j.name]
				opts := services.ExecOptions{
					Timeout:      o.cfg.ActionTimeoutFor(svc),
					PollInterval: o.cfg.PollIntervalFor(svc),
					DryRun:       op.DryRun(),
				}
				results[i] = o.controller.Execute(ctx, svc, action, opts)
				return nil
			})
		}
		g.Wait()

		for i, j := range jobs {
			result := results[i]
			if result.Success {
				op.CompleteStep(j.index, result.Message)
				o.emitServiceOutcome(op, action, j.name, result)
				continue
			}

			op.FailStep(j.index, result.Message, result.Err)
			blocked[j.name] = true
			failures++
			if firstErr == nil {
				firstErr = result.Err
			}

			o.events.Emit(events.EventTypeWarning, events.ReasonServiceActionFailed, events.EventData{
				Operation:   op.ID(),
				Environment: op.Environment(),
				Service:     j.name,
				Error:       result.Message,
			})
			o.notifier.Notify(api.SeverityCritical, pl.byName[j.name].Domain,
				fmt.Sprintf("service %s failed to %s: %s", j.name, verb, result.Message))
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d services failed to %s: %w", failures, len(pl.services), verb, firstErr)
	}
	return nil
}

// emitServiceOutcome publishes the per-service audit event for a successful
// start or stop.
func (o *Orchestrator) emitServiceOutcome(op *operation.Operation, action api.ActionKind, name string, result services.ActionResult) {
	reason := events.ReasonServiceStarted
	if action == api.ActionStop {
		reason = events.ReasonServiceStopped
	}
	o.events.Emit(events.EventTypeNormal, reason, events.EventData{
		Operation:   op.ID(),
		Environment: op.Environment(),
		Service:     name,
		Duration:    result.Duration,
	})
}

// blockedEnabler reports the first enabler of name that failed or was skipped.
func blockedEnabler(name string, enablers map[string][]string, blocked map[string]bool) (string, bool) {
	for _, enabler := range enablers[name] {
		if blocked[enabler] {
			return enabler, true
		}
	}
	return "", false
}

// preCheckFn builds the precondition check for a plan: every selected service
// must be observable through its execution path before any state change is
// attempted. Observability failures are connectivity or configuration
// problems and abort the operation.
func (o *Orchestrator) preCheckFn(op *operation.Operation, pl *plan, stepName string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return o.runStep(op, stepName, func() error {
			var g errgroup.Group
			if limit := o.cfg.Defaults.MaxConcurrentTransitions; limit > 0 {
				g.SetLimit(limit)
			}

			results := make([]services.ActionResult, len(pl.services))
			for i, svc := range pl.services {
				i, svc := i, svc
				g.Go(func() error {
					opts := services.ExecOptions{
						Timeout:      o.cfg.ActionTimeoutFor(svc),
						PollInterval: o.cfg.PollIntervalFor(svc),
					}
					results[i] = o.controller.Execute(ctx, svc, api.ActionHealthCheck, opts)
					return nil
				})
			}
			g.Wait()

			for i, result := range results {
				if !result.Success {
					return fmt.Errorf("service %s is not observable: %w", pl.services[i].Name, result.Err)
				}
			}
			return nil
		})
	}
}
