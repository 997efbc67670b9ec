package services

import (
	"context"
	"fmt"
	"time"

	"cutover/internal/api"
	"cutover/internal/config"
	"cutover/pkg/logging"
)

// Controller executes single lifecycle actions against one named service,
// local or remote, with timeout-bounded state polling. It is stateless apart
// from the executor factory and safe for concurrent use; one controller
// serves all operations.
type Controller struct {
	factory ExecutorFactory
}

// NewController creates a lifecycle controller using the given executor
// selection.
func NewController(factory ExecutorFactory) *Controller {
	return &Controller{factory: factory}
}

// Execute performs a single action against the service. The returned result
// always carries the service name, action and elapsed duration; Err is set
// with one of the structured api errors on failure.
func (c *Controller) Execute(ctx context.Context, svc config.ServiceDescriptor, action api.ActionKind, opts ExecOptions) ActionResult {
	switch action {
	case api.ActionStart:
		return c.transition(ctx, svc, api.ActionStart, api.StateRunning, opts)
	case api.ActionStop:
		return c.transition(ctx, svc, api.ActionStop, api.StateStopped, opts)
	case api.ActionRestart:
		return c.restart(ctx, svc, opts)
	case api.ActionHealthCheck:
		return c.healthCheck(ctx, svc, opts)
	default:
		return ActionResult{
			Service: svc.Name,
			Action:  action,
			Err:     api.NewValidationError("action", "unsupported action %q", string(action)),
		}
	}
}

// transition drives the service towards the desired state and polls until it
// is observed or the timeout elapses.
func (c *Controller) transition(ctx context.Context, svc config.ServiceDescriptor, action api.ActionKind, desired api.ServiceState, opts ExecOptions) ActionResult {
	if opts.DryRun {
		logging.Info("Lifecycle", "[dry-run] would %s service %s (unit %s on %s)", action, svc.Name, svc.Unit, hostLabel(svc))
		return ActionResult{
			Service: svc.Name,
			Action:  action,
			Success: true,
			State:   desired,
			Message: fmt.Sprintf("dry-run: %s not issued", action),
		}
	}

	executor, err := c.factory(svc)
	if err != nil {
		return c.failure(svc, action, 0, err)
	}

	observed, err := executor.ObserveState(ctx, svc)
	if err != nil {
		return c.failure(svc, action, 0, &api.RemoteExecutionError{Service: svc.Name, Host: hostLabel(svc), Action: action, Err: err})
	}

	// Idempotent short-circuit: nothing to do, no redundant side effect.
	if observed == desired {
		logging.Debug("Lifecycle", "service %s already %s, skipping %s", svc.Name, desired, action)
		return ActionResult{
			Service: svc.Name,
			Action:  action,
			Success: true,
			State:   observed,
			Message: fmt.Sprintf("already %s", desired),
		}
	}

	started := time.Now()
	if err := c.issue(ctx, executor, svc, action); err != nil {
		return c.failure(svc, action, time.Since(started), &api.RemoteExecutionError{Service: svc.Name, Host: hostLabel(svc), Action: action, Err: err})
	}

	final, err := c.pollUntil(ctx, executor, svc, desired, opts)
	elapsed := time.Since(started)
	if err != nil {
		return c.failure(svc, action, elapsed, err)
	}

	logging.Info("Lifecycle", "service %s reached %s in %s", svc.Name, final, elapsed.Round(time.Millisecond))
	return ActionResult{
		Service:  svc.Name,
		Action:   action,
		Success:  true,
		State:    final,
		Duration: elapsed,
		Message:  fmt.Sprintf("%s completed", action),
	}
}

// restart is stop followed by start. A graceful stop that exceeds half of the
// timeout budget escalates to forced termination; if stop fails outright the
// restart aborts without attempting start.
func (c *Controller) restart(ctx context.Context, svc config.ServiceDescriptor, opts ExecOptions) ActionResult {
	if opts.DryRun {
		logging.Info("Lifecycle", "[dry-run] would restart service %s (unit %s on %s)", svc.Name, svc.Unit, hostLabel(svc))
		return ActionResult{
			Service: svc.Name,
			Action:  api.ActionRestart,
			Success: true,
			State:   api.StateRunning,
			Message: "dry-run: restart not issued",
		}
	}

	started := time.Now()
	stopResult := c.stopWithEscalation(ctx, svc, opts)
	if !stopResult.Success {
		result := c.failure(svc, api.ActionRestart, time.Since(started), stopResult.Err)
		result.Message = "restart aborted: stop failed"
		return result
	}

	startOpts := opts
	startResult := c.transition(ctx, svc, api.ActionStart, api.StateRunning, startOpts)
	elapsed := time.Since(started)
	if !startResult.Success {
		result := c.failure(svc, api.ActionRestart, elapsed, startResult.Err)
		result.Message = "restart: stopped but failed to start"
		return result
	}

	return ActionResult{
		Service:  svc.Name,
		Action:   api.ActionRestart,
		Success:  true,
		State:    startResult.State,
		Duration: elapsed,
		Message:  "restart completed",
	}
}

// stopWithEscalation issues a graceful stop and waits half the budget for it
// to land, then kills the unit and waits out the remainder.
func (c *Controller) stopWithEscalation(ctx context.Context, svc config.ServiceDescriptor, opts ExecOptions) ActionResult {
	executor, err := c.factory(svc)
	if err != nil {
		return c.failure(svc, api.ActionStop, 0, err)
	}

	observed, err := executor.ObserveState(ctx, svc)
	if err != nil {
		return c.failure(svc, api.ActionStop, 0, &api.RemoteExecutionError{Service: svc.Name, Host: hostLabel(svc), Action: api.ActionStop, Err: err})
	}
	if observed == api.StateStopped {
		return ActionResult{Service: svc.Name, Action: api.ActionStop, Success: true, State: observed, Message: "already stopped"}
	}

	started := time.Now()
	if err := executor.Stop(ctx, svc); err != nil {
		return c.failure(svc, api.ActionStop, time.Since(started), &api.RemoteExecutionError{Service: svc.Name, Host: hostLabel(svc), Action: api.ActionStop, Err: err})
	}

	graceOpts := opts
	graceOpts.Timeout = opts.Timeout / 2
	if _, err := c.pollUntil(ctx, executor, svc, api.StateStopped, graceOpts); err == nil {
		return ActionResult{Service: svc.Name, Action: api.ActionStop, Success: true, State: api.StateStopped, Duration: time.Since(started), Message: "stop completed"}
	} else if !api.IsTimeout(err) {
		return c.failure(svc, api.ActionStop, time.Since(started), err)
	}

	logging.Warn("Lifecycle", "service %s did not stop within %s, escalating to kill", svc.Name, graceOpts.Timeout)
	if err := executor.Kill(ctx, svc); err != nil {
		return c.failure(svc, api.ActionStop, time.Since(started), &api.RemoteExecutionError{Service: svc.Name, Host: hostLabel(svc), Action: api.ActionStop, Err: err})
	}

	killOpts := opts
	killOpts.Timeout = opts.Timeout - graceOpts.Timeout
	final, err := c.pollUntil(ctx, executor, svc, api.StateStopped, killOpts)
	if err != nil {
		return c.failure(svc, api.ActionStop, time.Since(started), err)
	}

	return ActionResult{Service: svc.Name, Action: api.ActionStop, Success: true, State: final, Duration: time.Since(started), Message: "stop completed after kill escalation"}
}

// healthCheck gathers observed state plus auxiliary signals and classifies
// them without mutating service state.
func (c *Controller) healthCheck(ctx context.Context, svc config.ServiceDescriptor, opts ExecOptions) ActionResult {
	if opts.DryRun {
		logging.Info("Lifecycle", "[dry-run] would health-check service %s", svc.Name)
		return ActionResult{
			Service: svc.Name,
			Action:  api.ActionHealthCheck,
			Success: true,
			State:   api.StateRunning,
			Health:  api.HealthHealthy,
			Message: "dry-run: health check not issued",
		}
	}

	executor, err := c.factory(svc)
	if err != nil {
		return c.failure(svc, api.ActionHealthCheck, 0, err)
	}

	started := time.Now()
	signals, err := executor.Signals(ctx, svc)
	elapsed := time.Since(started)
	if err != nil {
		result := c.failure(svc, api.ActionHealthCheck, elapsed, &api.RemoteExecutionError{Service: svc.Name, Host: hostLabel(svc), Action: api.ActionHealthCheck, Err: err})
		result.Health = api.HealthCritical
		return result
	}

	health := classify(signals)
	return ActionResult{
		Service:  svc.Name,
		Action:   api.ActionHealthCheck,
		Success:  true,
		State:    signals.State,
		Health:   health,
		Duration: elapsed,
		Message:  fmt.Sprintf("state %s, process present %t, restarts %d", signals.State, signals.ProcessPresent, signals.Restarts),
	}
}

// classify maps health signals to the composite classification.
func classify(signals HealthSignals) api.HealthStatus {
	if signals.State != api.StateRunning {
		return api.HealthCritical
	}
	if !signals.ProcessPresent || signals.Restarts > 0 {
		return api.HealthWarning
	}
	return api.HealthHealthy
}

func (c *Controller) issue(ctx context.Context, executor TransitionExecutor, svc config.ServiceDescriptor, action api.ActionKind) error {
	switch action {
	case api.ActionStart:
		return executor.Start(ctx, svc)
	case api.ActionStop:
		return executor.Stop(ctx, svc)
	default:
		return fmt.Errorf("no direct transition for action %s", action)
	}
}

// pollUntil observes the service state at the poll interval until the desired
// state appears or the timeout elapses. Transient observation errors do not
// abort the wait; the transition itself may briefly make the unit
// unobservable.
func (c *Controller) pollUntil(ctx context.Context, executor TransitionExecutor, svc config.ServiceDescriptor, desired api.ServiceState, opts ExecOptions) (api.ServiceState, error) {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	started := time.Now()
	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := api.StateUnknown
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()

		case <-deadline.C:
			return last, &api.TimeoutError{
				Subject: svc.Name,
				Elapsed: time.Since(started),
				Budget:  opts.Timeout,
				Detail:  fmt.Sprintf("desired state %s, observed %s", desired, last),
			}

		case <-ticker.C:
			state, err := executor.ObserveState(ctx, svc)
			if err != nil {
				logging.Debug("Lifecycle", "state poll for %s failed, retrying: %v", svc.Name, err)
				continue
			}
			last = state
			if state == desired {
				return state, nil
			}
		}
	}
}

func (c *Controller) failure(svc config.ServiceDescriptor, action api.ActionKind, elapsed time.Duration, err error) ActionResult {
	logging.Error("Lifecycle", err, "%s of service %s failed after %s", action, svc.Name, elapsed.Round(time.Millisecond))
	return ActionResult{
		Service:  svc.Name,
		Action:   action,
		Success:  false,
		Duration: elapsed,
		Message:  err.Error(),
		Err:      err,
	}
}

func hostLabel(svc config.ServiceDescriptor) string {
	if svc.Host == "" {
		return "localhost"
	}
	return svc.Host
}
