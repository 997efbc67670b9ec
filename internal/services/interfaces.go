package services

import (
	"context"
	"time"

	"cutover/internal/api"
	"cutover/internal/config"
)

// HealthSignals are the auxiliary observations gathered by a health check on
// top of the unit state.
type HealthSignals struct {
	// State is the observed unit state.
	State api.ServiceState

	// ProcessPresent reports whether the main process exists.
	ProcessPresent bool

	// MemoryBytes is the unit's current memory usage, zero when unknown.
	MemoryBytes uint64

	// Restarts counts automatic restarts since the unit was loaded.
	Restarts uint32
}

// TransitionExecutor issues lifecycle commands against one service's host and
// observes its state. Implementations exist for local systemd control and for
// SSH-reached remote hosts; the descriptor decides which one a service gets.
type TransitionExecutor interface {
	// ObserveState returns the current unit state.
	ObserveState(ctx context.Context, svc config.ServiceDescriptor) (api.ServiceState, error)

	// Start issues the start transition without waiting for completion.
	Start(ctx context.Context, svc config.ServiceDescriptor) error

	// Stop issues the graceful stop transition without waiting.
	Stop(ctx context.Context, svc config.ServiceDescriptor) error

	// Kill forcefully terminates the unit. Used when a graceful stop
	// exceeds its escalation budget during restart.
	Kill(ctx context.Context, svc config.ServiceDescriptor) error

	// Signals gathers the composite health observations. Read-only.
	Signals(ctx context.Context, svc config.ServiceDescriptor) (HealthSignals, error)
}

// ExecutorFactory selects the TransitionExecutor for a descriptor.
type ExecutorFactory func(svc config.ServiceDescriptor) (TransitionExecutor, error)

// ActionResult reports the outcome of one lifecycle action against one
// service. It is folded into the owning operation step's detail.
type ActionResult struct {
	Service  string
	Action   api.ActionKind
	Success  bool
	State    api.ServiceState
	Health   api.HealthStatus
	Duration time.Duration
	Message  string
	Err      error
}

// ExecOptions bound a single action execution.
type ExecOptions struct {
	// Timeout bounds the transition including state polling.
	Timeout time.Duration

	// PollInterval is the state polling cadence.
	PollInterval time.Duration

	// DryRun logs the intended behaviour and returns synthetic success
	// without touching the host.
	DryRun bool
}
