package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"syscall"

	"github.com/coreos/go-systemd/v22/dbus"

	"cutover/internal/api"
	"cutover/internal/config"
	"cutover/pkg/logging"
)

// SystemdExecutor controls units on the local machine through the systemd
// D-Bus API. The connection is established lazily on first use and shared
// across calls.
type SystemdExecutor struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewSystemdExecutor creates a local executor. No connection is made until
// the first action.
func NewSystemdExecutor() *SystemdExecutor {
	return &SystemdExecutor{}
}

func (e *SystemdExecutor) connection(ctx context.Context) (*dbus.Conn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != nil && e.conn.Connected() {
		return e.conn, nil
	}
	if e.conn != nil {
		e.conn.Close()
		e.conn = nil
	}

	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to systemd: %w", err)
	}
	e.conn = conn
	return conn, nil
}

// Close releases the D-Bus connection.
func (e *SystemdExecutor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		e.conn.Close()
		e.conn = nil
	}
}

// ObserveState maps the unit's ActiveState onto the service state model.
func (e *SystemdExecutor) ObserveState(ctx context.Context, svc config.ServiceDescriptor) (api.ServiceState, error) {
	conn, err := e.connection(ctx)
	if err != nil {
		return api.StateUnknown, err
	}

	props, err := conn.GetUnitPropertiesContext(ctx, svc.Unit)
	if err != nil {
		return api.StateUnknown, fmt.Errorf("query unit %s: %w", svc.Unit, err)
	}

	active, _ := props["ActiveState"].(string)
	return mapActiveState(active), nil
}

// Start issues the start job. Completion is observed by the caller's state
// polling, not by waiting on the job result.
func (e *SystemdExecutor) Start(ctx context.Context, svc config.ServiceDescriptor) error {
	conn, err := e.connection(ctx)
	if err != nil {
		return err
	}
	if _, err := conn.StartUnitContext(ctx, svc.Unit, "replace", nil); err != nil {
		return fmt.Errorf("start unit %s: %w", svc.Unit, err)
	}
	logging.Debug("SystemdExecutor", "issued start for unit %s", svc.Unit)
	return nil
}

// Stop issues the graceful stop job.
func (e *SystemdExecutor) Stop(ctx context.Context, svc config.ServiceDescriptor) error {
	conn, err := e.connection(ctx)
	if err != nil {
		return err
	}
	if _, err := conn.StopUnitContext(ctx, svc.Unit, "replace", nil); err != nil {
		return fmt.Errorf("stop unit %s: %w", svc.Unit, err)
	}
	logging.Debug("SystemdExecutor", "issued stop for unit %s", svc.Unit)
	return nil
}

// Kill sends SIGKILL to all unit processes.
func (e *SystemdExecutor) Kill(ctx context.Context, svc config.ServiceDescriptor) error {
	conn, err := e.connection(ctx)
	if err != nil {
		return err
	}
	conn.KillUnitContext(ctx, svc.Unit, int32(syscall.SIGKILL))
	logging.Warn("SystemdExecutor", "sent SIGKILL to unit %s", svc.Unit)
	return nil
}

// Signals gathers state plus process and resource observations.
func (e *SystemdExecutor) Signals(ctx context.Context, svc config.ServiceDescriptor) (HealthSignals, error) {
	conn, err := e.connection(ctx)
	if err != nil {
		return HealthSignals{}, err
	}

	props, err := conn.GetUnitPropertiesContext(ctx, svc.Unit)
	if err != nil {
		return HealthSignals{}, fmt.Errorf("query unit %s: %w", svc.Unit, err)
	}
	active, _ := props["ActiveState"].(string)

	svcProps, err := conn.GetUnitTypePropertiesContext(ctx, svc.Unit, "Service")
	if err != nil {
		return HealthSignals{}, fmt.Errorf("query service properties of %s: %w", svc.Unit, err)
	}

	signals := HealthSignals{State: mapActiveState(active)}
	if pid, ok := svcProps["MainPID"].(uint32); ok {
		signals.ProcessPresent = pid > 0
	}
	if mem, ok := svcProps["MemoryCurrent"].(uint64); ok && mem != math.MaxUint64 {
		signals.MemoryBytes = mem
	}
	if restarts, ok := svcProps["NRestarts"].(uint32); ok {
		signals.Restarts = restarts
	}
	return signals, nil
}

// mapActiveState converts systemd's ActiveState vocabulary.
func mapActiveState(active string) api.ServiceState {
	switch active {
	case "active":
		return api.StateRunning
	case "activating", "reloading":
		return api.StateStarting
	case "deactivating":
		return api.StateStopping
	case "inactive":
		return api.StateStopped
	case "failed":
		return api.StateFailed
	default:
		return api.StateUnknown
	}
}
