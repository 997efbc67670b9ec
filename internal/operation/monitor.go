package operation

import (
	"context"
	"sync"

	"cutover/internal/api"
	"cutover/pkg/logging"
)

// activeKey identifies the admission-control slot of an operation.
type activeKey struct {
	kind        api.OperationKind
	environment string
}

// Monitor is the process-wide registry of operations. It enforces the
// single-active-operation-per-(kind, environment) invariant, answers status
// queries and accepts cooperative cancellation requests. The monitor never
// mutates step contents; that is the owning orchestrator's job.
type Monitor struct {
	mu     sync.Mutex
	active map[activeKey]*Operation
	all    map[string]*Operation

	store *Store
}

// NewMonitor creates a monitor. The store is optional; without it terminal
// operations are only retained in memory.
func NewMonitor(store *Store) *Monitor {
	return &Monitor{
		active: make(map[activeKey]*Operation),
		all:    make(map[string]*Operation),
		store:  store,
	}
}

// Submit validates and admits an operation request. The admission check and
// registration happen under one lock so two racing submissions of the same
// (kind, environment) can never both pass. With ForceExecution the prior
// active operation is cancelled and superseded.
func (m *Monitor) Submit(req api.OperationRequest) (*Operation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := activeKey{kind: req.Kind, environment: req.Environment}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prior, ok := m.active[key]; ok && prior.Status().IsActive() {
		if !req.ForceExecution {
			return nil, &api.ConcurrentOperationError{
				Kind:              req.Kind,
				Environment:       req.Environment,
				ActiveOperationID: prior.ID(),
			}
		}
		prior.Cancel("superseded by forced execution")
		logging.Warn("OperationMonitor", "operation %s cancelled by forced %s submission for environment %s",
			prior.ID(), req.Kind, req.Environment)
		m.persist(prior)
	}

	op := New(req)
	m.active[key] = op
	m.all[op.ID()] = op

	logging.Info("OperationMonitor", "admitted %s operation %s for environment %s (dry-run: %t)",
		req.Kind, op.ID(), req.Environment, req.DryRun)
	return op, nil
}

// GetStatus returns the status snapshot for an operation, consulting the
// audit store for operations that are no longer in memory.
func (m *Monitor) GetStatus(ctx context.Context, operationID string) (api.OperationSnapshot, error) {
	m.mu.Lock()
	op, ok := m.all[operationID]
	m.mu.Unlock()

	if ok {
		return op.Snapshot(), nil
	}

	if m.store != nil {
		snapshot, found, err := m.store.Get(ctx, operationID)
		if err != nil {
			return api.OperationSnapshot{}, err
		}
		if found {
			return snapshot, nil
		}
	}

	return api.OperationSnapshot{}, api.NewOperationNotFoundError(operationID)
}

// RequestCancel sets the cooperative cancellation flag on an operation. The
// orchestrator honours it at the next phase boundary.
func (m *Monitor) RequestCancel(operationID string) error {
	m.mu.Lock()
	op, ok := m.all[operationID]
	m.mu.Unlock()

	if !ok {
		return api.NewOperationNotFoundError(operationID)
	}
	if !op.RequestCancel() {
		return api.NewValidationError("operationId", "operation %s is already terminal", operationID)
	}

	logging.Info("OperationMonitor", "cancellation requested for operation %s", operationID)
	return nil
}

// Finalize releases the admission slot of a terminal operation and persists
// the audit record. The orchestrator calls it exactly once per run.
func (m *Monitor) Finalize(op *Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := activeKey{kind: op.Kind(), environment: op.Environment()}
	if current, ok := m.active[key]; ok && current.ID() == op.ID() {
		delete(m.active, key)
	}
	m.persist(op)
}

// persist writes the operation to the audit store. Callers hold m.mu.
func (m *Monitor) persist(op *Operation) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(context.Background(), op.Snapshot()); err != nil {
		logging.Error("OperationMonitor", err, "failed to persist operation %s", op.ID())
	}
}

// ListActive returns snapshots of all currently admitted operations.
func (m *Monitor) ListActive() []api.OperationSnapshot {
	m.mu.Lock()
	ops := make([]*Operation, 0, len(m.active))
	for _, op := range m.active {
		ops = append(ops, op)
	}
	m.mu.Unlock()

	snapshots := make([]api.OperationSnapshot, 0, len(ops))
	for _, op := range ops {
		snapshot := op.Snapshot()
		if snapshot.Status.IsActive() {
			snapshots = append(snapshots, snapshot)
		}
	}
	return snapshots
}

// History returns persisted operations for an environment, newest first.
// Empty environment means all environments.
func (m *Monitor) History(ctx context.Context, environment string, limit int) ([]api.OperationSnapshot, error) {
	if m.store == nil {
		return nil, nil
	}
	return m.store.List(ctx, environment, limit)
}
