package api

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		matcher func(error) bool
	}{
		{"not found", NewServiceNotFoundError("core-ledger"), IsNotFound},
		{"validation", NewValidationError("kind", "bad kind"), IsValidation},
		{"cycle", &DependencyCycleError{Services: []string{"a", "b"}}, IsDependencyCycle},
		{"unknown dependency", &UnknownDependencyError{Service: "a", Dependency: "ghost"}, IsUnknownDependency},
		{"timeout", &TimeoutError{Subject: "core-ledger", Elapsed: 2 * time.Second, Budget: 2 * time.Second}, IsTimeout},
		{"remote execution", &RemoteExecutionError{Service: "a", Host: "h", Action: ActionStart, Err: assert.AnError}, IsRemoteExecution},
		{"concurrent", &ConcurrentOperationError{Kind: KindSOD, Environment: "prod"}, IsConcurrentOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.matcher(tt.err))
			// Matching must survive wrapping.
			assert.True(t, tt.matcher(fmt.Errorf("phase failed: %w", tt.err)))
			// And must not match a plain error.
			assert.False(t, tt.matcher(assert.AnError))
		})
	}
}

func TestRemoteExecutionErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := &RemoteExecutionError{Service: "pay-gateway", Host: "pay01", Action: ActionStop, Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "pay-gateway")
	assert.Contains(t, err.Error(), "pay01")
}

func TestTimeoutErrorMessage(t *testing.T) {
	err := &TimeoutError{
		Subject: "core-ledger",
		Elapsed: 2100 * time.Millisecond,
		Budget:  2 * time.Second,
		Detail:  "desired state running, observed starting",
	}
	msg := err.Error()
	assert.Contains(t, msg, "core-ledger")
	assert.Contains(t, msg, "2s")
	assert.Contains(t, msg, "observed starting")
}

func TestOperationStatusPredicates(t *testing.T) {
	assert.True(t, OperationInitiated.IsActive())
	assert.True(t, OperationRunning.IsActive())
	assert.False(t, OperationCompleted.IsActive())

	assert.True(t, OperationCompleted.IsTerminal())
	assert.True(t, OperationFailed.IsTerminal())
	assert.True(t, OperationCancelled.IsTerminal())
	assert.False(t, OperationRunning.IsTerminal())
}
