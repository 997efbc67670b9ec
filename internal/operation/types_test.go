package operation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutover/internal/api"
)

func newTestRequest(kind api.OperationKind) api.OperationRequest {
	req := api.OperationRequest{
		Environment: "production",
		Kind:        kind,
	}
	if kind == api.KindEOD {
		cutoff := time.Now().Add(time.Hour)
		req.CutoffTime = &cutoff
	}
	return req
}

func TestNewOperationStartsInitiated(t *testing.T) {
	op := New(newTestRequest(api.KindSOD))

	assert.NotEmpty(t, op.ID())
	assert.Equal(t, api.KindSOD, op.Kind())
	assert.Equal(t, "production", op.Environment())
	assert.Equal(t, api.OperationInitiated, op.Status())
	assert.False(t, op.CancelRequested())
}

func TestStepLifecycle(t *testing.T) {
	op := New(newTestRequest(api.KindSOD))
	op.MarkRunning()
	op.SetPlannedStepTotal(4)

	first := op.BeginStep("pre-checks")
	op.CompleteStep(first, "all checks passed")

	second := op.BeginStep("start core-ledger")
	op.FailStep(second, "start core-ledger", errors.New("unit failed"))

	op.SkipStep("start payment-gateway", "dependency core-ledger failed")

	snapshot := op.Snapshot()
	require.Len(t, snapshot.Steps, 3)

	assert.Equal(t, api.StepCompleted, snapshot.Steps[0].Status)
	assert.Equal(t, "all checks passed", snapshot.Steps[0].Detail)
	assert.NotNil(t, snapshot.Steps[0].StartTime)
	assert.NotNil(t, snapshot.Steps[0].EndTime)

	assert.Equal(t, api.StepFailed, snapshot.Steps[1].Status)
	assert.Equal(t, "unit failed", snapshot.Steps[1].ErrorMessage)

	assert.Equal(t, api.StepSkipped, snapshot.Steps[2].Status)
	assert.Equal(t, "dependency core-ledger failed", snapshot.Steps[2].Detail)
	assert.Nil(t, snapshot.Steps[2].StartTime)
}

func TestStepOrderIsMonotonic(t *testing.T) {
	op := New(newTestRequest(api.KindSOD))
	op.MarkRunning()

	op.BeginStep("a")
	op.SkipStep("b", "skipped")
	op.BeginStep("c")

	op.mu.RLock()
	defer op.mu.RUnlock()
	for i, step := range op.steps {
		assert.Equal(t, i+1, step.Order)
	}
}

func TestProgressComputation(t *testing.T) {
	op := New(newTestRequest(api.KindSOD))
	op.MarkRunning()
	op.SetPlannedStepTotal(4)

	assert.Zero(t, op.Snapshot().ProgressPercentage)

	first := op.BeginStep("one")
	op.CompleteStep(first, "")
	assert.Equal(t, 25, op.Snapshot().ProgressPercentage)

	op.SkipStep("two", "not needed")
	assert.Equal(t, 50, op.Snapshot().ProgressPercentage)

	op.Complete()
	assert.Equal(t, 100, op.Snapshot().ProgressPercentage)
}

func TestTerminalRecordsAreImmutable(t *testing.T) {
	op := New(newTestRequest(api.KindEOD))
	op.MarkRunning()
	op.Fail(errors.New("drain timed out"))

	endBefore := op.Snapshot().EndTime
	require.NotNil(t, endBefore)

	op.Complete()
	op.Cancel("late cancel")

	snapshot := op.Snapshot()
	assert.Equal(t, api.OperationFailed, snapshot.Status)
	assert.Equal(t, "drain timed out", snapshot.ErrorMessage)
	assert.Equal(t, endBefore, snapshot.EndTime)
}

func TestRequestCancelAfterTerminal(t *testing.T) {
	op := New(newTestRequest(api.KindSOD))
	op.MarkRunning()

	assert.True(t, op.RequestCancel())
	assert.True(t, op.CancelRequested())

	op.Cancel("user request")
	assert.False(t, op.RequestCancel())
}

func TestSnapshotClearsCurrentStepOnFinish(t *testing.T) {
	op := New(newTestRequest(api.KindSOD))
	op.MarkRunning()

	idx := op.BeginStep("service startup")
	assert.Equal(t, "service startup", op.Snapshot().CurrentStep)

	op.CompleteStep(idx, "")
	op.Complete()
	assert.Empty(t, op.Snapshot().CurrentStep)
}
