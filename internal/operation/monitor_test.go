package operation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutover/internal/api"
)

func TestSubmitRejectsInvalidRequest(t *testing.T) {
	monitor := NewMonitor(nil)

	_, err := monitor.Submit(api.OperationRequest{Kind: api.KindSOD})
	assert.True(t, api.IsValidation(err))
}

func TestSubmitEnforcesSingleActivePerKindAndEnvironment(t *testing.T) {
	monitor := NewMonitor(nil)

	first, err := monitor.Submit(newTestRequest(api.KindSOD))
	require.NoError(t, err)

	_, err = monitor.Submit(newTestRequest(api.KindSOD))
	require.Error(t, err)

	var concurrent *api.ConcurrentOperationError
	require.ErrorAs(t, err, &concurrent)
	assert.Equal(t, first.ID(), concurrent.ActiveOperationID)
}

func TestSubmitAllowsDifferentKindOrEnvironment(t *testing.T) {
	monitor := NewMonitor(nil)

	_, err := monitor.Submit(newTestRequest(api.KindSOD))
	require.NoError(t, err)

	_, err = monitor.Submit(newTestRequest(api.KindEOD))
	assert.NoError(t, err)

	other := newTestRequest(api.KindSOD)
	other.Environment = "staging"
	_, err = monitor.Submit(other)
	assert.NoError(t, err)
}

func TestSubmitForceExecutionSupersedesActive(t *testing.T) {
	monitor := NewMonitor(nil)

	first, err := monitor.Submit(newTestRequest(api.KindSOD))
	require.NoError(t, err)
	first.MarkRunning()

	forced := newTestRequest(api.KindSOD)
	forced.ForceExecution = true
	second, err := monitor.Submit(forced)
	require.NoError(t, err)

	assert.Equal(t, api.OperationCancelled, first.Status())
	assert.Equal(t, api.OperationInitiated, second.Status())
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestSubmitAfterFinalizeAdmitsAgain(t *testing.T) {
	monitor := NewMonitor(nil)

	first, err := monitor.Submit(newTestRequest(api.KindSOD))
	require.NoError(t, err)

	first.MarkRunning()
	first.Complete()
	monitor.Finalize(first)

	_, err = monitor.Submit(newTestRequest(api.KindSOD))
	assert.NoError(t, err)
}

func TestConcurrentSubmitAdmitsExactlyOne(t *testing.T) {
	monitor := NewMonitor(nil)

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = monitor.Submit(newTestRequest(api.KindEOD))
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		if err == nil {
			admitted++
		} else {
			var concurrent *api.ConcurrentOperationError
			assert.ErrorAs(t, err, &concurrent)
		}
	}
	assert.Equal(t, 1, admitted)
}

func TestGetStatusUnknownOperation(t *testing.T) {
	monitor := NewMonitor(nil)

	_, err := monitor.GetStatus(context.Background(), "no-such-id")
	assert.True(t, api.IsNotFound(err))
}

func TestGetStatusFallsBackToStore(t *testing.T) {
	store, err := NewStore(t.TempDir() + "/audit.db")
	require.NoError(t, err)
	defer store.Close()

	monitor := NewMonitor(store)

	op, err := monitor.Submit(newTestRequest(api.KindSOD))
	require.NoError(t, err)
	op.MarkRunning()
	op.Complete()
	monitor.Finalize(op)

	// Simulate a restart losing in-memory state.
	fresh := NewMonitor(store)
	snapshot, err := fresh.GetStatus(context.Background(), op.ID())
	require.NoError(t, err)
	assert.Equal(t, api.OperationCompleted, snapshot.Status)
}

func TestRequestCancel(t *testing.T) {
	monitor := NewMonitor(nil)

	op, err := monitor.Submit(newTestRequest(api.KindSOD))
	require.NoError(t, err)
	op.MarkRunning()

	require.NoError(t, monitor.RequestCancel(op.ID()))
	assert.True(t, op.CancelRequested())

	assert.True(t, api.IsNotFound(monitor.RequestCancel("no-such-id")))

	op.Cancel("boundary reached")
	assert.True(t, api.IsValidation(monitor.RequestCancel(op.ID())))
}

func TestListActive(t *testing.T) {
	monitor := NewMonitor(nil)

	sod, err := monitor.Submit(newTestRequest(api.KindSOD))
	require.NoError(t, err)
	eod, err := monitor.Submit(newTestRequest(api.KindEOD))
	require.NoError(t, err)

	assert.Len(t, monitor.ListActive(), 2)

	sod.MarkRunning()
	sod.Complete()
	monitor.Finalize(sod)

	active := monitor.ListActive()
	require.Len(t, active, 1)
	assert.Equal(t, eod.ID(), active[0].OperationID)
}

func TestHistoryWithoutStore(t *testing.T) {
	monitor := NewMonitor(nil)

	history, err := monitor.History(context.Background(), "production", 10)
	assert.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryReturnsPersistedOperations(t *testing.T) {
	store, err := NewStore(t.TempDir() + "/audit.db")
	require.NoError(t, err)
	defer store.Close()

	monitor := NewMonitor(store)

	for i := 0; i < 3; i++ {
		op, err := monitor.Submit(newTestRequest(api.KindSOD))
		require.NoError(t, err)
		op.MarkRunning()
		op.Complete()
		monitor.Finalize(op)
		time.Sleep(5 * time.Millisecond)
	}

	history, err := monitor.History(context.Background(), "production", 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
