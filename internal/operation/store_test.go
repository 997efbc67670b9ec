package operation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutover/internal/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func terminalSnapshot(id, environment string, status api.OperationStatus, start time.Time) api.OperationSnapshot {
	end := start.Add(10 * time.Minute)
	return api.OperationSnapshot{
		OperationID:        id,
		Kind:               api.KindEOD,
		Environment:        environment,
		Status:             status,
		ProgressPercentage: 100,
		StartTime:          start,
		EndTime:            &end,
		Comments:           "scheduled run",
		Steps: []api.StepSnapshot{
			{Name: "pre-eod validation", Status: api.StepCompleted},
			{Name: "transaction halt", Status: api.StepCompleted, Detail: "queues drained"},
		},
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := terminalSnapshot("op-1", "production", api.OperationCompleted, time.Now())
	require.NoError(t, store.Save(ctx, saved))

	loaded, found, err := store.Get(ctx, "op-1")
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, saved.OperationID, loaded.OperationID)
	assert.Equal(t, api.KindEOD, loaded.Kind)
	assert.Equal(t, api.OperationCompleted, loaded.Status)
	assert.Equal(t, "scheduled run", loaded.Comments)
	require.NotNil(t, loaded.EndTime)
	assert.WithinDuration(t, *saved.EndTime, *loaded.EndTime, time.Millisecond)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "queues drained", loaded.Steps[1].Detail)
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Get(context.Background(), "no-such-op")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreSaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snapshot := terminalSnapshot("op-1", "production", api.OperationRunning, time.Now())
	snapshot.EndTime = nil
	snapshot.ProgressPercentage = 40
	require.NoError(t, store.Save(ctx, snapshot))

	final := terminalSnapshot("op-1", "production", api.OperationCompleted, snapshot.StartTime)
	require.NoError(t, store.Save(ctx, final))

	loaded, found, err := store.Get(ctx, "op-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, api.OperationCompleted, loaded.Status)
	assert.Equal(t, 100, loaded.ProgressPercentage)
	assert.NotNil(t, loaded.EndTime)
}

func TestStoreListFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, store.Save(ctx, terminalSnapshot("op-old", "production", api.OperationCompleted, base)))
	require.NoError(t, store.Save(ctx, terminalSnapshot("op-new", "production", api.OperationFailed, base.Add(30*time.Minute))))
	require.NoError(t, store.Save(ctx, terminalSnapshot("op-stg", "staging", api.OperationCompleted, base.Add(15*time.Minute))))

	all, err := store.List(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "op-new", all[0].OperationID)

	production, err := store.List(ctx, "production", 10)
	require.NoError(t, err)
	require.Len(t, production, 2)
	assert.Equal(t, "op-new", production[0].OperationID)
	assert.Equal(t, "op-old", production[1].OperationID)

	limited, err := store.List(ctx, "production", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStorePing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
